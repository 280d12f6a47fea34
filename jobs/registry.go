// Package jobs tracks schedule solves as background jobs: pending, running,
// completed or failed, with the solve result as payload. The registry is an
// in-process collaborator; hosts that persist jobs wrap it.
package jobs

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jverbeke/pitchplan/core/model"
	"github.com/jverbeke/pitchplan/core/solver"
	"github.com/jverbeke/pitchplan/internal/eventbus"
	"github.com/jverbeke/pitchplan/progress"
)

// State is the lifecycle phase of a job.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Job is one tracked solve.
type Job struct {
	ID        string         `json:"id"`
	State     State          `json:"state"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Snapshots int            `json:"snapshots"`
	Result    *solver.Result `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Registry is a mutex-guarded in-memory job store.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// Create registers a new pending job and returns a copy of it.
func (r *Registry) Create() Job {
	now := time.Now()
	j := &Job{ID: uuid.NewString(), State: StatePending, CreatedAt: now, UpdatedAt: now}
	r.mu.Lock()
	r.jobs[j.ID] = j
	r.mu.Unlock()
	return *j
}

// Get returns a copy of the job with the given id.
func (r *Registry) Get(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// List returns copies of all jobs, oldest first.
func (r *Registry) List() []Job {
	r.mu.RLock()
	out := make([]Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, *j)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Registry) update(id string, fn func(*Job)) {
	r.mu.Lock()
	if j, ok := r.jobs[id]; ok {
		fn(j)
		j.UpdatedAt = time.Now()
	}
	r.mu.Unlock()
}

// Run executes a solve under a fresh registry entry, streaming every
// intermediate solution to bus as a snapshot and the final result as a
// terminal snapshot. A nil bus disables streaming. The returned error is
// non-nil only for invalid input, mirroring the solver.
func (r *Registry) Run(ctx context.Context, s *solver.Solver, in solver.Input, opts solver.Options, bus *eventbus.Bus[progress.Snapshot]) (Job, error) {
	job := r.Create()
	r.update(job.ID, func(j *Job) { j.State = StateRunning })

	seq := 0
	var onProgress solver.ProgressFunc
	if bus != nil {
		onProgress = func(entries []model.Entry) {
			seq++
			r.update(job.ID, func(j *Job) { j.Snapshots = seq })
			bus.Publish(progress.Snapshot{
				JobID:   job.ID,
				Seq:     seq,
				Status:  model.StatusFeasible.String(),
				Entries: entries,
			})
		}
	}

	res, err := s.Solve(ctx, in, opts, onProgress)
	if err != nil {
		r.update(job.ID, func(j *Job) {
			j.State = StateFailed
			j.Error = err.Error()
		})
		job, _ = r.Get(job.ID)
		return job, err
	}

	r.update(job.ID, func(j *Job) {
		j.State = StateCompleted
		j.Result = &res
	})
	if bus != nil {
		seq++
		bus.Publish(progress.Snapshot{
			JobID:   job.ID,
			Seq:     seq,
			Final:   true,
			Status:  res.Status.String(),
			Entries: res.Entries,
		})
	}
	job, _ = r.Get(job.ID)
	return job, nil
}
