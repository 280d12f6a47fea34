// Package progress streams intermediate and final schedules to external
// consumers. The solver's callback publishes snapshots onto an event bus and
// a reporter goroutine forwards them, so no I/O ever happens inside the
// solve.
package progress

import (
	"sync"

	"github.com/jverbeke/pitchplan/core/logger"
	"github.com/jverbeke/pitchplan/core/model"
	"github.com/jverbeke/pitchplan/internal/eventbus"
)

// Snapshot is one complete schedule state for a job. Seq increases with
// every published snapshot; Final marks the snapshot carrying the solve's
// result status.
type Snapshot struct {
	JobID   string        `json:"job_id"`
	Seq     int           `json:"seq"`
	Final   bool          `json:"final"`
	Status  string        `json:"status"`
	Entries []model.Entry `json:"entries"`
}

// Publisher delivers snapshots to an external consumer.
type Publisher interface {
	Publish(s Snapshot) error
	Close() error
}

// MockPublisher records snapshots for tests.
type MockPublisher struct {
	mu        sync.Mutex
	Snapshots []Snapshot
	FailAfter int // fail publishes once this many succeeded, 0 disables
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher { return &MockPublisher{} }

// Publish stores the snapshot.
func (m *MockPublisher) Publish(s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAfter > 0 && len(m.Snapshots) >= m.FailAfter {
		return errPublishFailed
	}
	m.Snapshots = append(m.Snapshots, s)
	return nil
}

// Close implements Publisher.
func (m *MockPublisher) Close() error { return nil }

// Recorded returns a copy of the snapshots published so far.
func (m *MockPublisher) Recorded() []Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Snapshot, len(m.Snapshots))
	copy(out, m.Snapshots)
	return out
}

// Stream drains bus into pub until the bus closes, then reports completion
// on the returned channel. Publish errors are logged and skipped; a dropped
// snapshot is superseded by the next one.
func Stream(bus *eventbus.Bus[Snapshot], pub Publisher, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	ch := bus.Subscribe()
	go func() {
		defer close(done)
		for s := range ch {
			if err := pub.Publish(s); err != nil {
				log.Errorf("publish snapshot %d for job %s: %v", s.Seq, s.JobID, err)
			}
		}
	}()
	return done
}
