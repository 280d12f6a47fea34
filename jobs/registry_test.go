package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jverbeke/pitchplan/core/model"
	"github.com/jverbeke/pitchplan/core/solver"
	"github.com/jverbeke/pitchplan/infra/logger"
	"github.com/jverbeke/pitchplan/internal/eventbus"
	"github.com/jverbeke/pitchplan/progress"
)

func testInput() solver.Input {
	return solver.Input{
		Fields: []model.Field{
			{ID: "K1", Size: model.Size11v11, Role: model.RoleFull, Active: true,
				Windows: map[model.Weekday]model.Window{model.Monday: {Start: 64, End: 72}}},
			{ID: "K1-A", Role: model.RoleHalf, ParentID: "K1"},
			{ID: "K1-B", Role: model.RoleHalf, ParentID: "K1"},
		},
		Demands: []model.Demand{{TeamID: "TA", Count: 1, Length: 4, Cost: 500}},
	}
}

func TestRunCompletesJobAndStreams(t *testing.T) {
	reg := NewRegistry()
	bus := eventbus.New[progress.Snapshot]()
	sub := bus.Subscribe()

	job, err := reg.Run(context.Background(), solver.New(logger.NopLogger{}), testInput(), solver.Options{}, bus)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, job.State)
	require.NotNil(t, job.Result)
	assert.Equal(t, model.StatusOptimal, job.Result.Status)
	assert.Len(t, job.Result.Entries, 1)
	assert.Equal(t, 1, job.Snapshots)

	first := <-sub
	assert.Equal(t, job.ID, first.JobID)
	assert.Equal(t, 1, first.Seq)
	assert.False(t, first.Final)
	assert.Len(t, first.Entries, 1)

	final := <-sub
	assert.True(t, final.Final)
	assert.Equal(t, 2, final.Seq)
	assert.Equal(t, model.StatusOptimal.String(), final.Status)
}

func TestRunWithoutBus(t *testing.T) {
	reg := NewRegistry()
	job, err := reg.Run(context.Background(), solver.New(logger.NopLogger{}), testInput(), solver.Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, job.State)
	assert.Zero(t, job.Snapshots)
}

func TestRunMarksInvalidInputFailed(t *testing.T) {
	reg := NewRegistry()
	in := testInput()
	in.Demands = []model.Demand{{TeamID: "TA", Count: 0, Length: 4, Cost: 500}}

	job, err := reg.Run(context.Background(), solver.New(logger.NopLogger{}), in, solver.Options{}, nil)
	require.Error(t, err)
	assert.True(t, model.IsInvalidInput(err))
	assert.Equal(t, StateFailed, job.State)
	assert.NotEmpty(t, job.Error)
	assert.Nil(t, job.Result)
}

func TestRegistryGetAndList(t *testing.T) {
	reg := NewRegistry()
	a := reg.Create()
	b := reg.Create()

	got, ok := reg.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, StatePending, got.State)

	_, ok = reg.Get("missing")
	assert.False(t, ok)

	jobs := reg.List()
	require.Len(t, jobs, 2)
	ids := map[string]bool{jobs[0].ID: true, jobs[1].ID: true}
	assert.True(t, ids[a.ID] && ids[b.ID])
}
