package test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jverbeke/pitchplan/config"
	"github.com/jverbeke/pitchplan/core/fieldtree"
	"github.com/jverbeke/pitchplan/core/model"
	"github.com/jverbeke/pitchplan/core/report"
	"github.com/jverbeke/pitchplan/core/solver"
	"github.com/jverbeke/pitchplan/infra/logger"
	"github.com/jverbeke/pitchplan/internal/eventbus"
	"github.com/jverbeke/pitchplan/jobs"
	"github.com/jverbeke/pitchplan/metrics"
	"github.com/jverbeke/pitchplan/pkg/planfile"
	"github.com/jverbeke/pitchplan/progress"
)

const configYAML = `
solver:
  time_limit_ms: 5000
  enable_adjacency_objective: true
logging:
  level: error
metrics:
  backend: prometheus
`

const planYAML = `
fields:
  - id: K1
    size: 11v11
    role: full
    windows:
      - {day: 0, start: "16:00", end: "20:00"}
      - {day: 2, start: "16:00", end: "20:00"}
      - {day: 4, start: "16:00", end: "20:00"}
  - {id: K1-A, role: half, parent_id: K1}
  - {id: K1-B, role: half, parent_id: K1}
teams:
  - {id: TA, year_label: U15}
  - {id: TB, year_label: U13}
demands:
  - {team: TA, count: 2, length: 4, cost: 500}
  - {team: TB, count: 3, length: 4, cost: 500}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// TestConfigToReportPipeline drives the whole stack the way the CLI does:
// config file, plan file, job registry with snapshot streaming, conflict
// report and metrics sink.
func TestConfigToReportPipeline(t *testing.T) {
	cfg, err := config.Load(writeFile(t, "config.yaml", configYAML))
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Solver.TimeLimitMS)
	assert.True(t, cfg.Solver.EnableAdjacencyObjective)

	in, teams, err := planfile.Load(writeFile(t, "plan.yaml", planYAML))
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, 15, in.TeamYears["TA"])

	bus := eventbus.New[progress.Snapshot]()
	pub := progress.NewMockPublisher()
	done := progress.Stream(bus, pub, logger.NopLogger{})

	reg := jobs.NewRegistry()
	job, err := reg.Run(context.Background(), solver.New(logger.NopLogger{}), in, cfg.Solver, bus)
	bus.Close()
	<-done
	require.NoError(t, err)

	require.Equal(t, jobs.StateCompleted, job.State)
	require.NotNil(t, job.Result)
	res := job.Result
	assert.Equal(t, model.StatusOptimal, res.Status)
	assert.Len(t, res.Entries, 5)
	assert.Empty(t, res.Diagnostics)

	// Every entry must sit on a concrete half.
	for _, e := range res.Entries {
		assert.Contains(t, []string{"K1-A", "K1-B"}, e.ResourceID)
	}

	snaps := pub.Recorded()
	require.NotEmpty(t, snaps)
	assert.True(t, snaps[len(snaps)-1].Final)
	assert.Equal(t, model.StatusOptimal.String(), snaps[len(snaps)-1].Status)

	tree, err := fieldtree.Build(in.Fields)
	require.NoError(t, err)
	rep := report.Analyze(tree, res.Entries)
	assert.Empty(t, rep.Diagnostics)
	require.Len(t, rep.Teams, 2)

	promReg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSink(promReg)
	require.NoError(t, err)
	require.NoError(t, sink.RecordSolve(metrics.SolveRecord{
		Status:    res.Status,
		Duration:  res.Elapsed,
		Entries:   len(res.Entries),
		Solutions: res.Solutions,
		Conflicts: len(rep.Diagnostics),
	}))
	count, err := testutil.GatherAndCount(promReg, "pitchplan_solves_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// TestEnvOverridesConfig checks the environment provider wins over the file.
func TestEnvOverridesConfig(t *testing.T) {
	t.Setenv("PITCHPLAN_SOLVER__TIME_LIMIT_MS", "1234")
	cfg, err := config.Load(writeFile(t, "config.yaml", configYAML))
	require.NoError(t, err)
	assert.Equal(t, 1234, cfg.Solver.TimeLimitMS)
}
