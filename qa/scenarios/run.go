package scenarios

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jverbeke/pitchplan/core/fieldtree"
	"github.com/jverbeke/pitchplan/core/report"
	"github.com/jverbeke/pitchplan/core/solver"
	"github.com/jverbeke/pitchplan/infra/logger"
	"github.com/jverbeke/pitchplan/internal/eventbus"
	"github.com/jverbeke/pitchplan/jobs"
	"github.com/jverbeke/pitchplan/metrics"
	"github.com/jverbeke/pitchplan/progress"
)

// RunScenario executes one scenario through the full pipeline: job registry,
// snapshot streaming, metrics sink and conflict report.
func RunScenario(t *testing.T, sc *Scenario) {
	wantStatus, err := parseStatus(sc.Expected.Status)
	if err != nil {
		t.Fatalf("scenario %s: %v", sc.Name, err)
	}
	in, _, err := sc.Plan.ToInput()
	if err != nil {
		t.Fatalf("scenario %s: plan: %v", sc.Name, err)
	}

	sink, err := metrics.NewPromSink(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	bus := eventbus.New[progress.Snapshot]()
	pub := progress.NewMockPublisher()
	done := progress.Stream(bus, pub, logger.NopLogger{})

	reg := jobs.NewRegistry()
	job, err := reg.Run(context.Background(), solver.New(logger.NopLogger{}), in, sc.Options.ToOptions(), bus)
	bus.Close()
	<-done
	if err != nil {
		t.Fatalf("scenario %s: solve: %v", sc.Name, err)
	}
	res := job.Result

	if res.Status != wantStatus {
		t.Errorf("scenario %s: status %s, want %s", sc.Name, res.Status, wantStatus)
	}
	if len(res.Entries) != sc.Expected.Entries {
		t.Errorf("scenario %s: %d entries, want %d", sc.Name, len(res.Entries), sc.Expected.Entries)
	}

	tree, err := fieldtree.Build(in.Fields)
	if err != nil {
		t.Fatalf("scenario %s: tree: %v", sc.Name, err)
	}
	rep := report.Analyze(tree, res.Entries)
	conflicts := len(res.Diagnostics) + len(rep.Diagnostics)
	if conflicts != sc.Expected.Conflicts {
		t.Errorf("scenario %s: %d conflicts, want %d", sc.Name, conflicts, sc.Expected.Conflicts)
	}

	if err := sink.RecordSolve(metrics.SolveRecord{
		Status:    res.Status,
		Duration:  res.Elapsed,
		Entries:   len(res.Entries),
		Solutions: res.Solutions,
		Conflicts: conflicts,
	}); err != nil {
		t.Errorf("scenario %s: record: %v", sc.Name, err)
	}

	if res.Status.Solved() {
		recorded := pub.Recorded()
		if len(recorded) == 0 {
			t.Errorf("scenario %s: no snapshots streamed", sc.Name)
		} else if last := recorded[len(recorded)-1]; !last.Final {
			t.Errorf("scenario %s: last snapshot not final", sc.Name)
		}
	}
}
