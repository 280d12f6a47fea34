package report

import (
	"testing"

	"github.com/jverbeke/pitchplan/core/fieldtree"
	"github.com/jverbeke/pitchplan/core/model"
)

func testTree(t *testing.T) *fieldtree.Tree {
	t.Helper()
	tree, err := fieldtree.Build([]model.Field{
		{ID: "K1", Size: model.Size11v11, Role: model.RoleFull, Active: true,
			Windows: map[model.Weekday]model.Window{model.Monday: {Start: 0, End: 96}}},
		{ID: "K1-A", Role: model.RoleHalf, ParentID: "K1"},
		{ID: "K1-B", Role: model.RoleHalf, ParentID: "K1"},
		{ID: "K1-A1", Role: model.RoleQuarter, ParentID: "K1-A"},
		{ID: "K1-A2", Role: model.RoleQuarter, ParentID: "K1-A"},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return tree
}

func entry(team, resource string, day model.Weekday, start, end model.Block) model.Entry {
	return model.Entry{TeamID: team, Day: day, Start: start, End: end, ResourceID: resource, Cost: 500}
}

func TestAnalyzeDetectsSameResourceOverlap(t *testing.T) {
	tree := testTree(t)
	r := Analyze(tree, []model.Entry{
		entry("TA", "K1-A", model.Monday, 64, 68),
		entry("TB", "K1-A", model.Monday, 66, 70),
	})
	if len(r.Diagnostics) != 1 || r.Diagnostics[0].Kind != model.DiagResidualDoubleBooking {
		t.Fatalf("diags = %v", r.Diagnostics)
	}
}

func TestAnalyzeDetectsChainOverlap(t *testing.T) {
	tree := testTree(t)
	// A half and one of its quarters cannot host sessions at the same time.
	r := Analyze(tree, []model.Entry{
		entry("TA", "K1-A", model.Monday, 64, 68),
		entry("TB", "K1-A1", model.Monday, 64, 68),
	})
	if len(r.Diagnostics) != 1 || r.Diagnostics[0].Kind != model.DiagResidualDoubleBooking {
		t.Fatalf("diags = %v", r.Diagnostics)
	}
}

func TestAnalyzeIgnoresSiblingsAndDisjointTimes(t *testing.T) {
	tree := testTree(t)
	r := Analyze(tree, []model.Entry{
		entry("TA", "K1-A", model.Monday, 64, 68),
		entry("TB", "K1-B", model.Monday, 64, 68),
		entry("TC", "K1-A", model.Monday, 68, 72),
		entry("TD", "K1-A", model.Tuesday, 64, 68),
	})
	if len(r.Diagnostics) != 0 {
		t.Fatalf("diags = %v", r.Diagnostics)
	}
}

func TestPatternQuality(t *testing.T) {
	tree := testTree(t)
	r := Analyze(tree, []model.Entry{
		// TA: Mon/Wed/Fri, the ideal three-day rhythm.
		entry("TA", "K1-A", model.Monday, 64, 68),
		entry("TA", "K1-A", model.Wednesday, 64, 68),
		entry("TA", "K1-A", model.Friday, 64, 68),
		// TB: Mon/Tue back to back.
		entry("TB", "K1-B", model.Monday, 64, 68),
		entry("TB", "K1-B", model.Tuesday, 64, 68),
		// TC: a single session is always ideal.
		entry("TC", "K1-B", model.Wednesday, 64, 68),
	})
	if len(r.Teams) != 3 {
		t.Fatalf("teams = %d", len(r.Teams))
	}
	byID := map[string]TeamPattern{}
	for _, p := range r.Teams {
		byID[p.TeamID] = p
	}
	if !byID["TA"].Ideal || byID["TA"].Chain != 1 {
		t.Fatalf("TA pattern = %+v", byID["TA"])
	}
	if byID["TB"].Ideal || byID["TB"].Chain != 2 {
		t.Fatalf("TB pattern = %+v", byID["TB"])
	}
	if !byID["TC"].Ideal {
		t.Fatalf("TC pattern = %+v", byID["TC"])
	}
	if got := r.IdealFraction; got < 0.66 || got > 0.67 {
		t.Fatalf("ideal fraction = %v", got)
	}
	want := (1.0 + 2.0 + 1.0) / 3.0
	if r.MeanChain != want {
		t.Fatalf("mean chain = %v, want %v", r.MeanChain, want)
	}
	non := r.NonIdeal()
	if len(non) != 1 || non[0].TeamID != "TB" {
		t.Fatalf("non-ideal = %v", non)
	}
}

func TestFourDayIdealPattern(t *testing.T) {
	tree := testTree(t)
	var entries []model.Entry
	for _, d := range []model.Weekday{model.Monday, model.Tuesday, model.Thursday, model.Friday} {
		entries = append(entries, entry("TA", "K1-A", d, 64, 68))
	}
	r := Analyze(tree, entries)
	if len(r.Teams) != 1 || !r.Teams[0].Ideal || r.Teams[0].Chain != 2 {
		t.Fatalf("pattern = %+v", r.Teams)
	}
}

func TestEmptyScheduleReport(t *testing.T) {
	tree := testTree(t)
	r := Analyze(tree, nil)
	if len(r.Teams) != 0 || len(r.Diagnostics) != 0 || r.IdealFraction != 0 || r.MeanChain != 0 {
		t.Fatalf("report = %+v", r)
	}
}
