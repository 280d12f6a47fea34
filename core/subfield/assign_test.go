package subfield

import (
	"testing"

	"github.com/jverbeke/pitchplan/core/fieldtree"
	"github.com/jverbeke/pitchplan/core/model"
)

func testForest(t *testing.T) *fieldtree.Tree {
	t.Helper()
	windows := map[model.Weekday]model.Window{model.Monday: {Start: 0, End: 96}}
	tree, err := fieldtree.Build([]model.Field{
		{ID: "K1", Size: model.Size11v11, Role: model.RoleFull, Active: true, Windows: windows},
		{ID: "K1-A", Role: model.RoleHalf, ParentID: "K1"},
		{ID: "K1-B", Role: model.RoleHalf, ParentID: "K1"},
		{ID: "K1-A1", Role: model.RoleQuarter, ParentID: "K1-A"},
		{ID: "K1-A2", Role: model.RoleQuarter, ParentID: "K1-A"},
		{ID: "K1-B1", Role: model.RoleQuarter, ParentID: "K1-B"},
		{ID: "K1-B2", Role: model.RoleQuarter, ParentID: "K1-B"},
		{ID: "K2", Size: model.Size8v8, Role: model.RoleFull, Active: true, Windows: windows},
		{ID: "K2-A", Role: model.RoleHalf, ParentID: "K2"},
		{ID: "K2-B", Role: model.RoleHalf, ParentID: "K2"},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return tree
}

func entry(team, top string, cost int, start, end model.Block) model.Entry {
	return model.Entry{TeamID: team, Day: model.Monday, Start: start, End: end, ResourceID: top, Cost: cost}
}

func TestAssignHalvesLowestIDFirst(t *testing.T) {
	tree := testForest(t)
	entries, diags := Assign(tree, []model.Entry{
		entry("TA", "K1", 500, 64, 68),
		entry("TB", "K1", 500, 64, 68),
	})
	if len(diags) != 0 {
		t.Fatalf("diags: %v", diags)
	}
	if entries[0].ResourceID != "K1-A" || entries[1].ResourceID != "K1-B" {
		t.Fatalf("resources = %s, %s", entries[0].ResourceID, entries[1].ResourceID)
	}
}

func TestAssignFullCostKeepsTop(t *testing.T) {
	tree := testForest(t)
	entries, diags := Assign(tree, []model.Entry{entry("TA", "K1", 1000, 64, 72)})
	if len(diags) != 0 || entries[0].ResourceID != "K1" {
		t.Fatalf("entries = %v, diags = %v", entries, diags)
	}
}

func TestAssignQuarterAvoidsOccupiedChain(t *testing.T) {
	tree := testForest(t)
	// The half session on K1-A blocks both of its quarters; the quarter
	// session must land on the B side.
	entries, diags := Assign(tree, []model.Entry{
		entry("TA", "K1", 500, 64, 68),
		entry("TB", "K1", 250, 64, 68),
	})
	if len(diags) != 0 {
		t.Fatalf("diags: %v", diags)
	}
	if entries[0].ResourceID != "K1-A" {
		t.Fatalf("half on %s", entries[0].ResourceID)
	}
	if entries[1].ResourceID != "K1-B1" {
		t.Fatalf("quarter on %s", entries[1].ResourceID)
	}
}

func TestAssignSequentialSessionsReuseSubfield(t *testing.T) {
	tree := testForest(t)
	entries, diags := Assign(tree, []model.Entry{
		entry("TA", "K1", 500, 64, 68),
		entry("TB", "K1", 500, 68, 72),
	})
	if len(diags) != 0 {
		t.Fatalf("diags: %v", diags)
	}
	// No overlap, so both take the lowest id.
	if entries[0].ResourceID != "K1-A" || entries[1].ResourceID != "K1-A" {
		t.Fatalf("resources = %s, %s", entries[0].ResourceID, entries[1].ResourceID)
	}
}

func TestAssignHonoursPin(t *testing.T) {
	tree := testForest(t)
	e := entry("TA", "K1", 500, 64, 68)
	e.PinnedSubfieldID = "K1-B"
	entries, diags := Assign(tree, []model.Entry{e})
	if len(diags) != 0 || entries[0].ResourceID != "K1-B" {
		t.Fatalf("entries = %v, diags = %v", entries, diags)
	}
}

func TestAssignQuarterCostOnHalvesOnlyField(t *testing.T) {
	tree := testForest(t)
	// K2 has no quarters; its quarter-cost sessions occupy halves.
	entries, diags := Assign(tree, []model.Entry{
		entry("TA", "K2", 125, 64, 68),
		entry("TB", "K2", 125, 64, 68),
	})
	if len(diags) != 0 {
		t.Fatalf("diags: %v", diags)
	}
	if entries[0].ResourceID != "K2-A" || entries[1].ResourceID != "K2-B" {
		t.Fatalf("resources = %s, %s", entries[0].ResourceID, entries[1].ResourceID)
	}
}

func TestAssignConflictEmitsDiagnostic(t *testing.T) {
	tree := testForest(t)
	// Three concurrent half sessions cannot happen when the engine holds
	// its packing constraints; a conflict here is a bug signal.
	entries, diags := Assign(tree, []model.Entry{
		entry("TA", "K1", 500, 64, 68),
		entry("TB", "K1", 500, 64, 68),
		entry("TC", "K1", 500, 64, 68),
	})
	if len(diags) != 1 || diags[0].Kind != model.DiagSubfieldConflict {
		t.Fatalf("diags = %v", diags)
	}
	if entries[2].ResourceID != "K1" {
		t.Fatalf("conflicting entry moved to %s", entries[2].ResourceID)
	}
}

func TestAssignIndependentDaysAndFields(t *testing.T) {
	tree := testForest(t)
	tue := entry("TB", "K1", 500, 64, 68)
	tue.Day = model.Tuesday
	entries, diags := Assign(tree, []model.Entry{
		entry("TA", "K1", 500, 64, 68),
		tue,
		entry("TC", "K2", 250, 64, 68),
	})
	if len(diags) != 0 {
		t.Fatalf("diags: %v", diags)
	}
	// Different day and different top field never block each other.
	if entries[0].ResourceID != "K1-A" || entries[1].ResourceID != "K1-A" || entries[2].ResourceID != "K2-A" {
		t.Fatalf("resources = %s, %s, %s",
			entries[0].ResourceID, entries[1].ResourceID, entries[2].ResourceID)
	}
}
