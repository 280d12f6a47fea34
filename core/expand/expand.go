// Package expand flattens per-team demands into the atomic session requests
// the solver places. Expansion is deterministic: requests come out in demand
// order, then session index, so identical inputs yield identical solves.
package expand

import (
	"fmt"

	"github.com/jverbeke/pitchplan/core/fieldtree"
	"github.com/jverbeke/pitchplan/core/model"
)

// Expand resolves pins and emits Count session requests per demand.
// Any malformed demand or demand no top field can host fails the whole
// expansion with an InvalidInputError.
func Expand(tree *fieldtree.Tree, demands []model.Demand) ([]model.SessionRequest, error) {
	var reqs []model.SessionRequest
	for i, d := range demands {
		if err := d.Validate(); err != nil {
			return nil, model.InvalidInput(fmt.Sprintf("demand %d", i), err)
		}
		cost := d.Cost
		forcedTop := ""
		if d.PinnedSubfieldID != "" {
			top, c, err := tree.ResolvePinned(d.PinnedSubfieldID)
			if err != nil {
				return nil, model.InvalidInput(fmt.Sprintf("demand %d", i), err)
			}
			forcedTop, cost = top, c
		} else if !anyRootAllows(tree, cost) {
			return nil, model.InvalidInput(
				fmt.Sprintf("demand %d: no top field allows cost %d", i, cost), nil)
		}
		for seq := 0; seq < d.Count; seq++ {
			reqs = append(reqs, model.SessionRequest{
				DemandIndex:      i,
				Seq:              seq,
				TeamID:           d.TeamID,
				ForcedTopFieldID: forcedTop,
				Cost:             cost,
				Length:           d.Length,
				PinnedSubfieldID: d.PinnedSubfieldID,
				PinnedDay:        d.PinnedDay,
				PinnedStart:      d.PinnedStart,
			})
		}
	}
	return reqs, nil
}

func anyRootAllows(tree *fieldtree.Tree, cost int) bool {
	for _, top := range tree.Roots() {
		if tree.Allows(top, cost) {
			return true
		}
	}
	return false
}
