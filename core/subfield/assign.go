// Package subfield rewrites solver output from top-field granularity to
// concrete half or quarter subfields. The solver's capacity and splits
// constraints guarantee a free instance exists at every instant; this pass
// only decides which one, deterministically.
package subfield

import (
	"fmt"
	"sort"

	"github.com/jverbeke/pitchplan/core/fieldtree"
	"github.com/jverbeke/pitchplan/core/model"
)

type placed struct {
	start, end model.Block
	blocked    map[string]struct{}
}

// Assign picks a concrete subfield for every entry whose cost is below its
// top field's capacity. Entries keep their order; resource ids are rewritten
// in place. When no candidate is free the entry keeps the top-field id and a
// SubfieldConflict diagnostic is emitted; the packing constraints make that
// a bug signal, not a user error.
func Assign(tree *fieldtree.Tree, entries []model.Entry) ([]model.Entry, []model.Diagnostic) {
	var diags []model.Diagnostic

	type slot struct {
		top string
		day model.Weekday
	}
	groups := make(map[slot][]int)
	for i, e := range entries {
		groups[slot{e.ResourceID, e.Day}] = append(groups[slot{e.ResourceID, e.Day}], i)
	}
	slots := make([]slot, 0, len(groups))
	for s := range groups {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].top != slots[j].top {
			return slots[i].top < slots[j].top
		}
		return slots[i].day < slots[j].day
	})

	for _, s := range slots {
		idx := groups[s]
		sort.SliceStable(idx, func(a, b int) bool {
			ea, eb := entries[idx[a]], entries[idx[b]]
			if ea.Start != eb.Start {
				return ea.Start < eb.Start
			}
			return ea.End < eb.End
		})

		var prior []placed
		for _, i := range idx {
			e := &entries[i]
			overlap := make(map[string]struct{})
			for _, p := range prior {
				if e.Start < p.end && p.start < e.End {
					for id := range p.blocked {
						overlap[id] = struct{}{}
					}
				}
			}
			chosen, ok := pick(tree, s.top, e.Cost, e.PinnedSubfieldID, overlap)
			if !ok {
				diags = append(diags, model.Diagnostic{
					Kind: model.DiagSubfieldConflict,
					Message: fmt.Sprintf("no free subfield on %s %s at %s for team %s (cost %d)",
						s.top, s.day, e.Start.Clock(), e.TeamID, e.Cost),
				})
			} else {
				e.ResourceID = chosen
			}
			prior = append(prior, placed{
				start:   e.Start,
				end:     e.End,
				blocked: tree.BlockedIDs(s.top, e.Cost, chosen),
			})
		}
	}
	return entries, diags
}

// pick returns the lowest-id free candidate for the entry's cost class, or
// the pinned subfield when the request named one.
func pick(tree *fieldtree.Tree, top string, cost int, pinned string, blocked map[string]struct{}) (string, bool) {
	var candidates []string
	switch capacity := tree.Capacity(top); {
	case pinned != "":
		candidates = []string{pinned}
	case cost >= capacity:
		candidates = []string{top}
	case cost*2 == capacity:
		candidates = tree.Halves(top)
	case cost*4 == capacity:
		// Quarter-cost sessions land on halves when the field has no
		// quarter subdivision.
		candidates = tree.Quarters(top)
		if len(candidates) == 0 {
			candidates = tree.Halves(top)
		}
	}
	for _, c := range candidates {
		if _, taken := blocked[c]; !taken {
			return c, true
		}
	}
	return "", false
}
