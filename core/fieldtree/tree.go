// Package fieldtree holds the read-only field hierarchy used by a solve.
// Fields live in a flat arena keyed by id; parent/child links are id lists,
// so the forest carries no duplicated subtrees and no ownership cycles.
package fieldtree

import (
	"fmt"
	"sort"

	"github.com/jverbeke/pitchplan/core/model"
)

// Tree is an immutable forest of fields rooted at full fields.
type Tree struct {
	fields   map[string]model.Field
	children map[string][]string // direct child ids, sorted
	rootOf   map[string]string
	roots    []string // active full field ids, sorted
}

// Build validates the records and assembles the forest.
func Build(fields []model.Field) (*Tree, error) {
	t := &Tree{
		fields:   make(map[string]model.Field, len(fields)),
		children: make(map[string][]string),
		rootOf:   make(map[string]string),
	}
	for _, f := range fields {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if _, dup := t.fields[f.ID]; dup {
			return nil, fmt.Errorf("duplicate field id %s", f.ID)
		}
		t.fields[f.ID] = f
	}
	for _, f := range t.fields {
		if f.Role == model.RoleFull {
			continue
		}
		parent, ok := t.fields[f.ParentID]
		if !ok {
			return nil, fmt.Errorf("field %s: parent %s: %w", f.ID, f.ParentID, model.ErrUnknownField)
		}
		switch {
		case f.Role == model.RoleHalf && parent.Role != model.RoleFull:
			return nil, fmt.Errorf("field %s: half must hang under a full field", f.ID)
		case f.Role == model.RoleQuarter && parent.Role == model.RoleQuarter:
			return nil, fmt.Errorf("field %s: quarters are leaves", f.ID)
		}
		t.children[f.ParentID] = append(t.children[f.ParentID], f.ID)
	}
	for id := range t.children {
		sort.Strings(t.children[id])
	}
	for id, f := range t.fields {
		root, err := t.walkToRoot(id)
		if err != nil {
			return nil, err
		}
		t.rootOf[id] = root
		if f.Role == model.RoleFull && f.Active {
			t.roots = append(t.roots, id)
		}
	}
	sort.Strings(t.roots)
	return t, nil
}

func (t *Tree) walkToRoot(id string) (string, error) {
	seen := map[string]bool{}
	cur := id
	for {
		if seen[cur] {
			return "", fmt.Errorf("field %s: cycle through %s", id, cur)
		}
		seen[cur] = true
		f := t.fields[cur]
		if f.Role == model.RoleFull {
			return cur, nil
		}
		cur = f.ParentID
	}
}

// Field returns the record for id.
func (t *Tree) Field(id string) (model.Field, bool) {
	f, ok := t.fields[id]
	return f, ok
}

// Roots lists the active top fields in id order.
func (t *Tree) Roots() []string { return t.roots }

// Root returns the top field above id (id itself for a full field).
func (t *Tree) Root(id string) (string, error) {
	root, ok := t.rootOf[id]
	if !ok {
		return "", fmt.Errorf("field %s: %w", id, model.ErrUnknownField)
	}
	return root, nil
}

// Capacity returns the full capacity of the top field above id.
func (t *Tree) Capacity(topID string) int {
	return t.fields[topID].Size.Capacity()
}

// Window returns the availability window of a top field on a weekday.
func (t *Tree) Window(topID string, day model.Weekday) (model.Window, bool) {
	w, ok := t.fields[topID].Windows[day]
	return w, ok
}

// Halves lists the half subfields directly under a top field, in id order.
func (t *Tree) Halves(topID string) []string {
	var out []string
	for _, c := range t.children[topID] {
		if t.fields[c].Role == model.RoleHalf {
			out = append(out, c)
		}
	}
	return out
}

// Quarters lists every quarter reachable under id, direct or via halves,
// deduplicated and in id order.
func (t *Tree) Quarters(id string) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(string)
	walk = func(cur string) {
		for _, c := range t.children[cur] {
			if t.fields[c].Role == model.RoleQuarter && !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(id)
	sort.Strings(out)
	return out
}

// Descendants lists every field strictly below id, in id order.
func (t *Tree) Descendants(id string) []string {
	var out []string
	var walk func(string)
	walk = func(cur string) {
		for _, c := range t.children[cur] {
			out = append(out, c)
			walk(c)
		}
	}
	walk(id)
	sort.Strings(out)
	return out
}

// Ancestors lists the fields strictly above id up to and including its root.
// Unknown ids have no ancestors.
func (t *Tree) Ancestors(id string) []string {
	var out []string
	cur, ok := t.fields[id]
	for ok && cur.Role != model.RoleFull {
		out = append(out, cur.ParentID)
		cur, ok = t.fields[cur.ParentID]
	}
	return out
}

// SameChain reports whether a and b lie on one ancestor/descendant chain.
func (t *Tree) SameChain(a, b string) bool {
	if a == b {
		return true
	}
	for _, anc := range t.Ancestors(a) {
		if anc == b {
			return true
		}
	}
	for _, anc := range t.Ancestors(b) {
		if anc == a {
			return true
		}
	}
	return false
}

// MaxSplits returns how many sub-portions of a top field may be active at
// once: 4 when quarters exist, 2 when only halves, 1 otherwise.
func (t *Tree) MaxSplits(topID string) int {
	if len(t.Quarters(topID)) > 0 {
		return 4
	}
	if len(t.Halves(topID)) > 0 {
		return 2
	}
	return 1
}

// AllowedCosts returns the demand costs a top field can host, largest first.
// Half-cost sessions need halves: a quarters-only field has no single
// subfield a half-cost session could occupy. Quarter-cost sessions fit on
// any subdivision, occupying half of a half when the field has no quarters;
// the splits constraint still caps how many run at once. Costs below the
// smallest demand unit are dropped.
func (t *Tree) AllowedCosts(topID string) []int {
	c := t.Capacity(topID)
	costs := []int{c}
	if len(t.Halves(topID)) > 0 {
		costs = append(costs, c/2)
	}
	if t.MaxSplits(topID) >= 2 && c/4 >= 125 {
		costs = append(costs, c/4)
	}
	return costs
}

// Allows reports whether cost is in the top field's allowed set.
func (t *Tree) Allows(topID string, cost int) bool {
	for _, c := range t.AllowedCosts(topID) {
		if c == cost {
			return true
		}
	}
	return false
}

// ResolvePinned maps a pinned subfield to its top field and the demand cost
// its role implies: full keeps the capacity, halves half it, quarters a
// quarter of it.
func (t *Tree) ResolvePinned(subfieldID string) (topID string, cost int, err error) {
	f, ok := t.fields[subfieldID]
	if !ok {
		return "", 0, fmt.Errorf("pinned subfield %s: %w", subfieldID, model.ErrUnknownField)
	}
	topID, err = t.Root(subfieldID)
	if err != nil {
		return "", 0, err
	}
	c := t.Capacity(topID)
	switch f.Role {
	case model.RoleFull:
		cost = c
	case model.RoleHalf:
		cost = c / 2
	case model.RoleQuarter:
		cost = c / 4
	}
	return topID, cost, nil
}

// BlockedIDs returns the ids exclusively consumed when a session of cost is
// placed on chosenID within topID. A full-capacity session consumes the
// whole subtree; otherwise the chosen subfield blocks itself, its ancestors
// up to the top, and its descendants. Without a chosen subfield only the top
// itself is blocked, a fallback callers should not rely on for sub-capacity
// costs.
func (t *Tree) BlockedIDs(topID string, cost int, chosenID string) map[string]struct{} {
	blocked := map[string]struct{}{topID: {}}
	if cost >= t.Capacity(topID) {
		for _, d := range t.Descendants(topID) {
			blocked[d] = struct{}{}
		}
		return blocked
	}
	if chosenID == "" || chosenID == topID {
		return blocked
	}
	blocked[chosenID] = struct{}{}
	for _, a := range t.Ancestors(chosenID) {
		blocked[a] = struct{}{}
	}
	for _, d := range t.Descendants(chosenID) {
		blocked[d] = struct{}{}
	}
	return blocked
}
