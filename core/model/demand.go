package model

import "fmt"

// Demand is one team's weekly training requirement: how many sessions, how
// long, and on what slice of a field. Either Cost or PinnedSubfieldID is set;
// a pinned subfield derives its cost from the subfield's role.
type Demand struct {
	TeamID           string   `json:"team_id"`
	Count            int      `json:"count"`
	Length           int      `json:"length"` // in 15-minute blocks
	Cost             int      `json:"cost,omitempty"`
	PinnedSubfieldID string   `json:"pinned_subfield_id,omitempty"`
	PinnedDay        *Weekday `json:"pinned_day,omitempty"`
	PinnedStart      *Block   `json:"pinned_start,omitempty"`
}

// demandCosts are the capacities a session may consume on its top field.
var demandCosts = map[int]bool{125: true, 250: true, 500: true, 1000: true}

// Validate checks the record in isolation; eligibility against the field
// tree is checked during expansion.
func (d Demand) Validate() error {
	if d.TeamID == "" {
		return fmt.Errorf("demand without team id")
	}
	if d.Count <= 0 {
		return fmt.Errorf("demand for %s: count must be positive", d.TeamID)
	}
	if d.Length <= 0 || d.Length > BlocksPerDay {
		return fmt.Errorf("demand for %s: invalid length %d", d.TeamID, d.Length)
	}
	if d.PinnedSubfieldID == "" && !demandCosts[d.Cost] {
		return fmt.Errorf("demand for %s: cost %d not in {125,250,500,1000}", d.TeamID, d.Cost)
	}
	if d.PinnedDay != nil && !d.PinnedDay.Valid() {
		return fmt.Errorf("demand for %s: invalid pinned day %d", d.TeamID, int(*d.PinnedDay))
	}
	if d.PinnedStart != nil && !d.PinnedStart.Valid() {
		return fmt.Errorf("demand for %s: invalid pinned start", d.TeamID)
	}
	return nil
}

// SessionRequest is one atomic training to place. Expansion emits
// Demand.Count of these per demand, in stable order.
type SessionRequest struct {
	DemandIndex      int // position of the originating demand in the input
	Seq              int // session index within the demand
	TeamID           string
	ForcedTopFieldID string // non-empty when the demand pinned a subfield
	Cost             int
	Length           int
	PinnedSubfieldID string
	PinnedDay        *Weekday
	PinnedStart      *Block
}
