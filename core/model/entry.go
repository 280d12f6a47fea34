package model

import "encoding/json"

// Entry is one scheduled session. The solver emits entries with ResourceID
// set to the chosen top field; the subfield pass rewrites it to a concrete
// half or quarter where the cost is below the top field's capacity.
type Entry struct {
	TeamID           string
	Day              Weekday
	Start            Block
	End              Block
	ResourceID       string
	Cost             int
	PinnedSubfieldID string // carried from the request, for pin auditing
}

// Overlaps reports whether two entries share at least one block on the same
// weekday.
func (e Entry) Overlaps(o Entry) bool {
	return e.Day == o.Day && e.Start < o.End && o.Start < e.End
}

type entryJSON struct {
	TeamID         string  `json:"team_id"`
	Weekday        Weekday `json:"weekday"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	ResourceID     string  `json:"resource_id"`
	DemandCost     int     `json:"demand_cost"`
	PinnedSubfield string  `json:"pinned_subfield,omitempty"`
}

// MarshalJSON renders times as "HH:MM", the only wire format the engine emits.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		TeamID:         e.TeamID,
		Weekday:        e.Day,
		StartTime:      e.Start.Clock(),
		EndTime:        e.End.Clock(),
		ResourceID:     e.ResourceID,
		DemandCost:     e.Cost,
		PinnedSubfield: e.PinnedSubfieldID,
	})
}

// UnmarshalJSON accepts the wire form produced by MarshalJSON.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var w entryJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	start, err := ParseClock(w.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(w.EndTime)
	if err != nil {
		return err
	}
	*e = Entry{
		TeamID:           w.TeamID,
		Day:              w.Weekday,
		Start:            start,
		End:              end,
		ResourceID:       w.ResourceID,
		Cost:             w.DemandCost,
		PinnedSubfieldID: w.PinnedSubfield,
	}
	return nil
}

// Diagnostic kinds reported alongside a schedule.
const (
	DiagSubfieldConflict      = "SubfieldConflict"
	DiagResidualDoubleBooking = "ResidualDoubleBooking"
	DiagInternalError         = "InternalError"
)

// Diagnostic is a non-fatal finding attached to a solve result.
type Diagnostic struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
