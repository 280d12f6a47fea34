package model

// Status classifies the outcome of a solve. Everything except invalid input
// is surfaced as a status on the result, never as an error.
type Status int

const (
	StatusOptimal Status = iota
	StatusFeasible
	StatusInfeasible
	StatusTimeout
	StatusCancelled
)

var statusNames = [...]string{"Optimal", "Feasible", "Infeasible", "Timeout", "Cancelled"}

func (s Status) String() string {
	if s < StatusOptimal || s > StatusCancelled {
		return "Unknown"
	}
	return statusNames[s]
}

// Solved reports whether the status carries a usable schedule.
func (s Status) Solved() bool {
	return s == StatusOptimal || s == StatusFeasible
}
