package model

import (
	"strconv"
	"strings"
)

// Team attributes sessions and feeds the optional year-spread objective.
type Team struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	YearLabel       string `json:"year_label"` // U4..U24, optionally suffixed "-girl"
	Gender          string `json:"gender,omitempty"`
	Level           string `json:"level,omitempty"`
	WeeklyTrainings int    `json:"weekly_trainings,omitempty"`
}

// Year extracts the numeric age year from the label, e.g. "U15" or
// "U12-girl" yield 15 and 12. The second return is false when the label does
// not follow the U<n> convention.
func (t Team) Year() (int, bool) {
	label := strings.TrimSuffix(t.YearLabel, "-girl")
	if !strings.HasPrefix(label, "U") {
		return 0, false
	}
	n, err := strconv.Atoi(label[1:])
	if err != nil || n < 4 || n > 24 {
		return 0, false
	}
	return n, true
}
