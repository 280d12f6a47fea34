// Package report checks a candidate schedule for residual conflicts and
// measures how close each team's weekday pattern is to the club's ideal.
package report

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/jverbeke/pitchplan/core/fieldtree"
	"github.com/jverbeke/pitchplan/core/model"
)

// TeamPattern describes one team's scheduled weekdays.
type TeamPattern struct {
	TeamID string          `json:"team_id"`
	Days   []model.Weekday `json:"days"`
	Ideal  bool            `json:"ideal"`
	Chain  int             `json:"chain"` // longest consecutive-day run
}

// Report is the outcome of analysing a schedule.
type Report struct {
	Diagnostics   []model.Diagnostic `json:"diagnostics,omitempty"`
	Teams         []TeamPattern      `json:"teams"`
	IdealFraction float64            `json:"ideal_fraction"`
	MeanChain     float64            `json:"mean_chain"`
}

// Analyze detects double bookings at any level of the field hierarchy and
// evaluates weekday-pattern quality per team.
func Analyze(tree *fieldtree.Tree, entries []model.Entry) Report {
	r := Report{}

	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i], entries[j]
			if !a.Overlaps(b) {
				continue
			}
			switch {
			case a.ResourceID == b.ResourceID:
				r.Diagnostics = append(r.Diagnostics, model.Diagnostic{
					Kind: model.DiagResidualDoubleBooking,
					Message: fmt.Sprintf("%s and %s overlap on %s at %s (%s)",
						a.TeamID, b.TeamID, a.ResourceID, a.Day, a.Start.Clock()),
				})
			case tree.SameChain(a.ResourceID, b.ResourceID):
				r.Diagnostics = append(r.Diagnostics, model.Diagnostic{
					Kind: model.DiagResidualDoubleBooking,
					Message: fmt.Sprintf("%s on %s and %s on %s overlap on %s, resources share a chain",
						a.TeamID, a.ResourceID, b.TeamID, b.ResourceID, a.Day),
				})
			}
		}
	}

	byTeam := make(map[string][]model.Weekday)
	for _, e := range entries {
		byTeam[e.TeamID] = append(byTeam[e.TeamID], e.Day)
	}
	teams := make([]string, 0, len(byTeam))
	for t := range byTeam {
		teams = append(teams, t)
	}
	sort.Strings(teams)

	var idealFlags, chains []float64
	for _, t := range teams {
		days := byTeam[t]
		sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
		p := TeamPattern{TeamID: t, Days: days, Ideal: idealPattern(days), Chain: longestRun(days)}
		r.Teams = append(r.Teams, p)
		flag := 0.0
		if p.Ideal {
			flag = 1
		}
		idealFlags = append(idealFlags, flag)
		chains = append(chains, float64(p.Chain))
	}
	if len(teams) > 0 {
		r.IdealFraction = stat.Mean(idealFlags, nil)
		r.MeanChain = stat.Mean(chains, nil)
	}
	return r
}

// NonIdeal lists the teams whose weekday pattern misses the ideal.
func (r Report) NonIdeal() []TeamPattern {
	var out []TeamPattern
	for _, t := range r.Teams {
		if !t.Ideal {
			out = append(out, t)
		}
	}
	return out
}

// idealPattern encodes the club's preferred weekly rhythms: one session
// anywhere, two on non-adjacent days, three on Mon/Wed/Fri, four on
// Mon/Tue/Thu/Fri, five or more never ideal.
func idealPattern(days []model.Weekday) bool {
	switch len(days) {
	case 1:
		return true
	case 2:
		return days[1]-days[0] > 1
	case 3:
		return equalDays(days, []model.Weekday{model.Monday, model.Wednesday, model.Friday})
	case 4:
		return equalDays(days, []model.Weekday{model.Monday, model.Tuesday, model.Thursday, model.Friday})
	default:
		return false
	}
}

func equalDays(a, b []model.Weekday) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// longestRun returns the longest streak of consecutive weekdays. The week is
// a linear Monday..Sunday axis; Sunday and Monday are not adjacent.
func longestRun(days []model.Weekday) int {
	best, run := 0, 0
	var prev model.Weekday = -2
	for _, d := range days {
		if d == prev {
			continue
		}
		if d == prev+1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
		prev = d
	}
	return best
}
