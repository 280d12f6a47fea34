package solver

// Objective terms are composable and off by default. Both are monotone in
// the partial assignment (extra sessions can only lengthen a chain or widen
// a year spread), which is what makes the branch-and-bound pruning in the
// search sound.

// partialCost evaluates the weighted objective over the sessions assigned so
// far.
func (s *searcher) partialCost() int {
	cost := 0
	if s.opts.EnableAdjacencyObjective {
		for t := range s.teamDay {
			cost += s.opts.WeightAdjacency * longestChain(s.teamDay[t])
		}
	}
	if s.opts.EnableYearSpreadObjective {
		cost += s.opts.WeightYearSpread * s.yearSpread()
	}
	return cost
}

// yearSpread sums, per (top field, weekday), the gap between the oldest and
// youngest team with an assigned session there. Teams with no known year are
// ignored.
func (s *searcher) yearSpread() int {
	slots := len(s.p.tops) * 7
	if s.yrMin == nil {
		s.yrMin = make([]int, slots)
		s.yrMax = make([]int, slots)
	}
	touched := s.yrTouched[:0]
	for si, set := range s.isSet {
		if !set {
			continue
		}
		year := s.p.years[s.p.sessions[si].team]
		if year == 0 {
			continue
		}
		a := s.assigned[si]
		slot := a.placement.top*7 + int(a.placement.day)
		if s.yrMin[slot] == 0 {
			s.yrMin[slot], s.yrMax[slot] = year, year
			touched = append(touched, slot)
			continue
		}
		if year < s.yrMin[slot] {
			s.yrMin[slot] = year
		}
		if year > s.yrMax[slot] {
			s.yrMax[slot] = year
		}
	}
	spread := 0
	for _, slot := range touched {
		spread += s.yrMax[slot] - s.yrMin[slot]
		s.yrMin[slot], s.yrMax[slot] = 0, 0
	}
	s.yrTouched = touched[:0]
	return spread
}

// objectiveFloor is a trivial lower bound on the full objective: every team
// with at least one session has a chain of at least one day, and the year
// spread can reach zero.
func (s *searcher) objectiveFloor() int {
	if !s.opts.EnableAdjacencyObjective {
		return 0
	}
	return s.opts.WeightAdjacency * len(s.p.teams)
}

// longestChain returns the longest run of consecutive scheduled weekdays.
// Weekdays are a linear Monday..Sunday axis; the week does not wrap.
func longestChain(days []bool) int {
	best, run := 0, 0
	for _, d := range days {
		if d {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}
