package solver

import (
	"context"
	"time"

	"github.com/jverbeke/pitchplan/core/model"
)

// assignment is a placed session: the chosen placement plus start block.
type assignment struct {
	placement placement
	start     model.Block
}

type stopReason int

const (
	stopNone stopReason = iota
	stopExhausted
	stopDeadline
	stopCancelled
)

const nodeCheckMask = 0x3f // poll ctx/deadline every 64 nodes

// searcher runs deterministic depth-first search with constraint propagation
// over the placement model: per-(top, day) block occupancy arrays enforce the
// cumulative capacity and splits constraints incrementally, and a per-team
// weekday table enforces the one-training-per-day rule. With an objective it
// branch-and-bounds on the weighted cost of the partial assignment, which
// only grows as sessions are added.
type searcher struct {
	p    *problem
	opts Options

	ctx      context.Context
	deadline time.Time

	// onSolution receives every new incumbent, in discovery order.
	onSolution func([]assignment)

	assigned []assignment
	isSet    []bool
	capUse   [][]int // (top*7+day) -> per-block consumed capacity
	cntUse   [][]int // (top*7+day) -> per-block active session count
	teamDay  [][]bool

	// scratch buffers for the year-spread term
	yrMin     []int
	yrMax     []int
	yrTouched []int

	best      []assignment
	bestCost  int
	hasBest   bool
	solutions int
	nodes     int
	reason    stopReason
}

func newSearcher(ctx context.Context, p *problem, opts Options, deadline time.Time) *searcher {
	s := &searcher{
		p:        p,
		opts:     opts,
		ctx:      ctx,
		deadline: deadline,
		assigned: make([]assignment, len(p.sessions)),
		isSet:    make([]bool, len(p.sessions)),
		capUse:   make([][]int, len(p.tops)*7),
		cntUse:   make([][]int, len(p.tops)*7),
		teamDay:  make([][]bool, len(p.teams)),
	}
	for i := range s.capUse {
		s.capUse[i] = make([]int, model.BlocksPerDay)
		s.cntUse[i] = make([]int, model.BlocksPerDay)
	}
	for i := range s.teamDay {
		s.teamDay[i] = make([]bool, 7)
	}
	return s
}

// run explores the search tree and returns how the search ended. The best
// incumbent, if any, is left in s.best.
func (s *searcher) run() stopReason {
	s.reason = stopNone
	s.dfs(0)
	if s.reason == stopNone {
		// Either the tree is fully explored or the incumbent hit the
		// objective's lower bound; both prove the result final.
		s.reason = stopExhausted
	}
	return s.reason
}

// dfs returns false when the search must unwind immediately (deadline,
// cancellation, or a proven-final incumbent).
func (s *searcher) dfs(depth int) bool {
	s.nodes++
	if s.nodes&nodeCheckMask == 0 {
		if s.ctx != nil && s.ctx.Err() != nil {
			s.reason = stopCancelled
			return false
		}
		if !s.deadline.IsZero() && time.Now().After(s.deadline) {
			s.reason = stopDeadline
			return false
		}
	}

	if depth == len(s.p.order) {
		return s.acceptSolution()
	}

	// Bound: the partial cost never decreases as sessions are added.
	if s.opts.objectiveEnabled() && s.hasBest && s.partialCost() >= s.bestCost {
		return true
	}

	si := s.p.order[depth]
	sess := &s.p.sessions[si]
	for _, pl := range sess.placements {
		if s.teamDay[sess.team][pl.day] {
			continue
		}
		slot := pl.top*7 + int(pl.day)
		for start := pl.minStart; start <= pl.maxStart; start++ {
			if !s.fits(slot, pl.top, start, sess.req.Length, sess.req.Cost) {
				continue
			}
			s.place(si, slot, assignment{placement: pl, start: start})
			ok := s.dfs(depth + 1)
			s.unplace(si, slot)
			if !ok {
				return false
			}
		}
	}
	return true
}

// fits checks the two cumulative constraints over every block the candidate
// interval would occupy.
func (s *searcher) fits(slot, top int, start model.Block, length, cost int) bool {
	capUse, cntUse := s.capUse[slot], s.cntUse[slot]
	for b := start; b < start+model.Block(length); b++ {
		if capUse[b]+cost > s.p.capacity[top] || cntUse[b]+1 > s.p.maxSplits[top] {
			return false
		}
	}
	return true
}

func (s *searcher) place(si, slot int, a assignment) {
	sess := &s.p.sessions[si]
	for b := a.start; b < a.start+model.Block(sess.req.Length); b++ {
		s.capUse[slot][b] += sess.req.Cost
		s.cntUse[slot][b]++
	}
	s.teamDay[sess.team][a.placement.day] = true
	s.assigned[si] = a
	s.isSet[si] = true
}

func (s *searcher) unplace(si, slot int) {
	sess := &s.p.sessions[si]
	a := s.assigned[si]
	for b := a.start; b < a.start+model.Block(sess.req.Length); b++ {
		s.capUse[slot][b] -= sess.req.Cost
		s.cntUse[slot][b]--
	}
	s.teamDay[sess.team][a.placement.day] = false
	s.isSet[si] = false
}

// acceptSolution records a complete assignment. Without an objective the
// first solution is optimal and the search stops; with one, strictly better
// incumbents are kept until the tree is exhausted or the incumbent reaches
// the objective's lower bound.
func (s *searcher) acceptSolution() bool {
	cost := 0
	if s.opts.objectiveEnabled() {
		cost = s.partialCost()
		if s.hasBest && cost >= s.bestCost {
			return true
		}
	}
	s.solutions++
	s.best = append(s.best[:0], s.assigned...)
	s.bestCost = cost
	s.hasBest = true
	if s.onSolution != nil {
		s.onSolution(s.best)
	}
	if !s.opts.objectiveEnabled() || cost <= s.objectiveFloor() {
		return false
	}
	return true
}
