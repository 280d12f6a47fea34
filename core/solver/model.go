// Package solver turns a field forest and a demand list into a conflict-free
// weekly schedule. The model exposes one candidate placement per
// (session, top field, weekday); the search engine picks exactly one
// placement and one start block per session subject to the cumulative
// capacity and splits packing of every top field and a one-training-per-day
// rule per team.
package solver

import (
	"fmt"
	"sort"

	"github.com/jverbeke/pitchplan/core/expand"
	"github.com/jverbeke/pitchplan/core/fieldtree"
	"github.com/jverbeke/pitchplan/core/model"
)

// Input is everything a solve consumes. TeamYears feeds the optional
// year-spread objective; teams absent from the map are ignored by it.
type Input struct {
	Fields    []model.Field
	Demands   []model.Demand
	TeamYears map[string]int
}

// Options control the solve. Weights apply to the optional objective terms.
type Options struct {
	TimeLimitMS               int  `json:"time_limit_ms"`
	EnableAdjacencyObjective  bool `json:"enable_adjacency_objective"`
	EnableYearSpreadObjective bool `json:"enable_year_spread_objective"`
	WeightAdjacency           int  `json:"weight_adjacency"`
	WeightYearSpread          int  `json:"weight_year_spread"`
}

// SetDefaults applies sane defaults.
func (o *Options) SetDefaults() {
	if o.TimeLimitMS <= 0 {
		o.TimeLimitMS = 10000
	}
	if o.WeightAdjacency <= 0 {
		o.WeightAdjacency = 1
	}
	if o.WeightYearSpread <= 0 {
		o.WeightYearSpread = 1
	}
}

func (o Options) objectiveEnabled() bool {
	return o.EnableAdjacencyObjective || o.EnableYearSpreadObjective
}

// placement is one candidate (top field, weekday) slot for a session, with
// the admissible start range [minStart, maxStart] already intersected with
// the field's window and the session's pins.
type placement struct {
	top      int
	day      model.Weekday
	minStart model.Block
	maxStart model.Block
}

type session struct {
	req        model.SessionRequest
	team       int
	placements []placement
	// branching is the number of (placement, start) choices; the search
	// handles the most constrained sessions first.
	branching int
}

type problem struct {
	tree      *fieldtree.Tree
	tops      []string
	capacity  []int
	maxSplits []int
	sessions  []session
	teams     []string
	years     []int // per team, 0 when unknown
	order     []int // session indices, most constrained first
}

// buildProblem validates the input and precomputes the dense placement
// tables. All InvalidInput failures surface here, before any search runs.
func buildProblem(in Input, opts Options) (*problem, error) {
	tree, err := fieldtree.Build(in.Fields)
	if err != nil {
		return nil, model.InvalidInput("field tree", err)
	}
	reqs, err := expand.Expand(tree, in.Demands)
	if err != nil {
		return nil, err
	}

	p := &problem{tree: tree, tops: tree.Roots()}
	topIdx := make(map[string]int, len(p.tops))
	for i, id := range p.tops {
		topIdx[id] = i
		p.capacity = append(p.capacity, tree.Capacity(id))
		p.maxSplits = append(p.maxSplits, tree.MaxSplits(id))
	}

	teamIdx := make(map[string]int)
	teamOf := func(id string) int {
		if i, ok := teamIdx[id]; ok {
			return i
		}
		i := len(p.teams)
		teamIdx[id] = i
		p.teams = append(p.teams, id)
		p.years = append(p.years, in.TeamYears[id])
		return i
	}

	for _, req := range reqs {
		s := session{req: req, team: teamOf(req.TeamID)}
		tops := p.tops
		if req.ForcedTopFieldID != "" {
			if _, ok := topIdx[req.ForcedTopFieldID]; !ok {
				return nil, model.InvalidInput(fmt.Sprintf(
					"session %d/%d: pinned subfield resolves to inactive top field %s",
					req.DemandIndex, req.Seq, req.ForcedTopFieldID), nil)
			}
			tops = []string{req.ForcedTopFieldID}
		}
		for _, topID := range tops {
			ti := topIdx[topID]
			if req.ForcedTopFieldID == "" && !p.tree.Allows(topID, req.Cost) {
				continue
			}
			for day := model.Monday; day <= model.Sunday; day++ {
				if req.PinnedDay != nil && *req.PinnedDay != day {
					continue
				}
				w, ok := tree.Window(topID, day)
				if !ok || w.Blocks() < req.Length {
					continue
				}
				pl := placement{top: ti, day: day, minStart: w.Start, maxStart: w.End - model.Block(req.Length)}
				if req.PinnedStart != nil {
					if !w.Contains(*req.PinnedStart, req.Length) {
						continue
					}
					pl.minStart, pl.maxStart = *req.PinnedStart, *req.PinnedStart
				}
				s.placements = append(s.placements, pl)
				s.branching += int(pl.maxStart-pl.minStart) + 1
			}
		}
		if len(s.placements) == 0 {
			return nil, model.InvalidInput(fmt.Sprintf(
				"session %d/%d for team %s: no eligible placement (cost %d, length %d)",
				req.DemandIndex, req.Seq, req.TeamID, req.Cost, req.Length), nil)
		}
		p.sessions = append(p.sessions, s)
	}

	p.order = make([]int, len(p.sessions))
	for i := range p.order {
		p.order[i] = i
	}
	sort.SliceStable(p.order, func(a, b int) bool {
		return p.sessions[p.order[a]].branching < p.sessions[p.order[b]].branching
	})
	return p, nil
}
