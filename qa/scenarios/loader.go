// Package scenarios runs YAML-defined solve scenarios end to end: plan in,
// schedule out, outcome asserted. The corpus next to this package doubles as
// executable documentation of the engine's behaviour.
package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jverbeke/pitchplan/core/model"
	"github.com/jverbeke/pitchplan/core/solver"
	"github.com/jverbeke/pitchplan/pkg/planfile"
)

type OptionsDef struct {
	TimeLimitMS int  `yaml:"time_limit_ms,omitempty"`
	Adjacency   bool `yaml:"adjacency,omitempty"`
	YearSpread  bool `yaml:"year_spread,omitempty"`
}

func (o OptionsDef) ToOptions() solver.Options {
	return solver.Options{
		TimeLimitMS:               o.TimeLimitMS,
		EnableAdjacencyObjective:  o.Adjacency,
		EnableYearSpreadObjective: o.YearSpread,
	}
}

type Expected struct {
	Status    string `yaml:"status"`
	Entries   int    `yaml:"entries"`
	Conflicts int    `yaml:"conflicts,omitempty"`
}

type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Plan        planfile.Plan `yaml:"plan"`
	Options     OptionsDef    `yaml:"options,omitempty"`
	Expected    Expected      `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func parseStatus(s string) (model.Status, error) {
	for st := model.StatusOptimal; st <= model.StatusCancelled; st++ {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}
