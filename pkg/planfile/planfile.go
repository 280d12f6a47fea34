// Package planfile reads solve inputs from YAML or JSON documents so the CLI
// can run without a database. A plan carries the field forest, the teams and
// the weekly demands.
package planfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jverbeke/pitchplan/core/model"
	"github.com/jverbeke/pitchplan/core/solver"
)

type WindowDef struct {
	Day   int    `yaml:"day" json:"day"`
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

type FieldDef struct {
	ID         string      `yaml:"id" json:"id"`
	FacilityID string      `yaml:"facility_id" json:"facility_id"`
	Name       string      `yaml:"name" json:"name"`
	Size       string      `yaml:"size" json:"size"`
	Role       string      `yaml:"role" json:"role"`
	ParentID   string      `yaml:"parent_id" json:"parent_id"`
	Inactive   bool        `yaml:"inactive" json:"inactive"`
	Windows    []WindowDef `yaml:"windows" json:"windows"`
}

// ToModel converts the definition, parsing window clock strings.
func (f FieldDef) ToModel() (model.Field, error) {
	out := model.Field{
		ID:         f.ID,
		FacilityID: f.FacilityID,
		Name:       f.Name,
		Size:       model.FieldSize(f.Size),
		Role:       model.FieldRole(f.Role),
		ParentID:   f.ParentID,
		Active:     !f.Inactive,
	}
	if len(f.Windows) > 0 {
		out.Windows = make(map[model.Weekday]model.Window, len(f.Windows))
	}
	for _, w := range f.Windows {
		start, err := model.ParseClock(w.Start)
		if err != nil {
			return model.Field{}, fmt.Errorf("field %s: %w", f.ID, err)
		}
		end, err := model.ParseClock(w.End)
		if err != nil {
			return model.Field{}, fmt.Errorf("field %s: %w", f.ID, err)
		}
		out.Windows[model.Weekday(w.Day)] = model.Window{Start: start, End: end}
	}
	return out, nil
}

type TeamDef struct {
	ID              string `yaml:"id" json:"id"`
	Name            string `yaml:"name" json:"name"`
	YearLabel       string `yaml:"year_label" json:"year_label"`
	Gender          string `yaml:"gender" json:"gender"`
	Level           string `yaml:"level" json:"level"`
	WeeklyTrainings int    `yaml:"weekly_trainings" json:"weekly_trainings"`
}

func (t TeamDef) ToModel() model.Team {
	return model.Team{
		ID:              t.ID,
		Name:            t.Name,
		YearLabel:       t.YearLabel,
		Gender:          t.Gender,
		Level:           t.Level,
		WeeklyTrainings: t.WeeklyTrainings,
	}
}

type DemandDef struct {
	Team           string `yaml:"team" json:"team"`
	Count          int    `yaml:"count" json:"count"`
	Length         int    `yaml:"length" json:"length"` // 15-minute blocks
	Cost           int    `yaml:"cost" json:"cost"`
	PinnedSubfield string `yaml:"pinned_subfield" json:"pinned_subfield"`
	Day            *int   `yaml:"day" json:"day"`
	Start          string `yaml:"start" json:"start"`
}

// ToModel converts the definition, parsing the optional pinned start.
func (d DemandDef) ToModel() (model.Demand, error) {
	out := model.Demand{
		TeamID:           d.Team,
		Count:            d.Count,
		Length:           d.Length,
		Cost:             d.Cost,
		PinnedSubfieldID: d.PinnedSubfield,
	}
	if d.Day != nil {
		day := model.Weekday(*d.Day)
		out.PinnedDay = &day
	}
	if d.Start != "" {
		start, err := model.ParseClock(d.Start)
		if err != nil {
			return model.Demand{}, fmt.Errorf("demand for %s: %w", d.Team, err)
		}
		out.PinnedStart = &start
	}
	return out, nil
}

// Plan is the on-disk document.
type Plan struct {
	Fields  []FieldDef  `yaml:"fields" json:"fields"`
	Teams   []TeamDef   `yaml:"teams" json:"teams"`
	Demands []DemandDef `yaml:"demands" json:"demands"`
}

// Load reads a plan from a JSON or YAML file and converts it to solver
// input. Team year labels populate the year map for the year-spread
// objective.
func Load(path string) (solver.Input, []model.Team, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return solver.Input{}, nil, err
	}
	var plan Plan
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &plan)
	case ".json":
		err = json.Unmarshal(b, &plan)
	default:
		return solver.Input{}, nil, fmt.Errorf("unsupported plan format: %s", ext)
	}
	if err != nil {
		return solver.Input{}, nil, err
	}
	return plan.ToInput()
}

// ToInput converts the document to solver input.
func (p Plan) ToInput() (solver.Input, []model.Team, error) {
	in := solver.Input{TeamYears: make(map[string]int)}
	for _, f := range p.Fields {
		field, err := f.ToModel()
		if err != nil {
			return solver.Input{}, nil, err
		}
		in.Fields = append(in.Fields, field)
	}
	teams := make([]model.Team, 0, len(p.Teams))
	for _, t := range p.Teams {
		team := t.ToModel()
		teams = append(teams, team)
		if year, ok := team.Year(); ok {
			in.TeamYears[team.ID] = year
		}
	}
	for _, d := range p.Demands {
		demand, err := d.ToModel()
		if err != nil {
			return solver.Input{}, nil, err
		}
		in.Demands = append(in.Demands, demand)
	}
	return in, teams, nil
}
