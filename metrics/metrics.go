// Package metrics records solve outcomes in external monitoring systems.
// Sinks are fire-and-forget: a failing sink never fails a solve.
package metrics

import (
	"fmt"
	"time"

	"github.com/jverbeke/pitchplan/core/logger"
	"github.com/jverbeke/pitchplan/core/model"
)

// SolveRecord summarises one solver run.
type SolveRecord struct {
	Status    model.Status
	Duration  time.Duration
	Entries   int
	Solutions int
	Conflicts int // subfield conflicts and residual double bookings
}

// SolveSink receives solve records.
type SolveSink interface {
	RecordSolve(rec SolveRecord) error
}

// Config selects and parameterises the sink backend.
type Config struct {
	// Backend is one of "none", "prometheus", "influx" or "multi".
	Backend      string `json:"backend"`
	InfluxURL    string `json:"influx_url"`
	InfluxToken  string `json:"influx_token"`
	InfluxOrg    string `json:"influx_org"`
	InfluxBucket string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "none"
	}
}

// Validate checks the backend selection.
func (c Config) Validate() error {
	switch c.Backend {
	case "", "none", "prometheus", "influx", "multi":
		return nil
	}
	return fmt.Errorf("unknown metrics backend %s", c.Backend)
}

// NopSink discards all records.
type NopSink struct{}

// RecordSolve implements SolveSink.
func (NopSink) RecordSolve(SolveRecord) error { return nil }

// MultiSink fans records out to several sinks, returning the first error.
type MultiSink []SolveSink

// RecordSolve implements SolveSink.
func (m MultiSink) RecordSolve(rec SolveRecord) error {
	var first error
	for _, s := range m {
		if err := s.RecordSolve(rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewSink builds the sink selected by cfg.
func NewSink(cfg Config, log logger.Logger) (SolveSink, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case "none":
		return NopSink{}, nil
	case "prometheus":
		return NewPromSink(nil)
	case "influx":
		return NewInfluxSinkWithFallback(cfg, log), nil
	case "multi":
		prom, err := NewPromSink(nil)
		if err != nil {
			return nil, err
		}
		return MultiSink{prom, NewInfluxSinkWithFallback(cfg, log)}, nil
	}
	return nil, fmt.Errorf("unknown metrics backend %s", cfg.Backend)
}
