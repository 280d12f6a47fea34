package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jverbeke/pitchplan/core/solver"
	"github.com/jverbeke/pitchplan/metrics"
	"github.com/jverbeke/pitchplan/progress"
)

type Config struct {
	Solver   solver.Options  `json:"solver"`
	Logging  LoggingConfig   `json:"logging"`
	Metrics  metrics.Config  `json:"metrics"`
	Progress progress.Config `json:"progress"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("PITCHPLAN_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "pitchplan_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Solver.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Progress.SetDefaults()
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Progress.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
