// Package config loads planner settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	configLoader "github.com/andiksetyawan/config"
)

// DefaultEnvPath is read when present.
const DefaultEnvPath = ".env"

// Cycle-break policies.
const (
	CyclePolicyAutomatic   = "automatic"
	CyclePolicyInteractive = "interactive"
)

// Config holds every setting of a planning run.
type Config struct {
	Log    LogConfig    `envPrefix:"DATAPLAN_LOG_"`
	Plan   PlanConfig   `envPrefix:"DATAPLAN_"`
	Schema SchemaConfig `envPrefix:"DATAPLAN_SCHEMA_"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// PlanConfig tunes expansion and cycle breaking.
type PlanConfig struct {
	CyclePolicy string `env:"CYCLE_POLICY" envDefault:"automatic"`
	// Anchors replaces the default anchor list when set.
	Anchors        []string `env:"ANCHORS" envSeparator:","`
	ExcludeObjects []string `env:"EXCLUDE_OBJECTS" envSeparator:","`
	IncludeObjects []string `env:"INCLUDE_OBJECTS" envSeparator:","`
	Strict         bool     `env:"STRICT" envDefault:"true"`
}

// SchemaConfig says where the schema snapshot comes from: a file, or a
// MySQL schema cache.
type SchemaConfig struct {
	Path string `env:"PATH"`
	DSN  string `env:"DSN"`
}

// Load reads configuration from the environment, merged with envPath if
// that file exists, and validates it.
func Load(envPath string) (*Config, error) {
	loader := configLoader.New()

	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			loader = configLoader.New(configLoader.WithEnvPath(envPath))
		}
	}

	cfg := &Config{}

	err := loader.Load(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.Plan.Anchors = trimAll(cfg.Plan.Anchors)
	cfg.Plan.ExcludeObjects = trimAll(cfg.Plan.ExcludeObjects)
	cfg.Plan.IncludeObjects = trimAll(cfg.Plan.IncludeObjects)

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", c.Log.Level))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q (expected text or json)", c.Log.Format))
	}

	switch c.Plan.CyclePolicy {
	case CyclePolicyAutomatic, CyclePolicyInteractive:
	default:
		errs = append(errs, fmt.Errorf("invalid cycle policy %q (expected automatic or interactive)", c.Plan.CyclePolicy))
	}

	if c.Schema.Path != "" && c.Schema.DSN != "" {
		errs = append(errs, errors.New("schema path and schema DSN are mutually exclusive"))
	}

	return errors.Join(errs...)
}

func trimAll(in []string) []string {
	var out []string

	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	return out
}
