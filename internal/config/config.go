package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/multistate/internal/promoter"
)

const (
	DefaultOnstate  = 1
	DefaultDecay    = 1.0
	DefaultDuration = 50.0
	DefaultDt       = 0.05
	DefaultScale    = 1.0
	DefaultMaxSteps = 10_000_000
	DefaultLogLevel = "info"
)

// Config describes one run: the promoter, the simulation horizon and the
// scales used by the analytic distributions.
type Config struct {
	Promoter   PromoterConfig `yaml:"promoter" json:"promoter"`
	Onstate    int            `yaml:"onstate" json:"onstate"`
	Decay      float64        `yaml:"decay" json:"decay" env:"MULTISTATE_DECAY"`
	Duration   float64        `yaml:"duration" json:"duration"`
	Dt         float64        `yaml:"dt" json:"dt"`
	Production []float64      `yaml:"production,omitempty" json:"production,omitempty"`
	Scale      float64        `yaml:"scale" json:"scale"`
	Seed       uint64         `yaml:"seed" json:"seed" env:"MULTISTATE_SEED"`
	MaxSteps   int            `yaml:"max_steps" json:"max_steps"`
	LogLevel   string         `yaml:"log_level" json:"log_level" env:"MULTISTATE_LOG_LEVEL"`
}

// PromoterConfig names a promoter archetype and its parameter block, as
// understood by the experiment registry.
type PromoterConfig struct {
	Archetype string         `yaml:"archetype" json:"archetype"`
	Params    map[string]any `yaml:"params" json:"params"`
}

func DefaultConfig() *Config {
	return &Config{
		Promoter: PromoterConfig{
			Archetype: "twostate",
			Params:    map[string]any{"on": 1.0, "off": 1.0},
		},
		Onstate:  DefaultOnstate,
		Decay:    DefaultDecay,
		Duration: DefaultDuration,
		Dt:       DefaultDt,
		Scale:    DefaultScale,
		MaxSteps: DefaultMaxSteps,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a YAML file on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides the seed, decay and log level from MULTISTATE_*
// variables. A nil environ reads the process environment.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{Environment: environ}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Promoter.Archetype == "" {
		return fmt.Errorf("%w: promoter archetype is empty", promoter.ErrInvalidArgument)
	}
	if c.Onstate < 1 {
		return fmt.Errorf("%w: onstate %d", promoter.ErrInvalidState, c.Onstate)
	}
	if !(c.Decay > 0) {
		return fmt.Errorf("%w: decay must be positive, got %g", promoter.ErrInvalidArgument, c.Decay)
	}
	if !(c.Duration > 0) || !(c.Dt > 0) {
		return fmt.Errorf("%w: duration and dt must be positive", promoter.ErrInvalidArgument)
	}
	if !(c.Scale > 0) {
		return fmt.Errorf("%w: scale must be positive, got %g", promoter.ErrInvalidArgument, c.Scale)
	}
	for i, u := range c.Production {
		if u < 0 {
			return fmt.Errorf("%w: production[%d] = %g", promoter.ErrInvalidArgument, i, u)
		}
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("%w: max_steps %d", promoter.ErrInvalidArgument, c.MaxSteps)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel; an empty value means info.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%w: log level %q", promoter.ErrInvalidArgument, c.LogLevel)
	}
	return lvl, nil
}

// Timepoints returns the PDMP observation grid 0, dt, 2dt, ... up to and
// including Duration.
func (c *Config) Timepoints() []float64 {
	n := int(c.Duration/c.Dt+1e-9) + 1
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = float64(i) * c.Dt
	}
	return ts
}

// ProductionFor returns the per-state production rates for an n-state
// promoter. When none are configured the onstate produces at rate Scale
// and every other state at 0, the setting the analytic distributions
// describe.
func (c *Config) ProductionFor(n int) ([]float64, error) {
	if len(c.Production) == 0 {
		if c.Onstate > n {
			return nil, fmt.Errorf("%w: onstate %d not in 1..%d", promoter.ErrInvalidState, c.Onstate, n)
		}
		u := make([]float64, n)
		u[c.Onstate-1] = c.Scale
		return u, nil
	}
	if len(c.Production) != n {
		return nil, fmt.Errorf("%w: %d production rates for %d states", promoter.ErrInvalidArgument, len(c.Production), n)
	}
	return append([]float64(nil), c.Production...), nil
}

func (c *Config) Clone() *Config {
	out := *c
	if c.Production != nil {
		out.Production = append([]float64(nil), c.Production...)
	}
	out.Promoter.Params = make(map[string]any, len(c.Promoter.Params))
	for k, v := range c.Promoter.Params {
		out.Promoter.Params[k] = v
	}
	return &out
}
