package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cvode"
)

const (
	DefaultInterval = 0.1
	DefaultTEnd     = 10.0
	DefaultRTol     = 1e-6
	DefaultATol     = 1e-8
)

// Config holds the run parameters for a [Runner], loadable from YAML.
type Config struct {
	Method    string    `yaml:"method"` // "adams" or "bdf"
	T0        float64   `yaml:"t0"`
	TEnd      float64   `yaml:"t_end"`
	Interval  float64   `yaml:"interval"` // spacing of output points
	RTol      float64   `yaml:"rtol"`
	ATol      []float64 `yaml:"atol"` // one value = scalar, else per component
	InitState []float64 `yaml:"init_state"`
}

func DefaultConfig() *Config {
	return &Config{
		Method:   "adams",
		TEnd:     DefaultTEnd,
		Interval: DefaultInterval,
		RTol:     DefaultRTol,
		ATol:     []float64{DefaultATol},
	}
}

// Load reads a YAML config from path, filling unset fields from
// [DefaultConfig].
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %g", c.Interval)
	}
	if c.TEnd <= c.T0 {
		return fmt.Errorf("t_end %g must be after t0 %g", c.TEnd, c.T0)
	}
	if c.RTol <= 0 {
		return fmt.Errorf("rtol must be positive, got %g", c.RTol)
	}
	if _, err := c.SolverMethod(); err != nil {
		return err
	}
	return nil
}

// SolverMethod maps the config's method name to a [cvode.Method].
func (c *Config) SolverMethod() (cvode.Method, error) {
	switch c.Method {
	case "adams", "":
		return cvode.Adams, nil
	case "bdf":
		return cvode.BDF, nil
	default:
		return 0, fmt.Errorf("unknown method %q (want adams or bdf)", c.Method)
	}
}

// Tolerance builds the [cvode.Tolerance] described by the config: a single
// ATol entry means a scalar tolerance, multiple entries a per-component one.
func (c *Config) Tolerance() cvode.Tolerance {
	if len(c.ATol) == 1 {
		return cvode.ScalarTolerance(c.ATol[0])
	}
	return cvode.VectorTolerance(c.ATol)
}
