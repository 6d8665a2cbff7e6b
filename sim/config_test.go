package sim

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/san-kum/cvode"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Method != "adams" {
		t.Errorf("expected method adams, got %s", cfg.Method)
	}
	if cfg.Interval <= 0 {
		t.Error("interval should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Method = "bdf"
	cfg.TEnd = 42
	cfg.ATol = []float64{1e-8, 1e-10}
	cfg.InitState = []float64{0, 1}

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Method != "bdf" || loaded.TEnd != 42 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if len(loaded.ATol) != 2 || loaded.ATol[1] != 1e-10 {
		t.Errorf("round trip lost tolerances: %v", loaded.ATol)
	}
	if len(loaded.InitState) != 2 {
		t.Errorf("round trip lost initial state: %v", loaded.InitState)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero interval", func(c *Config) { c.Interval = 0 }},
		{"t_end before t0", func(c *Config) { c.T0 = 5; c.TEnd = 1 }},
		{"zero rtol", func(c *Config) { c.RTol = 0 }},
		{"unknown method", func(c *Config) { c.Method = "rk4" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigTolerance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ATol = []float64{1e-8}
	if got, want := cfg.Tolerance(), cvode.ScalarTolerance(1e-8); !reflect.DeepEqual(got, want) {
		t.Errorf("single atol entry: got %#v, want %#v", got, want)
	}

	cfg.ATol = []float64{1e-8, 1e-9}
	if got, want := cfg.Tolerance(), cvode.VectorTolerance([]float64{1e-8, 1e-9}); !reflect.DeepEqual(got, want) {
		t.Errorf("per-component atol: got %#v, want %#v", got, want)
	}
}

func TestConfigSolverMethod(t *testing.T) {
	cfg := DefaultConfig()

	m, err := cfg.SolverMethod()
	if err != nil || m != cvode.Adams {
		t.Errorf("adams: got (%v, %v)", m, err)
	}

	cfg.Method = "bdf"
	m, err = cfg.SolverMethod()
	if err != nil || m != cvode.BDF {
		t.Errorf("bdf: got (%v, %v)", m, err)
	}

	cfg.Method = ""
	if m, err = cfg.SolverMethod(); err != nil || m != cvode.Adams {
		t.Errorf("empty method should default to adams: got (%v, %v)", m, err)
	}
}
