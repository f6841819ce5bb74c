package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Paths.HotCold != "hot_cold.pdf" || cfg.Paths.CorrelationAll != "correlation_graph_all.pdf" {
		t.Errorf("unexpected default output names %+v", cfg.Paths)
	}
	inputs := []string{cfg.Paths.ColdEnergies, cfg.Paths.HotEnergies, cfg.Paths.Correlation, cfg.Paths.Bundle}
	want := []string{"cold_energies.npy", "hot_energies.npy", "correlation_b03.npy", "corr_all_0.6.npy"}
	for i := range want {
		if inputs[i] != want[i] {
			t.Errorf("unexpected default input %q, want %q", inputs[i], want[i])
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isingviz.yaml")
	cfg := DefaultConfig()
	cfg.Lattice.Beta = 0.45
	cfg.Fit.Component = "imag"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Lattice.Beta != 0.45 || got.Fit.Component != "imag" {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("lattice:\n  beta: 0.3\npaths:\n  bundle: \"\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Lattice.Beta != 0.3 {
		t.Errorf("expected beta 0.3, got %f", cfg.Lattice.Beta)
	}
	if cfg.Lattice.TimeLen != DefaultTimeLen {
		t.Errorf("expected default time_len, got %d", cfg.Lattice.TimeLen)
	}
	if cfg.Paths.Bundle != "" {
		t.Errorf("expected bundle stage disabled, got %q", cfg.Paths.Bundle)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("lattice: [1, 2"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero lattice", func(c *Config) { c.Lattice.TimeLen = 0 }},
		{"huge lattice", func(c *Config) { c.Lattice.SpaceLen = 70000 }},
		{"negative beta", func(c *Config) { c.Lattice.Beta = -1 }},
		{"empty window", func(c *Config) { c.Fit.From, c.Fit.To = 5, 5 }},
		{"component", func(c *Config) { c.Fit.Component = "phase" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", tt.name, err)
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("b03")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Lattice.Beta != 0.3 {
		t.Errorf("expected beta 0.3, got %f", cfg.Lattice.Beta)
	}
	if cfg.Paths.HotCold == "" {
		t.Error("expected preset to keep default paths")
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != 3 || names[0] != "b03" || names[2] != "quick" {
		t.Errorf("unexpected presets %v", names)
	}
}
