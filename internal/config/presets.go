package config

import "sort"

// Presets are lattice settings matching the reference data sets.
var Presets = map[string]LatticeConfig{
	"b03": {
		J: 1, Beta: 0.3, TimeLen: 64, SpaceLen: 64,
		Iterations: 1000, Sweeps: 500, Count: 1000, Momenta: 4,
	},
	"b06": {
		J: 1, Beta: 0.6, TimeLen: 64, SpaceLen: 64,
		Iterations: 1000, Sweeps: 500, Count: 1000, Momenta: 4,
	},
	"quick": {
		J: 1, Beta: 0.3, TimeLen: 16, SpaceLen: 16,
		Iterations: 100, Sweeps: 50, Count: 50, Momenta: 2,
	},
}

// GetPreset returns the default configuration with the named lattice
// settings, or nil when there is no such preset.
func GetPreset(name string) *Config {
	l, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Lattice = l
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
