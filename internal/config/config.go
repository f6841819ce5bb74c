package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultJ          = 1.0
	DefaultBeta       = 0.6
	DefaultTimeLen    = 64
	DefaultSpaceLen   = 64
	DefaultIterations = 1000
	DefaultSweeps     = 500
	DefaultCount      = 1000
	DefaultMomenta    = 4
	DefaultBins       = 40
	DefaultWidth      = 6.0
	DefaultHeight     = 4.0
	DefaultTolerance  = 0.05
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Lattice LatticeConfig `yaml:"lattice"`
	Paths   PathsConfig   `yaml:"paths"`
	Fit     FitConfig     `yaml:"fit"`
	Render  RenderConfig  `yaml:"render"`
	Log     LogConfig     `yaml:"log"`
}

type LatticeConfig struct {
	J        float64 `yaml:"j"`
	H        float64 `yaml:"h"`
	Beta     float64 `yaml:"beta"`
	TimeLen  int     `yaml:"time_len"`
	SpaceLen int     `yaml:"space_len"`
	Seed     uint64  `yaml:"seed"`
	// Iterations is the number of sweeps recorded by hotcold.
	Iterations int `yaml:"iterations"`
	// Sweeps thermalizes each generated sample.
	Sweeps  int `yaml:"sweeps"`
	Count   int `yaml:"count"`
	Workers int `yaml:"workers"`
	Momenta int `yaml:"momenta"`
}

// PathsConfig names the input and output files, relative to DataDir. An
// empty input path skips the stage that reads it.
type PathsConfig struct {
	DataDir          string `yaml:"data_dir"`
	ColdEnergies     string `yaml:"cold_energies"`
	HotEnergies      string `yaml:"hot_energies"`
	Correlation      string `yaml:"correlation"`
	Bundle           string `yaml:"bundle"`
	States           string `yaml:"states"`
	HotCold          string `yaml:"hot_cold"`
	Histogram        string `yaml:"histogram"`
	CorrelationGraph string `yaml:"correlation_graph"`
	CorrelationAll   string `yaml:"correlation_all"`
}

type FitConfig struct {
	Component string `yaml:"component"`
	From      int    `yaml:"from"`
	To        int    `yaml:"to"`
	Normalize bool   `yaml:"normalize"`
	// Rows limits the fit to the first rows of the bundle; 0 fits all.
	Rows          int     `yaml:"rows"`
	AbsoluteSigma bool    `yaml:"absolute_sigma"`
	InitialRate   float64 `yaml:"initial_rate"`
	Iterations    int     `yaml:"iterations"`
	Tolerance     float64 `yaml:"tolerance"`
}

type RenderConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Latex  bool    `yaml:"latex"`
	Bins   int     `yaml:"bins"`
	// Tolerance is the per-site energy gap below which the hot and cold
	// trajectories count as thermalized.
	Tolerance float64 `yaml:"tolerance"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Lattice: LatticeConfig{
			J:          DefaultJ,
			Beta:       DefaultBeta,
			TimeLen:    DefaultTimeLen,
			SpaceLen:   DefaultSpaceLen,
			Iterations: DefaultIterations,
			Sweeps:     DefaultSweeps,
			Count:      DefaultCount,
			Momenta:    DefaultMomenta,
		},
		Paths: PathsConfig{
			DataDir:          ".",
			ColdEnergies:     "cold_energies.npy",
			HotEnergies:      "hot_energies.npy",
			Correlation:      "correlation_b03.npy",
			Bundle:           "corr_all_0.6.npy",
			States:           "states.dat",
			HotCold:          "hot_cold.pdf",
			Histogram:        "energy_hist.pdf",
			CorrelationGraph: "correlation_graph.pdf",
			CorrelationAll:   "correlation_graph_all.pdf",
		},
		Fit: FitConfig{
			Component:  "real",
			Normalize:  true,
			Iterations: 1000,
			Tolerance:  1e-14,
		},
		Render: RenderConfig{
			Width:     DefaultWidth,
			Height:    DefaultHeight,
			Bins:      DefaultBins,
			Tolerance: DefaultTolerance,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
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

func (c *Config) Validate() error {
	l := c.Lattice
	switch {
	case l.TimeLen <= 0 || l.SpaceLen <= 0:
		return fmt.Errorf("%w: lattice %dx%d", ErrInvalid, l.TimeLen, l.SpaceLen)
	case l.TimeLen > 0xffff || l.SpaceLen > 0xffff:
		return fmt.Errorf("%w: lattice %dx%d exceeds 65535", ErrInvalid, l.TimeLen, l.SpaceLen)
	case l.Beta < 0:
		return fmt.Errorf("%w: beta %g", ErrInvalid, l.Beta)
	case l.Iterations < 0 || l.Sweeps < 0 || l.Count < 0:
		return fmt.Errorf("%w: negative iteration count", ErrInvalid)
	case c.Fit.From < 0:
		return fmt.Errorf("%w: fit.from %d", ErrInvalid, c.Fit.From)
	case c.Fit.To > 0 && c.Fit.To <= c.Fit.From:
		return fmt.Errorf("%w: fit window [%d, %d)", ErrInvalid, c.Fit.From, c.Fit.To)
	case c.Render.Width < 0 || c.Render.Height < 0:
		return fmt.Errorf("%w: render size %gx%g", ErrInvalid, c.Render.Width, c.Render.Height)
	}
	switch c.Fit.Component {
	case "", "real", "re", "imag", "im", "abs", "mod":
	default:
		return fmt.Errorf("%w: fit.component %q", ErrInvalid, c.Fit.Component)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}
