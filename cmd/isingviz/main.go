package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/isingviz/internal/config"
	"github.com/san-kum/isingviz/internal/logging"
	"github.com/san-kum/isingviz/internal/storage"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string

	j          float64
	h          float64
	beta       float64
	timeLen    int
	spaceLen   int
	seed       uint64
	iterations int
	sweeps     int
	count      int
	workers    int
	momenta    int

	printMatrix bool
	ascii       bool
	format      string
	component   string
	fitFrom     int
	fitTo       int
)

// main registers the commands and exits with status 1 when the executed
// command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "isingviz",
		Short:        "ising lattice simulation and correlation plots",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset lattice configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	hotcoldCmd := &cobra.Command{
		Use:   "hotcold",
		Short: "record energies of a cold and a hot start",
		RunE:  runHotCold,
	}
	latticeFlags(hotcoldCmd)
	hotcoldCmd.Flags().IntVar(&iterations, "iterations", config.DefaultIterations, "sweeps to record")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "write thermalized lattice states to the state file",
		RunE:  runGenerate,
	}
	latticeFlags(generateCmd)
	generateCmd.Flags().IntVar(&sweeps, "sweeps", config.DefaultSweeps, "thermalization sweeps per sample")
	generateCmd.Flags().IntVar(&count, "count", config.DefaultCount, "number of samples")
	generateCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = GOMAXPROCS)")

	correlateCmd := &cobra.Command{
		Use:   "correlate",
		Short: "accumulate correlations from the state file",
		RunE:  runCorrelate,
	}
	correlateCmd.Flags().IntVar(&momenta, "momenta", config.DefaultMomenta, "momentum rows in the bundle")
	correlateCmd.Flags().BoolVar(&printMatrix, "print", false, "print the correlation matrix")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "render energy, heatmap and correlator charts",
		RunE:  runPlot,
	}
	plotCmd.Flags().BoolVar(&ascii, "ascii", false, "also draw charts in the terminal")
	fitFlags(plotCmd)

	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "fit decay rates of the correlation bundle",
		RunE:  runFit,
	}
	fitCmd.Flags().StringVar(&format, "format", "json", "output format (json, csv)")
	fitFlags(fitCmd)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "browse charts and fits in the terminal",
		RunE:  runShow,
	}
	fitFlags(showCmd)

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(hotcoldCmd, generateCmd, correlateCmd, plotCmd, fitCmd, showCmd, runsCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func latticeFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&j, "j", config.DefaultJ, "coupling")
	cmd.Flags().Float64Var(&h, "h", 0, "external field")
	cmd.Flags().Float64Var(&beta, "beta", config.DefaultBeta, "inverse temperature")
	cmd.Flags().IntVar(&timeLen, "time-len", config.DefaultTimeLen, "lattice time extent")
	cmd.Flags().IntVar(&spaceLen, "space-len", config.DefaultSpaceLen, "lattice space extent")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed")
}

func fitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&component, "component", "real", "correlator component (real, imag, abs)")
	cmd.Flags().IntVar(&fitFrom, "from", 0, "first lag of the fit window")
	cmd.Flags().IntVar(&fitTo, "to", 0, "end of the fit window (0 = last lag)")
}

type env struct {
	cfg   *config.Config
	store *storage.Store
	log   *zap.Logger
}

// setup resolves the configuration: defaults, then preset, then config file
// (which overrides the preset), then explicitly set flags.
func setup(cmd *cobra.Command) (*env, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") || cfg.Paths.DataDir == "" {
		cfg.Paths.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	l := &cfg.Lattice
	for name, apply := range map[string]func(){
		"j":          func() { l.J = j },
		"h":          func() { l.H = h },
		"beta":       func() { l.Beta = beta },
		"time-len":   func() { l.TimeLen = timeLen },
		"space-len":  func() { l.SpaceLen = spaceLen },
		"seed":       func() { l.Seed = seed },
		"iterations": func() { l.Iterations = iterations },
		"sweeps":     func() { l.Sweeps = sweeps },
		"count":      func() { l.Count = count },
		"workers":    func() { l.Workers = workers },
		"momenta":    func() { l.Momenta = momenta },
		"component":  func() { cfg.Fit.Component = component },
		"from":       func() { cfg.Fit.From = fitFrom },
		"to":         func() { cfg.Fit.To = fitTo },
	} {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			apply()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	st := storage.New(cfg.Paths.DataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return &env{cfg: cfg, store: st, log: log}, nil
}
