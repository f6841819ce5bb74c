// Package pipeline runs the load, transform, fit and render stages over the
// files named in a configuration.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/isingviz/internal/analysis"
	"github.com/san-kum/isingviz/internal/config"
	"github.com/san-kum/isingviz/internal/fit"
	"github.com/san-kum/isingviz/internal/render"
	"github.com/san-kum/isingviz/internal/series"
	"github.com/san-kum/isingviz/internal/storage"
)

type Pipeline struct {
	cfg   *config.Config
	store *storage.Store
	log   *zap.Logger
}

func New(cfg *config.Config, store *storage.Store, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, store: store, log: log}
}

type EnergyStats struct {
	// Thermalized is the first sweep from which the trajectories agree, or
	// -1 when they never do.
	Thermalized int              `json:"thermalized"`
	Cold        analysis.Summary `json:"cold"`
	Hot         analysis.Summary `json:"hot"`
	// Spectrum is |X(k)| of the hot trajectory after burn-in.
	Spectrum    []float64        `json:"-"`
}

type Result struct {
	Outputs []string
	Skipped []string
	Energy  *EnergyStats
	Fits    []fit.Outcome
}

type stage struct {
	name    string
	enabled bool
	run     func(context.Context, *Result) error
}

// Run executes the energy, heatmap and correlator stages in order. A stage
// whose input is not configured is skipped; any other failure stops the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}
	render.UseLatex(p.cfg.Render.Latex)

	paths := p.cfg.Paths
	stages := []stage{
		{"energies", paths.ColdEnergies != "" || paths.HotEnergies != "", p.energyStage},
		{"heatmap", paths.Correlation != "", p.heatmapStage},
		{"correlators", paths.Bundle != "", p.correlatorStage},
	}

	res := &Result{}
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !s.enabled {
			p.log.Info("stage skipped", zap.String("stage", s.name))
			res.Skipped = append(res.Skipped, s.name)
			continue
		}
		p.log.Debug("stage started", zap.String("stage", s.name))
		if err := s.run(ctx, res); err != nil {
			return res, fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return res, nil
}

func (p *Pipeline) size() (vg.Length, vg.Length) {
	return vg.Length(p.cfg.Render.Width) * vg.Inch, vg.Length(p.cfg.Render.Height) * vg.Inch
}

func (p *Pipeline) save(res *Result, plt render.Saver, name string) error {
	if name == "" {
		return nil
	}
	path := p.store.Path(name)
	w, h := p.size()
	if err := render.Save(plt, path, w, h); err != nil {
		return err
	}
	p.log.Info("wrote chart", zap.String("path", path))
	res.Outputs = append(res.Outputs, path)
	return nil
}

// LoadEnergies reads the configured trajectories; an unset path yields nil.
func (p *Pipeline) LoadEnergies() (cold, hot []float64, err error) {
	if name := p.cfg.Paths.ColdEnergies; name != "" {
		if cold, err = p.store.LoadSeries(name); err != nil {
			return nil, nil, err
		}
	}
	if name := p.cfg.Paths.HotEnergies; name != "" {
		if hot, err = p.store.LoadSeries(name); err != nil {
			return nil, nil, err
		}
	}
	return cold, hot, nil
}

// EnergyStats finds the burn-in and summarizes both trajectories after it.
// Without a common burn-in the second half of each trajectory is used.
func (p *Pipeline) EnergyStats(cold, hot []float64) *EnergyStats {
	st := &EnergyStats{Thermalized: analysis.Thermalization(cold, hot, p.cfg.Render.Tolerance)}
	st.Cold = analysis.Summarize(cold, burnIn(st.Thermalized, len(cold)))
	st.Hot = analysis.Summarize(hot, burnIn(st.Thermalized, len(hot)))
	st.Spectrum = analysis.PowerSpectrum(tail(hot, burnIn(st.Thermalized, len(hot))))
	return st
}

func burnIn(thermalized, n int) int {
	if thermalized < 0 {
		return n / 2
	}
	return thermalized
}

func (p *Pipeline) energyStage(ctx context.Context, res *Result) error {
	cold, hot, err := p.LoadEnergies()
	if err != nil {
		return err
	}
	st := p.EnergyStats(cold, hot)
	res.Energy = st
	p.log.Info("energies",
		zap.Int("sweeps", max(len(cold), len(hot))),
		zap.Int("thermalized", st.Thermalized),
		zap.Float64("cold_mean", st.Cold.Mean),
		zap.Float64("hot_mean", st.Hot.Mean),
		zap.Float64("tau", st.Hot.Tau),
	)

	plt, err := render.Energies(cold, hot, render.Options{Thermalized: st.Thermalized})
	if err != nil {
		return err
	}
	if err := p.save(res, plt, p.cfg.Paths.HotCold); err != nil {
		return err
	}

	if p.cfg.Paths.Histogram == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	hist, err := render.Histogram([]render.Named{
		{Name: "cold start", Values: tail(cold, burnIn(st.Thermalized, len(cold)))},
		{Name: "hot start", Values: tail(hot, burnIn(st.Thermalized, len(hot)))},
	}, p.cfg.Render.Bins, render.Options{})
	if err != nil {
		return err
	}
	return p.save(res, hist, p.cfg.Paths.Histogram)
}

func tail(x []float64, from int) []float64 {
	if from >= len(x) {
		return nil
	}
	return x[from:]
}

func (p *Pipeline) heatmapStage(ctx context.Context, res *Result) error {
	m, err := p.store.LoadMatrix(p.cfg.Paths.Correlation)
	if err != nil {
		return err
	}
	r, c := m.Dims()
	p.log.Info("correlation matrix", zap.Int("time_len", r), zap.Int("space_len", c))

	plt, err := render.Heatmap(m, render.Options{})
	if err != nil {
		return err
	}
	return p.save(res, plt, p.cfg.Paths.CorrelationGraph)
}

func (p *Pipeline) window() series.Window {
	return series.Window{From: p.cfg.Fit.From, To: p.cfg.Fit.To, Normalize: p.cfg.Fit.Normalize}
}

func (p *Pipeline) fitOptions() fit.Options {
	opts := fit.DefaultOptions()
	opts.InitialRate = p.cfg.Fit.InitialRate
	opts.AbsoluteSigma = p.cfg.Fit.AbsoluteSigma
	if p.cfg.Fit.Iterations > 0 {
		opts.Iterations = p.cfg.Fit.Iterations
	}
	if p.cfg.Fit.Tolerance > 0 {
		opts.Tolerance = p.cfg.Fit.Tolerance
	}
	return opts
}

// Mask loads the bundle and applies the configured component and window to
// every row. The masked rows feed both the fit and the chart.
func (p *Pipeline) Mask() ([]series.Masked, error) {
	b, err := p.store.LoadBundle(p.cfg.Paths.Bundle)
	if err != nil {
		return nil, err
	}
	comp, err := series.ParseComponent(p.cfg.Fit.Component)
	if err != nil {
		return nil, err
	}

	n := b.Rows()
	if p.cfg.Fit.Rows > 0 {
		n = min(n, p.cfg.Fit.Rows)
	}
	w := p.window()
	rows := make([]series.Masked, n)
	for i := range rows {
		rows[i] = w.Apply(comp.Extract(b.Values[i]), b.Errors[i])
		if d := rows[i].Dropped; len(d) > 0 {
			p.log.Debug("masked lags", zap.Int("row", i), zap.Ints("lags", d))
		}
	}
	return rows, nil
}

// Fit fits every masked row of the bundle. Rows that cannot be fitted are
// logged and returned with their error.
func (p *Pipeline) Fit() ([]fit.Outcome, error) {
	rows, err := p.Mask()
	if err != nil {
		return nil, err
	}
	outcomes := fit.Rows(rows, p.fitOptions())
	for _, o := range outcomes {
		if !o.OK() {
			p.log.Warn("row skipped", zap.Int("row", o.Row), zap.Int("points", o.Masked.Len()), zap.Error(o.Err))
			continue
		}
		p.log.Info("row fitted",
			zap.Int("row", o.Row),
			zap.Float64("rate", o.Result.Rate),
			zap.Float64("stderr", o.Result.StdErr),
			zap.Int("points", o.Result.Points),
			zap.Int("masked", len(o.Masked.Dropped)),
		)
	}
	return outcomes, nil
}

func (p *Pipeline) correlatorStage(ctx context.Context, res *Result) error {
	outcomes, err := p.Fit()
	if err != nil {
		return err
	}
	res.Fits = outcomes

	rows := make([]render.Row, len(outcomes))
	for i, o := range outcomes {
		rows[i] = render.Row{Label: fmt.Sprintf("k=%d", o.Row), Masked: o.Masked}
		if o.OK() {
			r := o.Result
			rows[i].Fit = &r
		}
	}
	plt, err := render.Correlators(rows, render.Options{})
	if err != nil {
		return err
	}
	return p.save(res, plt, p.cfg.Paths.CorrelationAll)
}
