package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/isingviz/internal/fit"
	"github.com/san-kum/isingviz/internal/pipeline"
	"github.com/san-kum/isingviz/internal/series"
	"github.com/san-kum/isingviz/internal/storage"
	"github.com/san-kum/isingviz/internal/viz"
)

const (
	chartWidth  = 70
	chartHeight = 12
)

func runPlot(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	p := pipeline.New(e.cfg, e.store, e.log)
	res, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}

	metrics := map[string]float64{}
	if res.Energy != nil {
		metrics["thermalized"] = float64(res.Energy.Thermalized)
		metrics["tau"] = res.Energy.Hot.Tau
	}
	for _, o := range res.Fits {
		if o.OK() {
			metrics[fmt.Sprintf("rate_%d", o.Row)] = o.Result.Rate
		}
	}
	e.record("plot", res.Outputs, metrics)

	if !ascii {
		return nil
	}
	for _, page := range pages(p, res) {
		fmt.Println(viz.HeaderStyle.Render(strings.ToUpper(page.Title)))
		fmt.Println(page.Body)
		fmt.Println()
	}
	return nil
}

func runFit(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	if e.cfg.Paths.Bundle == "" {
		return fmt.Errorf("no correlation bundle configured")
	}
	outcomes, err := pipeline.New(e.cfg, e.store, e.log).Fit()
	if err != nil {
		return err
	}
	return storage.ExportFits(os.Stdout, format, outcomes)
}

func runShow(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	p := pipeline.New(e.cfg, e.store, e.log)
	res := &pipeline.Result{}
	if e.cfg.Paths.ColdEnergies != "" || e.cfg.Paths.HotEnergies != "" {
		cold, hot, err := p.LoadEnergies()
		if err != nil {
			return err
		}
		res.Energy = p.EnergyStats(cold, hot)
	}
	if e.cfg.Paths.Bundle != "" {
		if res.Fits, err = p.Fit(); err != nil {
			return err
		}
	}
	return viz.Run(pages(p, res))
}

// pages lays out the terminal views of a run.
func pages(p *pipeline.Pipeline, res *pipeline.Result) []viz.Page {
	var out []viz.Page

	if res.Energy != nil {
		cold, hot, err := p.LoadEnergies()
		if err == nil {
			st := res.Energy
			var b strings.Builder
			b.WriteString(viz.EnergyChart(cold, hot, chartWidth, chartHeight))
			b.WriteString("\n\n")
			fmt.Fprintf(&b, "%s %s\n", viz.MetricLabel.Render("thermalized at sweep"), viz.MetricValue.Render(fmt.Sprint(st.Thermalized)))
			fmt.Fprintf(&b, "%s %s\n", viz.MetricLabel.Render("cold"), viz.MetricValue.Render(fmt.Sprintf("%.5f ± %.5f", st.Cold.Mean, st.Cold.Error)))
			fmt.Fprintf(&b, "%s %s\n", viz.MetricLabel.Render("hot "), viz.MetricValue.Render(fmt.Sprintf("%.5f ± %.5f", st.Hot.Mean, st.Hot.Error)))
			fmt.Fprintf(&b, "%s %s", viz.MetricLabel.Render("tau "), viz.MetricValue.Render(fmt.Sprintf("%.2f (window %d)", st.Hot.Tau, st.Hot.Window)))
			out = append(out, viz.Page{Title: "energies", Body: b.String()})

			if chart := viz.SpectrumChart(st.Spectrum, chartWidth, chartHeight); chart != "" {
				out = append(out, viz.Page{Title: "spectrum", Body: viz.Panel.Render(chart)})
			}
		}
	}

	if len(res.Fits) > 0 {
		out = append(out,
			viz.Page{Title: "correlators", Body: viz.CorrelatorChart(maskedRows(res.Fits), chartWidth, chartHeight)},
			viz.Page{Title: "fits", Body: viz.FitTable(res.Fits)},
		)
	}
	return out
}

func maskedRows(outcomes []fit.Outcome) []series.Masked {
	rows := make([]series.Masked, len(outcomes))
	for i, o := range outcomes {
		rows[i] = o.Masked
	}
	return rows
}
