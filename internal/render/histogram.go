package render

import (
	"math"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/plotutil"
)

// Named is a labelled sample for a histogram.
type Named struct {
	Name   string
	Values []float64
}

// Histogram overlays one histogram per sample over a common range.
func Histogram(samples []Named, bins int, opts Options) (*hplot.Plot, error) {
	if bins <= 0 {
		bins = 40
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range samples {
		for _, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if lo > hi {
		return nil, ErrEmpty
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	// keep the maximum inside the last bin
	hi += (hi - lo) * 1e-9

	p := hplot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "energy per site"
	if opts.XLabel != "" {
		p.X.Label.Text = opts.XLabel
	}
	p.Y.Label.Text = "count"
	if opts.YLabel != "" {
		p.Y.Label.Text = opts.YLabel
	}

	for i, s := range samples {
		if len(s.Values) == 0 {
			continue
		}
		h := hbook.NewH1D(bins, lo, hi)
		for _, v := range s.Values {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				h.Fill(v, 1)
			}
		}
		hh := hplot.NewH1D(h)
		hh.LineStyle.Color = plotutil.Color(i)
		p.Add(hh)
		p.Legend.Add(s.Name, hh)
	}
	p.Add(hplot.NewGrid())
	p.Legend.Top = true
	return p, nil
}
