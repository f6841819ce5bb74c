package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/isingviz/internal/fit"
	"github.com/san-kum/isingviz/internal/series"
)

// Row is one correlator drawn in log space. Fit is nil for a row that was
// not fitted.
type Row struct {
	Label  string
	Masked series.Masked
	Fit    *fit.Result
}

type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// Correlators draws log C(t) with error bars for every row and overlays the
// fitted line E*t, labelled with E.
func Correlators(rows []Row, opts Options) (*plot.Plot, error) {
	p := newPlot(opts, "t", "log C(t)")

	drawn := 0
	for i, row := range rows {
		m := row.Masked
		if m.Len() == 0 {
			continue
		}
		col := plotutil.Color(i)

		pts := errorPoints{
			XYs:     make(plotter.XYs, m.Len()),
			YErrors: make(plotter.YErrors, m.Len()),
		}
		for k := range m.Index {
			pts.XYs[k].X = m.Lags[k]
			pts.XYs[k].Y = m.Log[k]
			pts.YErrors[k].Low = m.LogErr[k]
			pts.YErrors[k].High = m.LogErr[k]
		}

		bars, err := plotter.NewYErrorBars(pts)
		if err != nil {
			return nil, fmt.Errorf("render: row %d: %w", i, err)
		}
		bars.Color = col
		scatter, err := plotter.NewScatter(pts.XYs)
		if err != nil {
			return nil, fmt.Errorf("render: row %d: %w", i, err)
		}
		scatter.GlyphStyle.Color = col
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(2)
		p.Add(bars, scatter)

		label := row.Label
		if label == "" {
			label = fmt.Sprintf("row %d", i)
		}
		if row.Fit == nil {
			p.Legend.Add(label, scatter)
			drawn++
			continue
		}

		ends := []float64{0, m.Lags[m.Len()-1]}
		line := row.Fit.Line(ends)
		fitLine, err := plotter.NewLine(plotter.XYs{
			{X: ends[0], Y: line[0]},
			{X: ends[1], Y: line[1]},
		})
		if err != nil {
			return nil, fmt.Errorf("render: row %d: %w", i, err)
		}
		fitLine.Color = col
		fitLine.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
		p.Add(fitLine)
		p.Legend.Add(fmt.Sprintf("%s: %s", label, row.Fit.Label()), scatter, fitLine)
		drawn++
	}

	if drawn == 0 {
		return nil, ErrEmpty
	}
	return p, nil
}
