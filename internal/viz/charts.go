package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/isingviz/internal/series"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Blue,
	asciigraph.Red,
	asciigraph.Green,
	asciigraph.Yellow,
	asciigraph.Magenta,
	asciigraph.Cyan,
}

// EnergyChart plots the cold and hot trajectories on one chart.
func EnergyChart(cold, hot []float64, width, height int) string {
	var data [][]float64
	var legends []string
	for _, s := range []struct {
		name string
		y    []float64
	}{
		{"cold start", cold},
		{"hot start", hot},
	} {
		if len(s.y) == 0 {
			continue
		}
		data = append(data, s.y)
		legends = append(legends, s.name)
	}
	if len(data) == 0 {
		return ""
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("energy per site"),
		asciigraph.SeriesColors(seriesColors[:len(data)]...),
		asciigraph.SeriesLegends(legends...),
	)
}

// SpectrumChart plots a power spectrum against frequency bin. Bin 0 is left
// out so a residual mean does not flatten the chart.
func SpectrumChart(ps []float64, width, height int) string {
	if len(ps) < 2 {
		return ""
	}
	return asciigraph.Plot(ps[1:],
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("|X(k)| hot start, k >= 1"),
		asciigraph.SeriesColors(seriesColors[1]),
	)
}

// CorrelatorChart plots log C(t) for each masked row. Lags dropped by the
// mask are left as gaps so rows stay aligned on t.
func CorrelatorChart(rows []series.Masked, width, height int) string {
	lags := 0
	for _, m := range rows {
		if m.Len() > 0 {
			lags = max(lags, m.Index[m.Len()-1]+1)
		}
	}
	if lags == 0 {
		return ""
	}

	var data [][]float64
	var colors []asciigraph.AnsiColor
	for i, m := range rows {
		if m.Len() == 0 {
			continue
		}
		y := make([]float64, lags)
		for t := range y {
			y[t] = math.NaN()
		}
		for k, t := range m.Index {
			y[t] = m.Log[k]
		}
		data = append(data, y)
		colors = append(colors, seriesColors[i%len(seriesColors)])
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("log C(t)"),
		asciigraph.SeriesColors(colors...),
	)
}
