package render

import (
	"errors"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var ErrEmpty = errors.New("render: nothing to draw")

func sweepXYs(y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(y))
	for i, v := range y {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	return pts
}

// Energies draws the cold and hot start trajectories against sweep number.
func Energies(cold, hot []float64, opts Options) (*plot.Plot, error) {
	if len(cold) == 0 && len(hot) == 0 {
		return nil, ErrEmpty
	}
	p := newPlot(opts, "sweep", "energy per site")

	lo, hi := math.Inf(1), math.Inf(-1)
	for i, s := range []struct {
		name string
		y    []float64
	}{
		{"cold start", cold},
		{"hot start", hot},
	} {
		if len(s.y) == 0 {
			continue
		}
		l, err := plotter.NewLine(sweepXYs(s.y))
		if err != nil {
			return nil, err
		}
		l.Color = plotutil.Color(i)
		l.Width = vg.Points(1)
		p.Add(l)
		p.Legend.Add(s.name, l)

		for _, v := range s.y {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
		}
	}

	if opts.Thermalized >= 0 && lo <= hi {
		marker, err := plotter.NewLine(plotter.XYs{
			{X: float64(opts.Thermalized), Y: lo},
			{X: float64(opts.Thermalized), Y: hi},
		})
		if err != nil {
			return nil, err
		}
		marker.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		marker.Color = plotutil.Color(2)
		p.Add(marker)
		p.Legend.Add("thermalized", marker)
	}
	return p, nil
}
