package render

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
)

const paletteSize = 255

// grid exposes a matrix with rows t and columns x as a plotter.GridXYZ.
type grid struct {
	m mat.Matrix
}

func (g grid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g grid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

// Heatmap draws the (x, t) correlation matrix on a diverging palette
// centred on zero.
func Heatmap(m mat.Matrix, opts Options) (*plot.Plot, error) {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, ErrEmpty
	}

	span := 0.0
	for i := range r {
		for j := range c {
			if v := math.Abs(m.At(i, j)); !math.IsNaN(v) && !math.IsInf(v, 0) {
				span = math.Max(span, v)
			}
		}
	}
	if span == 0 {
		span = 1
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-span)
	cm.SetMax(span)

	hm := plotter.NewHeatMap(grid{m}, cm.Palette(paletteSize))
	hm.Min = -span
	hm.Max = span

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "x"
	if opts.XLabel != "" {
		p.X.Label.Text = opts.XLabel
	}
	p.Y.Label.Text = "t"
	if opts.YLabel != "" {
		p.Y.Label.Text = opts.YLabel
	}
	p.Add(hm)
	p.X.Min, p.X.Max = -0.5, float64(c)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(r)-0.5
	return p, nil
}
