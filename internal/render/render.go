package render

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	_ "gonum.org/v1/plot/vg/vgeps"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"
)

const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

type Options struct {
	Title  string
	XLabel string
	YLabel string
	// Thermalized marks a sweep index on energy charts; negative disables.
	Thermalized int
}

// Saver is implemented by *plot.Plot and *hplot.Plot.
type Saver interface {
	Save(w, h vg.Length, file string) error
}

// Save writes p to path, creating parent directories. Zero sizes use the
// defaults.
func Save(p Saver, path string, w, h vg.Length) error {
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("render: %s: %w", path, err)
	}
	return nil
}

// UseLatex switches label typesetting for plots created afterwards.
func UseLatex(on bool) {
	if on {
		plot.DefaultTextHandler = text.Latex{Fonts: font.DefaultCache}
		return
	}
	plot.DefaultTextHandler = text.Plain{Fonts: font.DefaultCache}
}

func newPlot(opts Options, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = xLabel
	if opts.XLabel != "" {
		p.X.Label.Text = opts.XLabel
	}
	p.Y.Label.Text = yLabel
	if opts.YLabel != "" {
		p.Y.Label.Text = opts.YLabel
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}
