// Package correlation accumulates spin-spin correlations over an ensemble of
// lattice states.
//
// Every sample is gauge fixed so the reference spin s(0,0) is +1, then
// s(0,0)*s(t,x) is summed per site. Besides the full (t, x) matrix the
// accumulator tracks momentum projected correlators
//
//	c_k(t) = 1/L * sum_x s(0,0) s(t,x) exp(-2 pi i k x / L)
//
// with per-sample second moments for the error estimate.
package correlation

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/isingviz/internal/lattice"
	"github.com/san-kum/isingviz/internal/series"
)

var (
	ErrNoSamples  = errors.New("correlation: no samples accumulated")
	ErrDimensions = errors.New("correlation: lattice dimensions do not match accumulator")
)

type Accumulator struct {
	timeLen  int
	spaceLen int
	momenta  int

	sum   []float64
	re    [][]float64
	im    [][]float64
	re2   [][]float64
	im2   [][]float64
	count int

	cos  [][]float64
	sin  [][]float64
	work *lattice.Lattice
}

// NewAccumulator tracks momenta wave numbers k = 0..momenta-1.
func NewAccumulator(timeLen, spaceLen, momenta int) (*Accumulator, error) {
	work, err := lattice.New(timeLen, spaceLen)
	if err != nil {
		return nil, err
	}
	momenta = min(max(momenta, 1), spaceLen)

	a := &Accumulator{
		timeLen:  timeLen,
		spaceLen: spaceLen,
		momenta:  momenta,
		sum:      make([]float64, timeLen*spaceLen),
		re:       grid(momenta, timeLen),
		im:       grid(momenta, timeLen),
		re2:      grid(momenta, timeLen),
		im2:      grid(momenta, timeLen),
		cos:      grid(momenta, spaceLen),
		sin:      grid(momenta, spaceLen),
		work:     work,
	}
	for k := 0; k < momenta; k++ {
		for x := 0; x < spaceLen; x++ {
			phase := 2 * math.Pi * float64(k*x) / float64(spaceLen)
			a.cos[k][x] = math.Cos(phase)
			a.sin[k][x] = math.Sin(phase)
		}
	}
	return a, nil
}

func grid(rows, cols int) [][]float64 {
	g := make([][]float64, rows)
	for i := range g {
		g[i] = make([]float64, cols)
	}
	return g
}

func (a *Accumulator) Count() int   { return a.count }
func (a *Accumulator) Momenta() int { return a.momenta }

// Add accumulates one lattice state. The state itself is not modified.
func (a *Accumulator) Add(l *lattice.Lattice) error {
	if l.TimeLen != a.timeLen || l.SpaceLen != a.spaceLen {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrDimensions, l.TimeLen, l.SpaceLen, a.timeLen, a.spaceLen)
	}
	a.work.CopyFrom(l)
	if a.work.Spin(0, 0) < 0 {
		a.work.Negate()
	}

	norm := 1 / float64(a.spaceLen)
	re := make([]float64, a.momenta)
	im := make([]float64, a.momenta)
	for t := 0; t < a.timeLen; t++ {
		for k := range re {
			re[k], im[k] = 0, 0
		}
		for x := 0; x < a.spaceLen; x++ {
			s := float64(a.work.Spin(x, t))
			a.sum[t*a.spaceLen+x] += s
			for k := 0; k < a.momenta; k++ {
				re[k] += s * a.cos[k][x]
				im[k] -= s * a.sin[k][x]
			}
		}
		for k := 0; k < a.momenta; k++ {
			cr, ci := re[k]*norm, im[k]*norm
			a.re[k][t] += cr
			a.im[k][t] += ci
			a.re2[k][t] += cr * cr
			a.im2[k][t] += ci * ci
		}
	}
	a.count++
	return nil
}

// Matrix returns the mean of s(0,0)*s(t,x) with t as the row index.
func (a *Accumulator) Matrix() (*mat.Dense, error) {
	if a.count == 0 {
		return nil, ErrNoSamples
	}
	data := make([]float64, len(a.sum))
	n := float64(a.count)
	for i, v := range a.sum {
		data[i] = v / n
	}
	return mat.NewDense(a.timeLen, a.spaceLen, data), nil
}

// Bundle returns the mean momentum projected correlators, one row per k,
// with the standard error of the mean as the error magnitude.
func (a *Accumulator) Bundle() (*series.Bundle, error) {
	if a.count == 0 {
		return nil, ErrNoSamples
	}
	n := float64(a.count)
	b := &series.Bundle{
		Values: make([][]complex128, a.momenta),
		Errors: grid(a.momenta, a.timeLen),
	}
	for k := 0; k < a.momenta; k++ {
		b.Values[k] = make([]complex128, a.timeLen)
		for t := 0; t < a.timeLen; t++ {
			mr, mi := a.re[k][t]/n, a.im[k][t]/n
			b.Values[k][t] = complex(mr, mi)
			if a.count < 2 {
				continue
			}
			varRe := math.Max(0, (a.re2[k][t]-n*mr*mr)/(n-1))
			varIm := math.Max(0, (a.im2[k][t]-n*mi*mi)/(n-1))
			b.Errors[k][t] = math.Sqrt((varRe + varIm) / n)
		}
	}
	return b, nil
}
