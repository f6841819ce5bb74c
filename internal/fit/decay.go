package fit

import (
	"errors"
	"fmt"
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/isingviz/internal/series"
)

var (
	ErrNoValidPoints   = errors.New("fit: no valid points after masking")
	ErrTooFewPoints    = errors.New("fit: fewer than two points")
	ErrDegenerateSigma = errors.New("fit: error bars must be positive and finite")
	ErrUnconstrained   = errors.New("fit: rate is not constrained by the data")
	ErrNoConvergence   = errors.New("fit: optimizer did not converge")
)

const minPoints = 2

type Options struct {
	// InitialRate seeds the optimizer. Zero means estimate it from a
	// weighted straight-line fit in log space.
	InitialRate float64
	Iterations  int
	Tolerance   float64
	// AbsoluteSigma uses the error bars as absolute standard deviations;
	// otherwise the variance is rescaled by the reduced chi-square.
	AbsoluteSigma bool
}

func DefaultOptions() Options {
	return Options{
		Iterations: 1000,
		Tolerance:  1e-14,
	}
}

type Result struct {
	Rate     float64 `json:"rate"`
	Variance float64 `json:"variance"`
	StdErr   float64 `json:"stderr"`
	ChiSq    float64 `json:"chi_sq"`
	DOF      int     `json:"dof"`
	Points   int     `json:"points"`
}

// Line returns the fitted model in log space, E*t, at each lag.
func (r Result) Line(lags []float64) []float64 {
	out := make([]float64, len(lags))
	for i, t := range lags {
		out[i] = r.Rate * t
	}
	return out
}

// Curve returns exp(E*t) at each lag.
func (r Result) Curve(lags []float64) []float64 {
	out := r.Line(lags)
	for i := range out {
		out[i] = math.Exp(out[i])
	}
	return out
}

func (r Result) Label() string {
	return fmt.Sprintf("E = %.4f ± %.4f", r.Rate, r.StdErr)
}

// Decay fits C(t) = exp(E t) to the masked row.
func Decay(m series.Masked, opts Options) (Result, error) {
	n := m.Len()
	switch {
	case n == 0:
		return Result{}, ErrNoValidPoints
	case n < minPoints:
		return Result{}, fmt.Errorf("%w: got %d", ErrTooFewPoints, n)
	}
	for i, s := range m.Errors {
		if !(s > 0) || math.IsInf(s, 0) {
			return Result{}, fmt.Errorf("%w: sigma %g at lag %g", ErrDegenerateSigma, s, m.Lags[i])
		}
	}
	if floats.Norm(m.Lags, 2) == 0 {
		return Result{}, ErrUnconstrained
	}
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultOptions().Iterations
	}

	residuals := func(dst, p []float64) {
		for i, t := range m.Lags {
			dst[i] = (math.Exp(p[0]*t) - m.Values[i]) / m.Errors[i]
		}
	}

	start := opts.InitialRate
	if start == 0 {
		start = logSlope(m)
	}

	jac := lm.NumJac{Func: residuals}
	problem := lm.LMProblem{
		Dim:        1,
		Size:       n,
		Func:       residuals,
		Jac:        jac.Jac,
		InitParams: []float64{start},
		Tau:        1e-6,
		Eps1:       1e-10,
		Eps2:       1e-10,
	}
	res, err := lm.LM(problem, &lm.Settings{Iterations: opts.Iterations, ObjectiveTol: opts.Tolerance})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrNoConvergence, err)
	}
	rate := res.X[0]
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return Result{}, fmt.Errorf("%w: rate %g", ErrNoConvergence, rate)
	}

	return summarize(m, rate, opts.AbsoluteSigma)
}

func summarize(m series.Masked, rate float64, absolute bool) (Result, error) {
	n := m.Len()
	r := mat.NewVecDense(n, nil)
	j := mat.NewVecDense(n, nil)
	for i, t := range m.Lags {
		model := math.Exp(rate * t)
		r.SetVec(i, (model-m.Values[i])/m.Errors[i])
		j.SetVec(i, t*model/m.Errors[i])
	}

	information := mat.Dot(j, j)
	if information == 0 || math.IsInf(information, 0) || math.IsNaN(information) {
		return Result{}, ErrUnconstrained
	}

	res := Result{
		Rate:     rate,
		ChiSq:    mat.Dot(r, r),
		DOF:      n - 1,
		Points:   n,
		Variance: 1 / information,
	}
	if !absolute {
		res.Variance *= res.ChiSq / float64(res.DOF)
	}
	res.StdErr = math.Sqrt(res.Variance)
	return res, nil
}

// logSlope is the weighted least-squares slope through the origin of the
// log values against lag.
func logSlope(m series.Masked) float64 {
	w := make([]float64, m.Len())
	for i, e := range m.LogErr {
		w[i] = 1 / (e * e)
	}
	wt := make([]float64, len(w))
	floats.MulTo(wt, w, m.Lags)

	den := floats.Dot(wt, m.Lags)
	if den == 0 || math.IsInf(den, 0) || math.IsNaN(den) {
		return 0
	}
	return floats.Dot(wt, m.Log) / den
}
