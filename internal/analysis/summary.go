package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	N      int     `json:"n"`
	Tau    float64 `json:"tau"`
	Window int     `json:"window"`
	// Error is the standard error of the mean corrected for autocorrelation,
	// StdDev * sqrt(2 tau / N).
	Error float64 `json:"error"`
}

// Summarize reports statistics of x[from:]. A negative from is treated as
// zero; from past the end gives a zero Summary.
func Summarize(x []float64, from int) Summary {
	from = max(from, 0)
	if from >= len(x) {
		return Summary{}
	}
	tail := x[from:]

	s := Summary{N: len(tail)}
	if s.N == 1 {
		s.Mean = tail[0]
		s.Tau = 0.5
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(tail, nil)
	s.Tau, s.Window = IntegratedTime(tail)
	s.Error = s.StdDev * math.Sqrt(2*s.Tau/float64(s.N))
	return s
}
