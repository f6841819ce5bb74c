package series

import "math"

// Window selects the lags [From, To) of a row. To <= 0 means the end of the
// row. With Normalize set the row is divided by its value at From and the
// lags are shifted so the window starts at zero.
type Window struct {
	From      int
	To        int
	Normalize bool
}

// Masked is a row in log space restricted to the lags where both the log
// value and the log error are finite.
type Masked struct {
	Index  []int
	Lags   []float64
	Values []float64
	Errors []float64
	Log    []float64
	LogErr []float64

	// Dropped lists window indices excluded as non-finite.
	Dropped []int
}

func (m Masked) Len() int { return len(m.Index) }

func (w Window) Bounds(n int) (int, int) {
	from := min(max(w.From, 0), n)
	to := n
	if w.To > 0 {
		to = min(w.To, n)
	}
	return from, max(to, from)
}

func (w Window) Apply(values, errs []float64) Masked {
	n := min(len(values), len(errs))
	from, to := w.Bounds(n)

	scale := 1.0
	origin := 0
	if w.Normalize && from < to {
		scale = values[from]
		origin = from
	}

	var m Masked
	for t := from; t < to; t++ {
		v := values[t] / scale
		e := errs[t] / math.Abs(scale)

		logV := math.Log(v)
		logE := math.Log((v + e) / v)
		if v <= 0 || !finite(logV) || !finite(logE) {
			m.Dropped = append(m.Dropped, t)
			continue
		}

		m.Index = append(m.Index, t)
		m.Lags = append(m.Lags, float64(t-origin))
		m.Values = append(m.Values, v)
		m.Errors = append(m.Errors, e)
		m.Log = append(m.Log, logV)
		m.LogErr = append(m.LogErr, logE)
	}
	return m
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
