package fit

import "github.com/san-kum/isingviz/internal/series"

// Outcome is the fit of one correlator row. Err is set when the row was
// skipped; Result is then the zero value.
type Outcome struct {
	Row    int
	Masked series.Masked
	Result Result
	Err    error
}

func (o Outcome) OK() bool { return o.Err == nil }

// Rows fits every row independently. A row that fails to fit does not stop
// the others.
func Rows(rows []series.Masked, opts Options) []Outcome {
	out := make([]Outcome, len(rows))
	for i, m := range rows {
		out[i] = Outcome{Row: i, Masked: m}
		out[i].Result, out[i].Err = Decay(m, opts)
	}
	return out
}
