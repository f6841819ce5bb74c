package series

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

var (
	ErrShapeMismatch = errors.New("series: values and errors differ in shape")
	ErrComponent     = errors.New("series: unknown component")
)

// Bundle is a set of correlator rows indexed by time lag.
type Bundle struct {
	Values [][]complex128
	Errors [][]float64
}

func (b *Bundle) Rows() int { return len(b.Values) }

// Lags returns the length of the longest row.
func (b *Bundle) Lags() int {
	n := 0
	for _, row := range b.Values {
		n = max(n, len(row))
	}
	return n
}

// HasImag reports whether any value has a non-zero imaginary part.
func (b *Bundle) HasImag() bool {
	for _, row := range b.Values {
		for _, z := range row {
			if imag(z) != 0 {
				return true
			}
		}
	}
	return false
}

func (b *Bundle) Validate() error {
	if len(b.Values) != len(b.Errors) {
		return fmt.Errorf("%w: %d value rows, %d error rows", ErrShapeMismatch, len(b.Values), len(b.Errors))
	}
	for i := range b.Values {
		if len(b.Values[i]) != len(b.Errors[i]) {
			return fmt.Errorf("%w: row %d has %d values, %d errors", ErrShapeMismatch, i, len(b.Values[i]), len(b.Errors[i]))
		}
	}
	return nil
}

// NewRealBundle builds a bundle from real-valued rows.
func NewRealBundle(values, errs [][]float64) *Bundle {
	b := &Bundle{
		Values: make([][]complex128, len(values)),
		Errors: errs,
	}
	for i, row := range values {
		b.Values[i] = make([]complex128, len(row))
		for t, v := range row {
			b.Values[i][t] = complex(v, 0)
		}
	}
	return b
}

// Component selects which real quantity of a complex correlator is analysed.
type Component int

const (
	Real Component = iota
	Imag
	Abs
)

func (c Component) String() string {
	switch c {
	case Real:
		return "real"
	case Imag:
		return "imag"
	case Abs:
		return "abs"
	}
	return fmt.Sprintf("component(%d)", int(c))
}

func ParseComponent(s string) (Component, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "real", "re":
		return Real, nil
	case "imag", "im":
		return Imag, nil
	case "abs", "mod":
		return Abs, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrComponent, s)
}

func (c Component) Extract(row []complex128) []float64 {
	switch c {
	case Imag:
		return ImagParts(row)
	case Abs:
		out := make([]float64, len(row))
		for i, z := range row {
			out[i] = cmplx.Abs(z)
		}
		return out
	default:
		return RealParts(row)
	}
}

func RealParts(zs []complex128) []float64 {
	out := make([]float64, len(zs))
	for i, z := range zs {
		out[i] = real(z)
	}
	return out
}

func ImagParts(zs []complex128) []float64 {
	out := make([]float64, len(zs))
	for i, z := range zs {
		out[i] = imag(z)
	}
	return out
}

// Log returns the natural logarithm of each value; non-positive values map
// to NaN or -Inf.
func Log(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		if x < 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = math.Log(x)
	}
	return out
}
