package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrShape = errors.New("storage: unexpected array shape")
	ErrDtype = errors.New("storage: unsupported array dtype")
)

// array is a decoded .npy payload in C order. Exactly one of re and cx is
// set, depending on whether the dtype is complex.
type array struct {
	shape []int
	re    []float64
	cx    []complex128
}

func (a *array) size() int {
	if a.cx != nil {
		return len(a.cx)
	}
	return len(a.re)
}

func (a *array) complex() []complex128 {
	if a.cx != nil {
		return a.cx
	}
	out := make([]complex128, len(a.re))
	for i, v := range a.re {
		out[i] = complex(v, 0)
	}
	return out
}

func (a *array) real() []float64 {
	if a.cx == nil {
		return a.re
	}
	out := make([]float64, len(a.cx))
	for i, z := range a.cx {
		out[i] = real(z)
	}
	return out
}

func readArray(r io.Reader) (*array, error) {
	nr, err := npyio.NewReader(r)
	if err != nil {
		return nil, err
	}
	if nr.Header.Descr.Fortran {
		return nil, fmt.Errorf("%w: fortran order", ErrShape)
	}

	// The reader only decodes into a slice of the on-disk element type.
	dtype := nr.Header.Descr.Type
	rt := npyio.TypeFrom(dtype)
	if rt == nil || !numeric(rt.Kind()) {
		return nil, fmt.Errorf("%w: %s", ErrDtype, dtype)
	}
	ptr := reflect.New(reflect.SliceOf(rt))
	if err := nr.Read(ptr.Interface()); err != nil {
		return nil, err
	}

	raw := ptr.Elem()
	a := &array{shape: append([]int(nil), nr.Header.Descr.Shape...)}
	switch rt.Kind() {
	case reflect.Complex64, reflect.Complex128:
		a.cx = make([]complex128, raw.Len())
		for i := range a.cx {
			a.cx[i] = raw.Index(i).Complex()
		}
	default:
		a.re = make([]float64, raw.Len())
		for i := range a.re {
			a.re[i] = toFloat(raw.Index(i))
		}
	}
	return a, nil
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	}
	return v.Float()
}

func readArrayFile(path string) (*array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := readArray(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

func writeFile(path string, v any) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := npyio.Write(f, v); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// SaveSeries writes a 1-D float64 array.
func (s *Store) SaveSeries(name string, x []float64) error {
	return writeFile(s.Path(name), x)
}

// LoadSeries reads a 1-D array. Shapes with a single non-unit dimension,
// such as (1, n), are accepted.
func (s *Store) LoadSeries(name string) ([]float64, error) {
	path := s.Path(name)
	a, err := readArrayFile(path)
	if err != nil {
		return nil, err
	}
	long := 0
	for _, d := range a.shape {
		if d > 1 {
			long++
		}
	}
	if long > 1 {
		return nil, fmt.Errorf("%s: %w: %v, want 1-D", path, ErrShape, a.shape)
	}
	return a.real(), nil
}

func (s *Store) SaveMatrix(name string, m mat.Matrix) error {
	return writeFile(s.Path(name), m)
}

// LoadMatrix reads a 2-D array; a 1-D array becomes a single row.
func (s *Store) LoadMatrix(name string) (*mat.Dense, error) {
	path := s.Path(name)
	a, err := readArrayFile(path)
	if err != nil {
		return nil, err
	}
	rows, cols, err := dims2(a.shape)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if rows*cols == 0 {
		return nil, fmt.Errorf("%s: %w: empty array", path, ErrShape)
	}
	return mat.NewDense(rows, cols, a.real()), nil
}

func dims2(shape []int) (int, int, error) {
	switch len(shape) {
	case 1:
		return 1, shape[0], nil
	case 2:
		return shape[0], shape[1], nil
	}
	return 0, 0, fmt.Errorf("%w: %v, want 1-D or 2-D", ErrShape, shape)
}
