package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/isingviz/internal/series"
)

// Keys of a bundle archive.
const (
	KeyCorrelations = "correlations"
	KeyReal         = "real"
	KeyImag         = "imag"
	KeyErrors       = "errors"
)

var ErrMissingKey = errors.New("storage: bundle key missing")

// LoadBundle reads a correlator bundle from an .npz archive or a stacked
// .npy array. See the package documentation for the accepted layouts.
func (s *Store) LoadBundle(name string) (*series.Bundle, error) {
	path := s.Path(name)
	var (
		b   *series.Bundle
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".npz") {
		b, err = loadArchive(path)
	} else {
		b, err = loadStacked(path)
	}
	if err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

func loadStacked(path string) (*series.Bundle, error) {
	a, err := readArrayFile(path)
	if err != nil {
		return nil, err
	}
	if len(a.shape) < 2 || len(a.shape) > 3 || a.shape[0] != 2 {
		return nil, fmt.Errorf("%s: %w: %v, want (2, lags) or (2, rows, lags)", path, ErrShape, a.shape)
	}

	inner := a.shape[1:]
	half := a.size() / 2
	values := a.complex()[:half]
	errs := a.real()[half:]

	rows, lags, _ := dims2(inner)
	return &series.Bundle{
		Values: splitComplex(values, rows, lags),
		Errors: splitReal(errs, rows, lags),
	}, nil
}

func loadArchive(path string) (*series.Bundle, error) {
	zr, err := npz.Open(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	arrays := make(map[string]*array)
	for _, name := range zr.Keys() {
		key := strings.TrimSuffix(name, ".npy")
		rc, err := zr.Open(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		a, err := readArray(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", path, key, err)
		}
		arrays[key] = a
	}

	errArr, ok := arrays[KeyErrors]
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s", path, ErrMissingKey, KeyErrors)
	}

	var values []complex128
	var shape []int
	switch {
	case arrays[KeyCorrelations] != nil:
		c := arrays[KeyCorrelations]
		values, shape = c.complex(), c.shape
	case arrays[KeyReal] != nil:
		re := arrays[KeyReal]
		values, shape = re.complex(), re.shape
		if im := arrays[KeyImag]; im != nil {
			if !slices.Equal(im.shape, shape) {
				return nil, fmt.Errorf("%s: %w: imag %v, real %v", path, series.ErrShapeMismatch, im.shape, shape)
			}
			for i, v := range im.real() {
				values[i] += complex(0, v)
			}
		}
	default:
		return nil, fmt.Errorf("%s: %w: %s or %s", path, ErrMissingKey, KeyCorrelations, KeyReal)
	}

	if !slices.Equal(errArr.shape, shape) {
		return nil, fmt.Errorf("%s: %w: errors %v, values %v", path, series.ErrShapeMismatch, errArr.shape, shape)
	}
	rows, lags, err := dims2(shape)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &series.Bundle{
		Values: splitComplex(values, rows, lags),
		Errors: splitReal(errArr.real(), rows, lags),
	}, nil
}

// SaveBundle writes b in the layout its extension selects: an .npz archive
// of real, imag and errors matrices, or otherwise a stacked (2, rows, lags)
// .npy array holding values then errors. The stacked array is complex only
// when some value has an imaginary part. Rows must all have the same length.
func (s *Store) SaveBundle(name string, b *series.Bundle) error {
	if err := b.Validate(); err != nil {
		return err
	}
	rows, lags := b.Rows(), b.Lags()
	if rows == 0 || lags == 0 {
		return fmt.Errorf("%w: empty bundle", ErrShape)
	}
	for i := range rows {
		if len(b.Values[i]) != lags {
			return fmt.Errorf("%w: row %d has %d lags, want %d", ErrShape, i, len(b.Values[i]), lags)
		}
	}

	path := s.Path(name)
	if strings.EqualFold(filepath.Ext(path), ".npz") {
		return saveArchive(path, b)
	}
	return writeFile(path, stacked(b).Interface())
}

// stacked builds a [2][rows][lags] Go array, from which npyio.Write takes
// the three-dimensional shape.
func stacked(b *series.Bundle) reflect.Value {
	rows, lags := b.Rows(), b.Lags()
	elem := reflect.TypeFor[float64]()
	if b.HasImag() {
		elem = reflect.TypeFor[complex128]()
	}
	v := reflect.New(reflect.ArrayOf(2, reflect.ArrayOf(rows, reflect.ArrayOf(lags, elem)))).Elem()
	for i := range rows {
		for t := range lags {
			val, e := v.Index(0).Index(i).Index(t), v.Index(1).Index(i).Index(t)
			if elem.Kind() == reflect.Complex128 {
				val.SetComplex(b.Values[i][t])
				e.SetComplex(complex(b.Errors[i][t], 0))
				continue
			}
			val.SetFloat(real(b.Values[i][t]))
			e.SetFloat(b.Errors[i][t])
		}
	}
	return v
}

func saveArchive(path string, b *series.Bundle) error {
	rows, lags := b.Rows(), b.Lags()
	re := mat.NewDense(rows, lags, nil)
	im := mat.NewDense(rows, lags, nil)
	errs := mat.NewDense(rows, lags, nil)
	for i := range rows {
		for t, z := range b.Values[i] {
			re.Set(i, t, real(z))
			im.Set(i, t, imag(z))
			errs.Set(i, t, b.Errors[i][t])
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := npz.NewWriter(f)
	for _, entry := range []struct {
		key string
		m   *mat.Dense
	}{
		{KeyReal, re},
		{KeyImag, im},
		{KeyErrors, errs},
	} {
		if err := w.Write(entry.key, entry.m); err != nil {
			w.Close()
			return fmt.Errorf("%s: %s: %w", path, entry.key, err)
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

func splitComplex(flat []complex128, rows, lags int) [][]complex128 {
	out := make([][]complex128, rows)
	for i := range out {
		out[i] = append([]complex128(nil), flat[i*lags:(i+1)*lags]...)
	}
	return out
}

func splitReal(flat []float64, rows, lags int) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		out[i] = append([]float64(nil), flat[i*lags:(i+1)*lags]...)
	}
	return out
}
