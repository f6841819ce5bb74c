package correlation

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/isingviz/internal/lattice"
)

func TestEmptyAccumulator(t *testing.T) {
	a, err := NewAccumulator(4, 8, 2)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if _, err := a.Matrix(); !errors.Is(err, ErrNoSamples) {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
	if _, err := a.Bundle(); !errors.Is(err, ErrNoSamples) {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
}

func TestOrderedLatticeGaugeFixed(t *testing.T) {
	a, _ := NewAccumulator(4, 8, 3)

	down, _ := lattice.New(4, 8)
	up := down.Clone()
	up.Negate()

	for _, l := range []*lattice.Lattice{down, up, down} {
		if err := a.Add(l); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	if down.Spin(0, 0) != -1 {
		t.Error("add modified the input lattice")
	}

	m, err := a.Matrix()
	if err != nil {
		t.Fatalf("matrix failed: %v", err)
	}
	r, c := m.Dims()
	if r != 4 || c != 8 {
		t.Fatalf("expected 4x8 matrix, got %dx%d", r, c)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if m.At(i, j) != 1 {
				t.Fatalf("expected 1 at (%d, %d), got %f", i, j, m.At(i, j))
			}
		}
	}

	b, err := a.Bundle()
	if err != nil {
		t.Fatalf("bundle failed: %v", err)
	}
	if b.Rows() != 3 {
		t.Fatalf("expected 3 momentum rows, got %d", b.Rows())
	}
	for tt := 0; tt < 4; tt++ {
		if math.Abs(real(b.Values[0][tt])-1) > 1e-12 {
			t.Errorf("k=0 t=%d: expected 1, got %v", tt, b.Values[0][tt])
		}
		if b.Errors[0][tt] > 1e-12 {
			t.Errorf("k=0 t=%d: expected zero error for identical samples, got %f", tt, b.Errors[0][tt])
		}
		// a uniform row has no weight at non-zero momentum
		if math.Abs(real(b.Values[1][tt])) > 1e-12 || math.Abs(imag(b.Values[1][tt])) > 1e-12 {
			t.Errorf("k=1 t=%d: expected 0, got %v", tt, b.Values[1][tt])
		}
	}
	if err := b.Validate(); err != nil {
		t.Errorf("bundle invalid: %v", err)
	}
}

func TestErrorsFromFluctuations(t *testing.T) {
	a, _ := NewAccumulator(2, 4, 1)

	l, _ := lattice.New(2, 4)
	l.Negate()
	a.Add(l)

	// second sample: row t=1 fully anti-aligned with the reference spin
	l.Set(0, 1, -1)
	l.Set(1, 1, -1)
	l.Set(2, 1, -1)
	l.Set(3, 1, -1)
	a.Add(l)

	b, _ := a.Bundle()
	if got := real(b.Values[0][1]); math.Abs(got) > 1e-12 {
		t.Errorf("expected mean 0 at t=1, got %f", got)
	}
	// samples +1 and -1: variance 2, standard error sqrt(2/2) = 1
	if math.Abs(b.Errors[0][1]-1) > 1e-12 {
		t.Errorf("expected error 1 at t=1, got %f", b.Errors[0][1])
	}
	if b.Errors[0][0] > 1e-12 {
		t.Errorf("expected zero error at t=0, got %f", b.Errors[0][0])
	}
}

func TestDimensionMismatch(t *testing.T) {
	a, _ := NewAccumulator(4, 8, 1)
	l, _ := lattice.New(4, 9)
	if err := a.Add(l); !errors.Is(err, ErrDimensions) {
		t.Errorf("expected ErrDimensions, got %v", err)
	}
}

func TestMomentaClamped(t *testing.T) {
	a, _ := NewAccumulator(2, 4, 10)
	if a.Momenta() != 4 {
		t.Errorf("expected momenta clamped to 4, got %d", a.Momenta())
	}
	a, _ = NewAccumulator(2, 4, 0)
	if a.Momenta() != 1 {
		t.Errorf("expected at least one momentum, got %d", a.Momenta())
	}
}
