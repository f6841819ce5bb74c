package record

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/san-kum/isingviz/internal/lattice"
)

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Header{J: 1.0, Beta: 0.3, TimeLen: 8, SpaceLen: 70})
	if err != nil {
		t.Fatalf("new writer failed: %v", err)
	}

	rng := lattice.NewXoshiro(9)
	states := make([]*lattice.Lattice, 3)
	for i := range states {
		states[i], _ = lattice.New(8, 70)
		states[i].Randomize(rng)
		if err := w.WriteState(states[i]); err != nil {
			t.Fatalf("write state failed: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	wantLen := HeaderLen + 3*8*2*WordBytes
	if buf.Len() != wantLen {
		t.Errorf("expected %d bytes, got %d", wantLen, buf.Len())
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("new reader failed: %v", err)
	}

	h := r.Header()
	if h.J != 1.0 || h.Beta != 0.3 || h.TimeLen != 8 || h.SpaceLen != 70 {
		t.Errorf("unexpected header: %+v", h)
	}

	l, _ := r.NewLattice()
	for i := range states {
		if err := r.ReadState(l); err != nil {
			t.Fatalf("read state %d failed: %v", i, err)
		}
		for k := range l.Words {
			if l.Words[k] != states[i].Words[k] {
				t.Fatalf("state %d word %d mismatch", i, k)
			}
		}
	}

	if err := r.ReadState(l); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestBadPrefix(t *testing.T) {
	data := make([]byte, HeaderLen)
	copy(data, "NOPE")
	if _, err := NewReader(bytes.NewReader(data)); !errors.Is(err, ErrBadPrefix) {
		t.Errorf("expected ErrBadPrefix, got %v", err)
	}
}

func TestShortHeader(t *testing.T) {
	if _, err := NewReader(bytes.NewReader([]byte("ISI"))); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestStateSize(t *testing.T) {
	var buf bytes.Buffer
	w, _ := NewWriter(&buf, Header{TimeLen: 2, SpaceLen: 2})
	w.Flush()

	data := buf.Bytes()
	data[24] = 4
	if _, err := NewReader(bytes.NewReader(data)); !errors.Is(err, ErrStateSize) {
		t.Errorf("expected ErrStateSize, got %v", err)
	}
}

func TestTruncatedState(t *testing.T) {
	var buf bytes.Buffer
	w, _ := NewWriter(&buf, Header{TimeLen: 4, SpaceLen: 64})
	l, _ := lattice.New(4, 64)
	w.WriteState(l)
	w.Flush()

	data := buf.Bytes()[:buf.Len()-3]
	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("new reader failed: %v", err)
	}
	if err := r.ReadState(l); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestLatticeSizeMismatch(t *testing.T) {
	var buf bytes.Buffer
	w, _ := NewWriter(&buf, Header{TimeLen: 4, SpaceLen: 64})

	l, _ := lattice.New(8, 64)
	if err := w.WriteState(l); !errors.Is(err, ErrLatticeSize) {
		t.Errorf("expected ErrLatticeSize, got %v", err)
	}
}
