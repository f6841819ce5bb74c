// Package record reads and writes lattice state files.
//
// A state file starts with a 26 byte little-endian header
//
//	"ISI\x01" | j float64 | beta float64 | time_len uint16 | space_len uint16 | word_bytes uint16
//
// followed by any number of lattice states, each time_len*ceil(space_len/64)
// little-endian uint64 words.
package record

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/san-kum/isingviz/internal/lattice"
)

const (
	HeaderLen = 26
	WordBytes = 8
)

var magic = []byte("ISI\x01")

var (
	ErrBadPrefix   = errors.New("record: bad file prefix")
	ErrLatticeSize = errors.New("record: lattice size mismatch")
	ErrStateSize   = errors.New("record: unsupported state word size")
)

type Header struct {
	J         float64
	Beta      float64
	TimeLen   int
	SpaceLen  int
	WordBytes int
}

// Check verifies the header describes a lattice of the given size.
func (h Header) Check(timeLen, spaceLen int) error {
	if h.TimeLen != timeLen || h.SpaceLen != spaceLen {
		return fmt.Errorf("%w: file %dx%d, want %dx%d", ErrLatticeSize, h.TimeLen, h.SpaceLen, timeLen, spaceLen)
	}
	return nil
}

func (h Header) words() int {
	return h.TimeLen * ((h.SpaceLen + lattice.SpinsPerWord - 1) / lattice.SpinsPerWord)
}

func (h Header) encode() ([]byte, error) {
	if h.TimeLen <= 0 || h.TimeLen > math.MaxUint16 || h.SpaceLen <= 0 || h.SpaceLen > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %dx%d", ErrLatticeSize, h.TimeLen, h.SpaceLen)
	}
	buf := make([]byte, HeaderLen)
	copy(buf, magic)
	binary.LittleEndian.PutUint64(buf[4:], math.Float64bits(h.J))
	binary.LittleEndian.PutUint64(buf[12:], math.Float64bits(h.Beta))
	binary.LittleEndian.PutUint16(buf[20:], uint16(h.TimeLen))
	binary.LittleEndian.PutUint16(buf[22:], uint16(h.SpaceLen))
	binary.LittleEndian.PutUint16(buf[24:], WordBytes)
	return buf, nil
}

func decodeHeader(buf []byte) (Header, error) {
	if !bytes.Equal(buf[:4], magic) {
		return Header{}, ErrBadPrefix
	}
	h := Header{
		J:         math.Float64frombits(binary.LittleEndian.Uint64(buf[4:])),
		Beta:      math.Float64frombits(binary.LittleEndian.Uint64(buf[12:])),
		TimeLen:   int(binary.LittleEndian.Uint16(buf[20:])),
		SpaceLen:  int(binary.LittleEndian.Uint16(buf[22:])),
		WordBytes: int(binary.LittleEndian.Uint16(buf[24:])),
	}
	if h.TimeLen == 0 || h.SpaceLen == 0 {
		return Header{}, fmt.Errorf("%w: %dx%d", ErrLatticeSize, h.TimeLen, h.SpaceLen)
	}
	if h.WordBytes != WordBytes {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrStateSize, h.WordBytes)
	}
	return h, nil
}

type Writer struct {
	w      *bufio.Writer
	header Header
	buf    []byte
	count  int
}

// NewWriter writes the header for states of the given size to w.
func NewWriter(w io.Writer, h Header) (*Writer, error) {
	h.WordBytes = WordBytes
	hdr, err := h.encode()
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(hdr); err != nil {
		return nil, err
	}
	return &Writer{w: bw, header: h, buf: make([]byte, h.words()*WordBytes)}, nil
}

func (w *Writer) Header() Header { return w.header }
func (w *Writer) Count() int     { return w.count }

func (w *Writer) WriteState(l *lattice.Lattice) error {
	if err := w.header.Check(l.TimeLen, l.SpaceLen); err != nil {
		return err
	}
	for i, word := range l.Words {
		binary.LittleEndian.PutUint64(w.buf[i*WordBytes:], word)
	}
	if _, err := w.w.Write(w.buf); err != nil {
		return err
	}
	w.count++
	return nil
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}

type Reader struct {
	r      *bufio.Reader
	header Header
	buf    []byte
}

// NewReader reads and validates the header from r.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	buf := make([]byte, HeaderLen)
	if _, err := io.ReadFull(br, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("record: reading header: %w", err)
	}
	h, err := decodeHeader(buf)
	if err != nil {
		return nil, err
	}
	return &Reader{r: br, header: h, buf: make([]byte, h.words()*WordBytes)}, nil
}

func (r *Reader) Header() Header { return r.header }

// NewLattice allocates a lattice sized for the states in this file.
func (r *Reader) NewLattice() (*lattice.Lattice, error) {
	return lattice.New(r.header.TimeLen, r.header.SpaceLen)
}

// ReadState reads the next state into l. It returns io.EOF when no states
// remain and io.ErrUnexpectedEOF for a truncated state.
func (r *Reader) ReadState(l *lattice.Lattice) error {
	if err := r.header.Check(l.TimeLen, l.SpaceLen); err != nil {
		return err
	}
	if _, err := io.ReadFull(r.r, r.buf); err != nil {
		return err
	}
	for i := range l.Words {
		l.Words[i] = binary.LittleEndian.Uint64(r.buf[i*WordBytes:])
	}
	return nil
}
