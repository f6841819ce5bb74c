package lattice

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

const (
	SpinsPerWord = 64

	DefaultTimeLen  = 64
	DefaultSpaceLen = 64
)

var ErrDimensions = errors.New("lattice: dimensions must be positive")

type Lattice struct {
	TimeLen  int
	SpaceLen int

	// Words holds TimeLen rows of RowWords() words each.
	Words []uint64

	rowWords int
	tailMask uint64
}

func New(timeLen, spaceLen int) (*Lattice, error) {
	if timeLen <= 0 || spaceLen <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, timeLen, spaceLen)
	}
	rowWords := (spaceLen + SpinsPerWord - 1) / SpinsPerWord
	tail := spaceLen - (rowWords-1)*SpinsPerWord
	mask := ^uint64(0)
	if tail < SpinsPerWord {
		mask = (uint64(1) << tail) - 1
	}
	return &Lattice{
		TimeLen:  timeLen,
		SpaceLen: spaceLen,
		Words:    make([]uint64, timeLen*rowWords),
		rowWords: rowWords,
		tailMask: mask,
	}, nil
}

func (l *Lattice) RowWords() int { return l.rowWords }
func (l *Lattice) Sites() int    { return l.TimeLen * l.SpaceLen }

func (l *Lattice) Clone() *Lattice {
	c := *l
	c.Words = make([]uint64, len(l.Words))
	copy(c.Words, l.Words)
	return &c
}

func (l *Lattice) CopyFrom(src *Lattice) {
	copy(l.Words, src.Words)
}

// Reset returns the lattice to the cold start.
func (l *Lattice) Reset() {
	for i := range l.Words {
		l.Words[i] = 0
	}
}

func (l *Lattice) wrap(x, t int) (int, int) {
	x %= l.SpaceLen
	if x < 0 {
		x += l.SpaceLen
	}
	t %= l.TimeLen
	if t < 0 {
		t += l.TimeLen
	}
	return x, t
}

func (l *Lattice) index(x, t int) (int, uint) {
	x, t = l.wrap(x, t)
	return t*l.rowWords + x/SpinsPerWord, uint(x % SpinsPerWord)
}

// Spin returns +1 or -1 for the site at (x, t).
func (l *Lattice) Spin(x, t int) int {
	w, b := l.index(x, t)
	return 2*int((l.Words[w]>>b)&1) - 1
}

func (l *Lattice) Set(x, t, spin int) {
	w, b := l.index(x, t)
	if spin > 0 {
		l.Words[w] |= uint64(1) << b
	} else {
		l.Words[w] &^= uint64(1) << b
	}
}

func (l *Lattice) Flip(x, t int) {
	w, b := l.index(x, t)
	l.Words[w] ^= uint64(1) << b
}

// Negate flips every spin on the lattice.
func (l *Lattice) Negate() {
	for t := 0; t < l.TimeLen; t++ {
		row := l.Words[t*l.rowWords : (t+1)*l.rowWords]
		for i := range row {
			row[i] = ^row[i]
		}
		row[l.rowWords-1] &= l.tailMask
	}
}

// Randomize fills the lattice with independent random spins.
func (l *Lattice) Randomize(rng *Xoshiro) {
	for t := 0; t < l.TimeLen; t++ {
		row := l.Words[t*l.rowWords : (t+1)*l.rowWords]
		for i := range row {
			row[i] = rng.Uint64()
		}
		row[l.rowWords-1] &= l.tailMask
	}
}

// Magnetization is the sum of all spins.
func (l *Lattice) Magnetization() int {
	up := 0
	for _, w := range l.Words {
		up += bits.OnesCount64(w)
	}
	return 2*up - l.Sites()
}

// Hamiltonian returns -j * sum(s*s') over nearest-neighbour bonds minus h * sum(s).
func (l *Lattice) Hamiltonian(j, h float64) float64 {
	var bonds int
	if l.SpaceLen%SpinsPerWord == 0 {
		bonds = l.packedBonds()
	} else {
		bonds = l.siteBonds()
	}
	return -j*float64(bonds) - h*float64(l.Magnetization())
}

// packedBonds counts aligned minus anti-aligned bonds a word at a time.
// It requires full words, i.e. SpaceLen a multiple of 64.
func (l *Lattice) packedBonds() int {
	aligned := 0
	for t := 0; t < l.TimeLen; t++ {
		row := l.Words[t*l.rowWords : (t+1)*l.rowWords]
		below := l.Words[((t+1)%l.TimeLen)*l.rowWords : ((t+1)%l.TimeLen+1)*l.rowWords]
		for i, w := range row {
			// right neighbour of bit k is bit k+1, carrying into the next word
			next := row[(i+1)%len(row)]
			right := (w >> 1) | (next << (SpinsPerWord - 1))
			aligned += bits.OnesCount64(^(w ^ right))
			aligned += bits.OnesCount64(^(w ^ below[i]))
		}
	}
	// each site owns two bonds; anti-aligned = 2N - aligned
	return 2*aligned - 2*l.Sites()
}

func (l *Lattice) siteBonds() int {
	sum := 0
	for t := 0; t < l.TimeLen; t++ {
		for x := 0; x < l.SpaceLen; x++ {
			s := l.Spin(x, t)
			sum += s * (l.Spin(x+1, t) + l.Spin(x, t+1))
		}
	}
	return sum
}

// EnergyChange is the change in the Hamiltonian if the spin at (x, t) were flipped.
func (l *Lattice) EnergyChange(j, h float64, x, t int) float64 {
	center := l.Spin(x, t)
	neighbours := l.Spin(x, t-1) + l.Spin(x, t+1) + l.Spin(x-1, t) + l.Spin(x+1, t)
	return 2 * float64(center) * (j*float64(neighbours) + h)
}

func (l *Lattice) String() string {
	var sb strings.Builder
	for t := 0; t < l.TimeLen; t++ {
		sb.WriteString("< ")
		for x := 0; x < l.SpaceLen; x++ {
			if l.Spin(x, t) > 0 {
				sb.WriteByte('+')
			} else {
				sb.WriteByte('-')
			}
			sb.WriteByte(' ')
		}
		sb.WriteString(">\n")
	}
	return sb.String()
}
