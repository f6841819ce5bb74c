package sim

import (
	"sync"

	"github.com/san-kum/isingviz/internal/lattice"
)

// LatticePool recycles lattices of one size between ensemble samples.
type LatticePool struct {
	pool     sync.Pool
	timeLen  int
	spaceLen int
}

func NewLatticePool(timeLen, spaceLen int) *LatticePool {
	p := &LatticePool{timeLen: timeLen, spaceLen: spaceLen}
	p.pool.New = func() any {
		l, err := lattice.New(timeLen, spaceLen)
		if err != nil {
			return nil
		}
		return l
	}
	return p
}

// Get returns a cold lattice, or nil when the dimensions are invalid.
func (p *LatticePool) Get() *lattice.Lattice {
	l, _ := p.pool.Get().(*lattice.Lattice)
	return l
}

func (p *LatticePool) Put(l *lattice.Lattice) {
	if l == nil || l.TimeLen != p.timeLen || l.SpaceLen != p.spaceLen {
		return
	}
	l.Reset()
	p.pool.Put(l)
}
