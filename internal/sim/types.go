package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/isingviz/internal/lattice"
)

var ErrParams = errors.New("sim: invalid parameters")

// Params describes the lattice and the Boltzmann weight exp(-beta H).
type Params struct {
	J        float64
	H        float64
	Beta     float64
	TimeLen  int
	SpaceLen int
	Seed     uint64
}

func (p Params) Validate() error {
	if p.TimeLen <= 0 || p.SpaceLen <= 0 {
		return fmt.Errorf("%w: lattice %dx%d", ErrParams, p.TimeLen, p.SpaceLen)
	}
	if p.Beta < 0 {
		return fmt.Errorf("%w: beta %g", ErrParams, p.Beta)
	}
	return nil
}

func (p Params) newLattice() (*lattice.Lattice, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return lattice.New(p.TimeLen, p.SpaceLen)
}

// Trajectories holds the energy per site before each sweep.
type Trajectories struct {
	Cold []float64
	Hot  []float64
}

type Final struct {
	Cold float64
	Hot  float64
}
