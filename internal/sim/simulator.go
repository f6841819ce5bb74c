package sim

import (
	"context"

	"github.com/san-kum/isingviz/internal/lattice"
)

// HotCold evolves a cold (ordered) and a hot (random) lattice side by side
// with one generator, recording the energy per site of each before every
// sweep. The final total energies are returned with the trajectories.
func HotCold(ctx context.Context, p Params, iterations int) (*Trajectories, Final, error) {
	cold, err := p.newLattice()
	if err != nil {
		return nil, Final{}, err
	}
	hot := cold.Clone()

	rng := lattice.NewXoshiro(p.Seed)
	hot.Randomize(rng)

	sites := float64(hot.Sites())
	hotE := hot.Hamiltonian(p.J, p.H)
	coldE := cold.Hamiltonian(p.J, p.H)

	tr := &Trajectories{
		Cold: make([]float64, 0, iterations),
		Hot:  make([]float64, 0, iterations),
	}
	for i := 0; i < iterations; i++ {
		select {
		case <-ctx.Done():
			return tr, Final{Cold: coldE, Hot: hotE}, ctx.Err()
		default:
		}

		tr.Hot = append(tr.Hot, hotE/sites)
		hotE = hot.Sweep(rng, hotE, p.J, p.H, p.Beta)
		tr.Cold = append(tr.Cold, coldE/sites)
		coldE = cold.Sweep(rng, coldE, p.J, p.H, p.Beta)
	}
	return tr, Final{Cold: coldE, Hot: hotE}, nil
}
