package lattice

import "math"

// Metropolis performs n single-spin Metropolis updates at uniformly random
// sites and returns the energy after the updates, tracked from energy.
func (l *Lattice) Metropolis(rng *Xoshiro, energy, j, h, beta float64, n int) float64 {
	for i := 0; i < n; i++ {
		x := rng.Intn(l.SpaceLen)
		t := rng.Intn(l.TimeLen)

		delta := l.EnergyChange(j, h, x, t)
		if delta <= 0 || rng.Float64() <= math.Exp(-beta*delta) {
			l.Flip(x, t)
			energy += delta
		}
	}
	return energy
}

// Sweep performs one Metropolis update per site on average.
func (l *Lattice) Sweep(rng *Xoshiro, energy, j, h, beta float64) float64 {
	return l.Metropolis(rng, energy, j, h, beta, l.Sites())
}
