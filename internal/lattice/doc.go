// Package lattice implements a bit-packed two-dimensional Ising lattice.
//
// The lattice has a time and a space dimension with periodic boundaries:
//
//	      space
//	     *------>
//	time | 0, 1
//	     | 2, 3
//	     v
//
// Each time slice is stored as ceil(SpaceLen/64) uint64 words, one bit per
// spin. A set bit is spin +1, a clear bit is spin -1, so the zero lattice is
// the ordered "cold" start and [Lattice.Randomize] gives the "hot" start.
//
// # Example
//
//	rng := lattice.NewXoshiro(42)
//	l, _ := lattice.New(64, 64)
//	l.Randomize(rng)
//	e := l.Hamiltonian(1.0, 0)
//	e = l.Metropolis(rng, e, 1.0, 0, 0.44, l.Sites())
package lattice
