package lattice

import "math/bits"

// Xoshiro is the reference xoshiro256** generator. It satisfies
// math/rand/v2.Source.
type Xoshiro struct {
	s [4]uint64
}

// NewXoshiro seeds the generator state from seed with splitmix64.
func NewXoshiro(seed uint64) *Xoshiro {
	var x Xoshiro
	x.Seed(seed)
	return &x
}

func (x *Xoshiro) Seed(seed uint64) {
	for i := range x.s {
		seed += 0x9e3779b97f4a7c15
		z := seed
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		x.s[i] = z ^ (z >> 31)
	}
}

func (x *Xoshiro) Uint64() uint64 {
	s := &x.s
	result := bits.RotateLeft64(s[1]*5, 7) * 9
	t := s[1] << 17

	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]

	s[2] ^= t
	s[3] = bits.RotateLeft64(s[3], 45)

	return result
}

// Intn returns a uniform integer in [0, n). It panics if n <= 0.
func (x *Xoshiro) Intn(n int) int {
	if n <= 0 {
		panic("lattice: Intn with non-positive bound")
	}
	m := uint64(n)
	limit := ^uint64(0) - (^uint64(0)%m+1)%m
	r := x.Uint64()
	for r > limit {
		r = x.Uint64()
	}
	return int(r % m)
}

// Float64 returns a uniform float in [0, 1) with 53 bits of precision.
func (x *Xoshiro) Float64() float64 {
	return float64(x.Uint64()>>11) * 0x1.0p-53
}
