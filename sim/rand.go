package sim

import "math/rand/v2"

// RandSource is the randomness a simulation consumes. *rand.Rand from
// math/rand/v2 satisfies it.
type RandSource interface {
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a PCG backed source. Distinct stream values give
// independent sequences for the same seed.
func NewRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}
