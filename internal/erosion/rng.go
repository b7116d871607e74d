package erosion

import "math/rand/v2"

// NewSource returns a deterministic PCG generator for the initializer.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}
