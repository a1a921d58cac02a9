package glitch

import (
	"math/rand/v2"
	"time"
)

// RandomSource supplies the uniform draws used by slice corruption and the
// frame ID. *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	// IntN returns a uniform int in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// NewRandom returns a deterministic generator for seed.
func NewRandom(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// NewSeed returns a fresh non-zero seed derived from the clock.
func NewSeed() uint64 {
	for {
		if s := rand.Uint64() ^ uint64(time.Now().UnixNano()); s != 0 {
			return s
		}
	}
}
