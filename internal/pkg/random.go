package pkg

import (
	"math/rand"
	"time"
)

// Source - the only non-deterministic input of the engines.
// *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// NewSource - returns a Source seeded with seed, so identical seeds replay identical puzzles.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed)) //nolint: gosec // puzzle generation, not crypto
}

// NewTimeSource - returns a Source seeded from the wall clock.
func NewTimeSource() Source {
	return NewSource(time.Now().UnixNano())
}
