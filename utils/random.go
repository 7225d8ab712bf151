package utils

import (
	"math/rand"
	"time"
)

// NewSeededRand returns a rand.Rand seeded from the wall clock. Question
// generation takes one of these so tests can swap in a fixed seed.
func NewSeededRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
