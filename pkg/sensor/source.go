// Package sensor turns player-to-ghost distance and bearing into the readings
// shown by the hunting tools. Every function is pure apart from draws taken
// from the Source it is handed.
package sensor

import (
	"math/rand"
	"sync"
)

// Source is the random source used by the non-deterministic tools.
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// NewSource returns a seeded, single-goroutine source.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- game only
}

// LockedSource is a Source safe for concurrent use.
type LockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewLockedSource(seed int64) *LockedSource {
	return &LockedSource{rng: NewSource(seed)}
}

func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *LockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
