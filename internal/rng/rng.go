// Package rng provides the random source shared by the game systems.
package rng

import (
	"math/rand"
	"time"
)

// Source is the subset of *rand.Rand the game draws from.
// Production code passes a seeded *rand.Rand; tests may pass a Scripted source.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// New returns a seeded generator. A seed of 0 means a time-based seed.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// IntRange returns a uniform integer in [lo, hi] inclusive.
func IntRange(src Source, lo, hi int) int {
	if lo >= hi {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Chance reports whether a roll falls under probability p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Scripted replays fixed values, for forcing outcomes in tests.
// When a queue runs dry it falls back to Fallback (or 0 / 0.0 if nil).
type Scripted struct {
	Ints     []int
	Floats   []float64
	Fallback Source
}

// Intn returns the next scripted int, reduced modulo n.
func (s *Scripted) Intn(n int) int {
	if len(s.Ints) == 0 {
		if s.Fallback != nil {
			return s.Fallback.Intn(n)
		}
		return 0
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	if n <= 0 {
		return 0
	}
	return ((v % n) + n) % n
}

// Float64 returns the next scripted float.
func (s *Scripted) Float64() float64 {
	if len(s.Floats) == 0 {
		if s.Fallback != nil {
			return s.Fallback.Float64()
		}
		return 0
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}
