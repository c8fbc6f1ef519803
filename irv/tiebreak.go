// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package irv

import (
	"math/rand/v2"
	"time"
)

// TieBreaker picks uniformly in [0, n). *rand.Rand satisfies it.
type TieBreaker interface {
	IntN(n int) int
}

// NewSeededTieBreaker returns a deterministic source: the same seed always
// produces the same sequence of eliminations.
func NewSeededTieBreaker(seed int64) TieBreaker {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// NewTieBreaker seeds from the clock.
func NewTieBreaker() TieBreaker {
	return NewSeededTieBreaker(time.Now().UnixNano())
}

// SequenceTieBreaker replays a fixed list of draws, wrapping each into
// [0, n). Use it to reproduce a count whose tie draws were recorded, or to
// force a particular elimination. The list repeats once exhausted; an
// empty list always draws 0.
type SequenceTieBreaker struct {
	Choices []int
	next    int
}

// IntN returns the next scripted draw reduced into [0, n).
func (s *SequenceTieBreaker) IntN(n int) int {
	if len(s.Choices) == 0 {
		return 0
	}
	v := s.Choices[s.next%len(s.Choices)]
	s.next++
	return ((v % n) + n) % n
}
