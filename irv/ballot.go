// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package irv

import (
	"fmt"
	"sort"
)

// Exhausted is returned by FirstChoice when no ranked candidate remains.
const Exhausted = -1

// Preference is one entry of a ballot: the rank a voter gave a candidate.
// Rank 1 is the most preferred.
type Preference struct {
	Candidate int `json:"candidate" yaml:"candidate"`
	Rank      int `json:"rank" yaml:"rank"`
}

// Ballot holds one voter's surviving preferences, sorted by ascending rank.
type Ballot struct {
	prefs []Preference
}

// NewBallot builds a ballot from unordered preferences.
func NewBallot(prefs []Preference) (*Ballot, error) {
	b := &Ballot{prefs: make([]Preference, 0, len(prefs))}
	for _, p := range prefs {
		if err := b.InsertRanking(p.Candidate, p.Rank); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// InsertRanking adds a candidate at the given rank, keeping rank order.
func (b *Ballot) InsertRanking(candidate, rank int) error {
	if rank < 1 {
		return fmt.Errorf("%w: rank %d for candidate %d must be at least 1", ErrInvalidInput, rank, candidate)
	}
	for _, p := range b.prefs {
		if p.Rank == rank {
			return fmt.Errorf("%w: rank %d used twice on one ballot", ErrInvalidInput, rank)
		}
		if p.Candidate == candidate {
			return fmt.Errorf("%w: candidate %d ranked twice on one ballot", ErrInvalidInput, candidate)
		}
	}

	i := sort.Search(len(b.prefs), func(i int) bool { return b.prefs[i].Rank > rank })
	b.prefs = append(b.prefs, Preference{})
	copy(b.prefs[i+1:], b.prefs[i:])
	b.prefs[i] = Preference{Candidate: candidate, Rank: rank}
	return nil
}

// RemoveCandidate drops the candidate's entry. No-op when it is absent.
func (b *Ballot) RemoveCandidate(candidate int) {
	for i, p := range b.prefs {
		if p.Candidate == candidate {
			b.prefs = append(b.prefs[:i], b.prefs[i+1:]...)
			return
		}
	}
}

// FirstChoice returns the most preferred remaining candidate, or Exhausted.
func (b *Ballot) FirstChoice() int {
	if len(b.prefs) == 0 {
		return Exhausted
	}
	return b.prefs[0].Candidate
}

// Len reports how many preferences remain. A ballot with Len 0 is exhausted.
func (b *Ballot) Len() int {
	return len(b.prefs)
}

// Preferences returns a copy of the remaining preferences in rank order.
// Callers may modify the result without affecting the count.
func (b *Ballot) Preferences() []Preference {
	out := make([]Preference, len(b.prefs))
	copy(out, b.prefs)
	return out
}
