// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package irv

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks candidate lists or ballots the engine refuses to count.
var ErrInvalidInput = errors.New("invalid input")

// Election is the counted state: candidates, their ballots and the fixed
// number of ballots cast.
type Election struct {
	*Registry
	TotalBallots int
}

// LoadElection validates the input and credits every ballot to its first
// choice. Each ballot must rank every candidate exactly once.
func LoadElection(names []string, ballots [][]Preference) (*Election, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: at least one candidate is required", ErrInvalidInput)
	}

	e := &Election{Registry: NewRegistry(names)}
	for i, prefs := range ballots {
		if len(prefs) != len(names) {
			return nil, fmt.Errorf("%w: ballot %d ranks %d candidates, want %d",
				ErrInvalidInput, i+1, len(prefs), len(names))
		}
		for _, p := range prefs {
			if p.Candidate < 0 || p.Candidate >= len(names) {
				return nil, fmt.Errorf("%w: ballot %d references candidate %d", ErrInvalidInput, i+1, p.Candidate)
			}
		}

		b, err := NewBallot(prefs)
		if err != nil {
			return nil, fmt.Errorf("ballot %d: %w", i+1, err)
		}
		if err := e.add(b); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// add counts a new ballot for its current first choice.
func (e *Election) add(b *Ballot) error {
	e.TotalBallots++
	first := b.FirstChoice()
	if first == Exhausted {
		e.Discard(b)
		return nil
	}
	return e.Credit(first, b)
}

// RanksToPreferences converts a row of ranks in candidate order into
// preferences. ranks[c] is the rank the voter gave candidate c.
func RanksToPreferences(ranks []int) []Preference {
	prefs := make([]Preference, len(ranks))
	for c, rank := range ranks {
		prefs[c] = Preference{Candidate: c, Rank: rank}
	}
	return prefs
}
