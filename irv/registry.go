// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package irv

import "fmt"

// Candidate is a contestant and the ballots currently counting for them.
// ID is the candidate's input index and never changes.
type Candidate struct {
	ID         int
	Name       string
	Votes      int
	Eliminated bool

	ballots []*Ballot
}

// Registry holds every candidate of an election, eliminated or not.
type Registry struct {
	candidates []*Candidate
	exhausted  int
}

// NewRegistry creates one candidate per name, in order.
func NewRegistry(names []string) *Registry {
	r := &Registry{candidates: make([]*Candidate, len(names))}
	for i, name := range names {
		r.candidates[i] = &Candidate{ID: i, Name: name}
	}
	return r
}

// Len returns the number of candidates, including eliminated ones.
func (r *Registry) Len() int {
	return len(r.candidates)
}

// Candidate looks up a candidate by ID.
func (r *Registry) Candidate(id int) (*Candidate, error) {
	if id < 0 || id >= len(r.candidates) {
		return nil, fmt.Errorf("%w: unknown candidate %d", ErrInvalidInput, id)
	}
	return r.candidates[id], nil
}

// Candidates returns all candidates in ID order, eliminated ones included.
// The slice is a copy; the candidates themselves are shared with the count.
func (r *Registry) Candidates() []*Candidate {
	out := make([]*Candidate, len(r.candidates))
	copy(out, r.candidates)
	return out
}

// Active returns the candidates still in the count, in ID order.
func (r *Registry) Active() []*Candidate {
	var out []*Candidate
	for _, c := range r.candidates {
		if !c.Eliminated {
			out = append(out, c)
		}
	}
	return out
}

// Credit counts the ballot for the candidate.
func (r *Registry) Credit(id int, b *Ballot) error {
	c, err := r.Candidate(id)
	if err != nil {
		return err
	}
	if c.Eliminated {
		return fmt.Errorf("cannot credit eliminated candidate %q", c.Name)
	}
	c.ballots = append(c.ballots, b)
	c.Votes++
	return nil
}

// Discard records a ballot that no longer counts for anyone.
func (r *Registry) Discard(*Ballot) {
	r.exhausted++
}

// Exhausted returns how many ballots have been discarded.
func (r *Registry) Exhausted() int {
	return r.exhausted
}

// Eliminate removes the candidate from the count. The caller moves the
// candidate's ballots elsewhere first.
func (r *Registry) Eliminate(id int) error {
	c, err := r.Candidate(id)
	if err != nil {
		return err
	}
	c.Eliminated = true
	c.Votes = 0
	c.ballots = nil
	return nil
}

// Ballots returns the ballots credited to the candidate.
func (c *Candidate) Ballots() []*Ballot {
	out := make([]*Ballot, len(c.ballots))
	copy(out, c.ballots)
	return out
}
