// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package irv

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// NoCandidate fills Round.Winner, Round.Eliminated and Result.Winner when
// there is no such candidate.
const NoCandidate = -1

// ErrFinished is returned by Next once the count has ended.
var ErrFinished = errors.New("count already finished")

// Outcome describes how a count ended.
type Outcome string

const (
	OutcomeElected    Outcome = "elected"
	OutcomeNoMajority Outcome = "no_majority"
)

// Standing is one active candidate's position in a round.
type Standing struct {
	ID      int
	Name    string
	Votes   int
	Percent float64
	Elected bool
}

// Round is the read-only snapshot handed to a Reporter after each round.
type Round struct {
	Number       int
	Candidates   int
	TotalBallots int
	Exhausted    int
	// Standings are ordered by votes descending, then name ascending.
	Standings []Standing
	// Losers holds every active candidate at the minimum vote count.
	Losers []int
	// TiedLosers is the size of the tied set when the elimination that
	// follows this round was drawn at random, zero otherwise.
	TiedLosers int
	Eliminated int
	Winner     int
}

// Result is the outcome of a full count.
type Result struct {
	Outcome Outcome
	Winner  int
	Rounds  []Round
}

// Eliminations lists eliminated candidates in the order they were removed.
func (r *Result) Eliminations() []int {
	var out []int
	for _, round := range r.Rounds {
		if round.Eliminated != NoCandidate {
			out = append(out, round.Eliminated)
		}
	}
	return out
}

// Reporter receives every round as soon as it is counted.
type Reporter interface {
	ReportRound(Round) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Round) error

func (f ReporterFunc) ReportRound(r Round) error {
	return f(r)
}

// Engine runs the elimination loop over one election. It is not safe for
// concurrent use and must not share its election with another engine.
type Engine struct {
	election *Election
	rng      TieBreaker

	round   int
	pending int
	rounds  []Round
	result  *Result
}

// NewEngine prepares a count. A nil TieBreaker is replaced by a time-seeded one.
func NewEngine(election *Election, rng TieBreaker) *Engine {
	if rng == nil {
		rng = NewTieBreaker()
	}
	return &Engine{
		election: election,
		rng:      rng,
		pending:  NoCandidate,
	}
}

// Run counts rounds until a winner emerges or no majority is possible,
// reporting each round to rep when it is non-nil.
func (e *Engine) Run(rep Reporter) (*Result, error) {
	for {
		round, done, err := e.Next()
		if err != nil {
			return nil, err
		}
		if rep != nil {
			if err := rep.ReportRound(round); err != nil {
				return nil, fmt.Errorf("report round %d: %w", round.Number, err)
			}
		}
		if done {
			return e.result, nil
		}
	}
}

// Next counts a single round. done is true when the round ended the count.
func (e *Engine) Next() (round Round, done bool, err error) {
	if e.result != nil {
		return Round{}, true, ErrFinished
	}

	if e.pending != NoCandidate {
		if err := e.transfer(e.pending); err != nil {
			return Round{}, false, err
		}
		e.pending = NoCandidate
	}
	e.round++

	el := e.election
	active := el.Active()
	round = Round{
		Number:       e.round,
		Candidates:   el.Len(),
		TotalBallots: el.TotalBallots,
		Exhausted:    el.Exhausted(),
		Standings:    standings(active, el.TotalBallots),
		Losers:       losers(active),
		Eliminated:   NoCandidate,
		Winner:       NoCandidate,
	}
	for _, s := range round.Standings {
		if s.Elected {
			round.Winner = s.ID
		}
	}
	e.rounds = append(e.rounds, round)

	switch {
	case round.Winner != NoCandidate:
		e.result = &Result{Outcome: OutcomeElected, Winner: round.Winner, Rounds: e.rounds}
		slog.Info("candidate elected", "round", round.Number, "candidate", el.candidates[round.Winner].Name)
		return round, true, nil
	case len(active) <= 1 || el.Exhausted() == el.TotalBallots:
		e.result = &Result{Outcome: OutcomeNoMajority, Winner: NoCandidate, Rounds: e.rounds}
		slog.Info("count ended without a majority", "round", round.Number, "exhausted", el.Exhausted())
		return round, true, nil
	}

	loser := round.Losers[0]
	if len(round.Losers) > 1 {
		loser = round.Losers[e.rng.IntN(len(round.Losers))]
		round.TiedLosers = len(round.Losers)
		slog.Debug("tie for last place drawn at random",
			"round", round.Number, "tied", len(round.Losers), "eliminated", el.candidates[loser].Name)
	}
	round.Eliminated = loser
	e.rounds[len(e.rounds)-1] = round
	e.pending = loser

	return round, false, nil
}

// transfer moves the loser's ballots to their next surviving preference,
// eliminates the loser, then strikes the loser from every other ballot so
// later transfers never land on an eliminated candidate.
func (e *Engine) transfer(loser int) error {
	el := e.election
	c, err := el.Candidate(loser)
	if err != nil {
		return err
	}

	moved, exhausted := 0, 0
	for _, b := range c.ballots {
		b.RemoveCandidate(loser)
		next := b.FirstChoice()
		if next == Exhausted {
			el.Discard(b)
			exhausted++
			continue
		}
		if err := el.Credit(next, b); err != nil {
			return fmt.Errorf("transfer from %q: %w", c.Name, err)
		}
		moved++
	}

	if err := el.Eliminate(loser); err != nil {
		return err
	}

	for _, other := range el.candidates {
		for _, b := range other.ballots {
			b.RemoveCandidate(loser)
		}
	}

	slog.Debug("candidate eliminated",
		"candidate", c.Name, "transferred", moved, "exhausted", exhausted)
	return nil
}

// standings orders active candidates by votes descending, then by name.
func standings(active []*Candidate, total int) []Standing {
	out := make([]Standing, len(active))
	for i, c := range active {
		out[i] = Standing{
			ID:      c.ID,
			Name:    c.Name,
			Votes:   c.Votes,
			Percent: percent(c.Votes, total),
			Elected: 2*c.Votes > total,
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Votes != b.Votes {
			return a.Votes > b.Votes
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return out
}

// losers returns every active candidate holding the minimum vote count,
// in ID order.
func losers(active []*Candidate) []int {
	var ids []int
	low := -1
	for _, c := range active {
		switch {
		case low == -1 || c.Votes < low:
			low = c.Votes
			ids = append(ids[:0], c.ID)
		case c.Votes == low:
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func percent(votes, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(votes) / float64(total) * 100
}
