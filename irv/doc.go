// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package irv counts single-winner elections by Instant-Runoff Voting.

# Setup

LoadElection validates candidate names and ranked ballots and credits every
ballot to its first choice:

	election, err := irv.LoadElection(
		[]string{"Alice", "Bob"},
		[][]irv.Preference{irv.RanksToPreferences([]int{1, 2})},
	)

Invalid input (no candidates, a ballot of the wrong length, a repeated rank)
is reported as ErrInvalidInput and nothing is counted.

# Counting

An Engine counts one round at a time:

	engine := irv.NewEngine(election, irv.NewSeededTieBreaker(42))
	result, err := engine.Run(reporter)

Each round ranks the active candidates (votes descending, then name
ascending), checks for a strict majority of all ballots cast, and otherwise
picks the candidate with the fewest votes for elimination. When several
candidates share the fewest votes one of them is drawn at random from the
TieBreaker. The eliminated candidate's ballots move to each voter's next
surviving preference at the start of the following round; ballots with no
surviving preference are exhausted.

# Termination

The count ends with OutcomeElected when a candidate holds more than half of
all ballots, or with OutcomeNoMajority when at most one candidate remains,
or when every ballot is exhausted, without anyone reaching that threshold.

# Reporting

A Reporter receives a Round snapshot after every round. Snapshots are
copies and stay valid after the count moves on.

# Inspection and replay

Election.Candidates, Candidate.Ballots and Ballot.Preferences expose the
state of a count in progress. SequenceTieBreaker replays recorded tie draws
so a previous count can be reproduced exactly:

	engine := irv.NewEngine(election, &irv.SequenceTieBreaker{Choices: []int{1, 0}})
*/
package irv
