// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the runoff API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - PollHandler: Poll lifecycle (create, inspect, close)
  - VotingHandler: Ranked ballot submission
  - TallyHandler: Instant-runoff counts of closed polls and ad-hoc elections

	pollHandler := handlers.NewPollHandler(db, cfg)

# Poll Lifecycle

Polls are created open and move once to closed:

	POST /polls            → CreatePoll (returns admin_key and candidate IDs)
	GET  /polls/{id}       → GetPoll
	POST /polls/{id}/close → ClosePoll (requires X-Admin-Key)

# Voting

	POST /polls/{id}/ballots → SubmitBallot

A ballot maps every candidate ID to a distinct rank of at least 1; lower
ranks are preferred. Ranks need not be contiguous.

# Counting

	GET  /polls/{id}/tally?seed=N → TallyPoll (403 until closed)
	POST /tallies                 → Tally

Counts are computed on demand by package irv and never stored. Without a
seed, ties for last place are broken with a time-seeded generator.
*/
package handlers
