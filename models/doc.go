// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - CreatePollRequest: title, candidates
  - SubmitBallotRequest: ranks (map[string]int, candidate_id → rank)
  - TallyRequest: candidates, ballots, optional seed

# Response Types

  - CreatePollResponse: poll_id, admin_key, candidates
  - SubmitBallotResponse: ballot_id, message
  - ClosePollResponse: closed_at, ballot_count
  - TallyResponse: election_id, outcome, winner, rounds
  - ErrorResponse: error, message

# Domain Types

  - Poll: poll metadata and lifecycle state
  - Candidate: named candidate with its ballot position
  - RoundResult / CandidateTally: one IRV round as reported to clients

# Constants

	StatusOpen   = "open"
	StatusClosed = "closed"

	OutcomeElected    = "elected"
	OutcomeNoMajority = "no_majority"
*/
package models
