package models

import "time"

// Poll status constants
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Tally outcome constants
const (
	OutcomeElected    = "elected"
	OutcomeNoMajority = "no_majority"
)

// Request types

type CreatePollRequest struct {
	Title      string   `json:"title"`
	Candidates []string `json:"candidates"`
}

// candidate_id -> rank (1 = most preferred)
type SubmitBallotRequest struct {
	Ranks map[string]int `json:"ranks"`
}

// TallyRequest counts an ad-hoc election without storing it.
// Ballots[v][c] is the rank voter v gave candidate c.
type TallyRequest struct {
	Candidates []string `json:"candidates"`
	Ballots    [][]int  `json:"ballots"`
	Seed       *int64   `json:"seed,omitempty"`
}

// Response types

type CreatePollResponse struct {
	PollID     string      `json:"poll_id"`
	AdminKey   string      `json:"admin_key"`
	Candidates []Candidate `json:"candidates"`
}

type SubmitBallotResponse struct {
	BallotID string `json:"ballot_id"`
	Message  string `json:"message"`
}

type ClosePollResponse struct {
	ClosedAt    time.Time `json:"closed_at"`
	BallotCount int       `json:"ballot_count"`
}

// Domain types

type Poll struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type Candidate struct {
	ID       string `json:"id"`
	PollID   string `json:"poll_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type PollWithCandidates struct {
	Poll        Poll        `json:"poll"`
	Candidates  []Candidate `json:"candidates"`
	BallotCount int         `json:"ballot_count"`
}

// IRV Result Types

type CandidateTally struct {
	Name    string  `json:"name"`
	Votes   int     `json:"votes"`
	Percent float64 `json:"percent"`
	Elected bool    `json:"elected"`
}

type RoundResult struct {
	Round      int              `json:"round"`
	Candidates []CandidateTally `json:"candidates"`
	Exhausted  int              `json:"exhausted"`
	TiedLosers int              `json:"tied_losers,omitempty"`
	Eliminated string           `json:"eliminated,omitempty"`
}

type TallyResponse struct {
	ElectionID     string        `json:"election_id"`
	CandidateCount int           `json:"candidate_count"`
	BallotCount    int           `json:"ballot_count"`
	Outcome        string        `json:"outcome"`
	Winner         string        `json:"winner,omitempty"`
	Rounds         []RoundResult `json:"rounds"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
