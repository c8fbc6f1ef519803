// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/runoff/ballotfile"
)

// ErrPollNotFound is returned when no poll has the requested ID.
var ErrPollNotFound = errors.New("poll not found")

// LoadPoll reads a poll's candidates (by position) and ballots (in
// submission order) as an election input. A candidate a ballot does not
// rank gets rank 0, which the counting engine rejects.
func LoadPoll(ctx context.Context, db *sql.DB, pollID string) (*ballotfile.Input, error) {
	var title string
	err := db.QueryRowContext(ctx, `SELECT title FROM poll WHERE id = $1`, pollID).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPollNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query poll: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, name FROM candidate
		WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	in := &ballotfile.Input{}
	index := make(map[string]int)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		index[id] = len(in.Candidates)
		in.Candidates = append(in.Candidates, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rankRows, err := db.QueryContext(ctx, `
		SELECT r.ballot_id, r.candidate_id, r.preference
		FROM ranking r
		JOIN ballot b ON r.ballot_id = b.id
		WHERE b.poll_id = $1
		ORDER BY b.submitted_at, b.id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer rankRows.Close()

	byBallot := make(map[string]int)
	for rankRows.Next() {
		var ballotID, candidateID string
		var preference int
		if err := rankRows.Scan(&ballotID, &candidateID, &preference); err != nil {
			return nil, fmt.Errorf("failed to scan ranking: %w", err)
		}
		c, ok := index[candidateID]
		if !ok {
			return nil, fmt.Errorf("ballot %s ranks unknown candidate %s", ballotID, candidateID)
		}
		i, seen := byBallot[ballotID]
		if !seen {
			i = len(in.Ballots)
			byBallot[ballotID] = i
			in.Ballots = append(in.Ballots, make([]int, len(in.Candidates)))
		}
		in.Ballots[i][c] = preference
	}

	return in, rankRows.Err()
}

// CountBallots returns how many ballots a poll has received.
func CountBallots(ctx context.Context, db *sql.DB, pollID string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ballot WHERE poll_id = $1`, pollID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ballots: %w", err)
	}
	return count, nil
}
