// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/runoff/auth"
	"github.com/danielhkuo/runoff/cliparse"
	"github.com/danielhkuo/runoff/middleware"
	"github.com/danielhkuo/runoff/models"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// SubmitBallot handles POST /polls/{id}/ballots
// Every candidate must be ranked exactly once with a distinct rank >= 1.
func (h *VotingHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	var req models.SubmitBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var status string
	err := h.db.QueryRowContext(r.Context(), "SELECT status FROM poll WHERE id = $1", pollID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Poll is not open for voting")
		return
	}

	candidateIDs, err := h.candidateIDs(r, pollID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if err := validateRanks(req.Ranks, candidateIDs); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ballotID := auth.NewID()

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	err = lockOpenPoll(r.Context(), tx, pollID)
	if errors.Is(err, errPollClosed) {
		middleware.ErrorResponse(w, http.StatusConflict, "Poll is not open for voting")
		return
	}
	if err != nil {
		slog.Error("failed to lock poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	_, err = tx.ExecContext(r.Context(), `
		INSERT INTO ballot (id, poll_id, submitted_at)
		VALUES ($1, $2, $3)
	`, ballotID, pollID, time.Now().UTC())
	if err != nil {
		slog.Error("failed to insert ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
		return
	}

	for _, candidateID := range candidateIDs {
		_, err = tx.ExecContext(r.Context(), `
			INSERT INTO ranking (ballot_id, candidate_id, preference)
			VALUES ($1, $2, $3)
		`, ballotID, candidateID, req.Ranks[candidateID])
		if err != nil {
			slog.Error("failed to insert ranking", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
		return
	}

	slog.Info("ballot submitted", "poll_id", pollID, "ballot_id", ballotID)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitBallotResponse{
		BallotID: ballotID,
		Message:  "Ballot recorded",
	})
}

// errPollClosed means the poll closed after the ballot was validated
var errPollClosed = errors.New("poll is not open")

// lockOpenPoll write-locks the poll row for the rest of tx and fails with
// errPollClosed unless the poll is open. A concurrent close waits for tx to
// finish, so a ballot committed here is always counted.
func lockOpenPoll(ctx context.Context, tx *sql.Tx, pollID string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE poll SET status = status
		WHERE id = $1 AND status = $2
	`, pollID, models.StatusOpen)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errPollClosed
	}
	return nil
}

func (h *VotingHandler) candidateIDs(r *http.Request, pollID string) ([]string, error) {
	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id FROM candidate WHERE poll_id = $1 ORDER BY position
	`, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// validateRanks checks that ranks covers exactly the poll's candidates
// with distinct positive ranks
func validateRanks(ranks map[string]int, candidateIDs []string) error {
	if len(ranks) != len(candidateIDs) {
		return fmt.Errorf("ballot must rank all %d candidates", len(candidateIDs))
	}
	used := make(map[int]string, len(ranks))
	for _, id := range candidateIDs {
		rank, ok := ranks[id]
		if !ok {
			return fmt.Errorf("candidate %s is not ranked", id)
		}
		if rank < 1 {
			return fmt.Errorf("rank for candidate %s must be at least 1", id)
		}
		if other, dup := used[rank]; dup {
			return fmt.Errorf("candidates %s and %s share rank %d", other, id, rank)
		}
		used[rank] = id
	}
	return nil
}
