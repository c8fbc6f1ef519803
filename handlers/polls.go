// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/runoff/auth"
	"github.com/danielhkuo/runoff/cliparse"
	"github.com/danielhkuo/runoff/db"
	"github.com/danielhkuo/runoff/middleware"
	"github.com/danielhkuo/runoff/models"
)

type PollHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPollHandler(db *sql.DB, cfg cliparse.Config) *PollHandler {
	return &PollHandler{db: db, cfg: cfg}
}

// CreatePoll handles POST /polls
// The poll opens for ballots immediately.
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(req.Candidates) < 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least two candidates are required")
		return
	}
	for i, name := range req.Candidates {
		req.Candidates[i] = strings.TrimSpace(name)
		if req.Candidates[i] == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "candidate names must not be empty")
			return
		}
	}

	pollID := auth.NewID()
	adminKey := auth.AdminKey(pollID, h.cfg.AdminKeySalt)
	now := time.Now().UTC()

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(r.Context(), `
		INSERT INTO poll (id, title, status, created_at)
		VALUES ($1, $2, $3, $4)
	`, pollID, req.Title, models.StatusOpen, now)
	if err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	candidates := make([]models.Candidate, 0, len(req.Candidates))
	for i, name := range req.Candidates {
		c := models.Candidate{ID: auth.NewID(), PollID: pollID, Name: name, Position: i}
		_, err = tx.ExecContext(r.Context(), `
			INSERT INTO candidate (id, poll_id, name, position)
			VALUES ($1, $2, $3, $4)
		`, c.ID, c.PollID, c.Name, c.Position)
		if err != nil {
			slog.Error("failed to insert candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
			return
		}
		candidates = append(candidates, c)
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID, "candidates", len(candidates))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:     pollID,
		AdminKey:   adminKey,
		Candidates: candidates,
	})
}

// GetPoll handles GET /polls/{id}
// Returns the poll, its candidates in ballot order and the ballot count.
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	var poll models.Poll
	err := h.db.QueryRowContext(r.Context(), `
		SELECT id, title, status, closed_at, created_at
		FROM poll
		WHERE id = $1
	`, pollID).Scan(&poll.ID, &poll.Title, &poll.Status, &poll.ClosedAt, &poll.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, poll_id, name, position
		FROM candidate
		WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.PollID, &c.Name, &c.Position); err != nil {
			slog.Error("failed to scan candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	count, err := db.CountBallots(r.Context(), h.db, pollID)
	if err != nil {
		slog.Error("failed to count ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollWithCandidates{
		Poll:        poll,
		Candidates:  candidates,
		BallotCount: count,
	})
}

// ClosePoll handles POST /polls/{id}/close
// Requires the X-Admin-Key header. Closing stops ballot submission and
// unseals the tally.
func (h *PollHandler) ClosePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.CheckAdminKey(pollID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
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
		middleware.ErrorResponse(w, http.StatusConflict, "Poll is not open")
		return
	}

	closedAt := time.Now().UTC()
	res, err := h.db.ExecContext(r.Context(), `
		UPDATE poll
		SET status = $1, closed_at = $2
		WHERE id = $3 AND status = $4
	`, models.StatusClosed, closedAt, pollID, models.StatusOpen)
	if err != nil {
		slog.Error("failed to close poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close poll")
		return
	}
	// Lost a race with another close
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Poll is not open")
		return
	}

	count, err := db.CountBallots(r.Context(), h.db, pollID)
	if err != nil {
		slog.Error("failed to count ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("poll closed", "poll_id", pollID, "ballots", count)

	middleware.JSONResponse(w, http.StatusOK, models.ClosePollResponse{
		ClosedAt:    closedAt,
		BallotCount: count,
	})
}
