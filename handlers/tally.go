// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/runoff/auth"
	"github.com/danielhkuo/runoff/ballotfile"
	"github.com/danielhkuo/runoff/cliparse"
	"github.com/danielhkuo/runoff/db"
	"github.com/danielhkuo/runoff/irv"
	"github.com/danielhkuo/runoff/middleware"
	"github.com/danielhkuo/runoff/models"
	"github.com/danielhkuo/runoff/report"
)

type TallyHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewTallyHandler(db *sql.DB, cfg cliparse.Config) *TallyHandler {
	return &TallyHandler{db: db, cfg: cfg}
}

// TallyPoll handles GET /polls/{id}/tally
// Returns 403 while the poll is open. The optional seed query parameter
// makes random tie-breaks reproducible.
func (h *TallyHandler) TallyPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	rng, err := seedParam(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "seed must be an integer")
		return
	}

	var status string
	err = h.db.QueryRowContext(r.Context(), "SELECT status FROM poll WHERE id = $1", pollID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Results are sealed while the poll is open
	if status != models.StatusClosed {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results are hidden until poll is closed")
		return
	}

	in, err := db.LoadPoll(r.Context(), h.db, pollID)
	if errors.Is(err, db.ErrPollNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to load poll", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp, err := count(pollID, in, rng)
	if err != nil {
		// Stored ballots were validated on submission
		slog.Error("failed to count poll", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to count ballots")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Tally handles POST /tallies
// Counts the election in the request body without storing anything.
func (h *TallyHandler) Tally(w http.ResponseWriter, r *http.Request) {
	var req models.TallyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var rng irv.TieBreaker
	if req.Seed != nil {
		rng = irv.NewSeededTieBreaker(*req.Seed)
	}

	in := &ballotfile.Input{Candidates: req.Candidates, Ballots: req.Ballots}
	resp, err := count(auth.NewID(), in, rng)
	if errors.Is(err, irv.ErrInvalidInput) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to count election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to count ballots")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

func count(electionID string, in *ballotfile.Input, rng irv.TieBreaker) (models.TallyResponse, error) {
	election, err := in.Election()
	if err != nil {
		return models.TallyResponse{}, err
	}
	res, err := irv.NewEngine(election, rng).Run(nil)
	if err != nil {
		return models.TallyResponse{}, err
	}

	slog.Info("election counted",
		"election_id", electionID,
		"candidates", len(in.Candidates),
		"ballots", len(in.Ballots),
		"rounds", len(res.Rounds),
		"outcome", res.Outcome,
	)
	return report.Response(electionID, in.Candidates, res), nil
}

// seedParam returns a seeded tie-breaker when ?seed= is present, nil otherwise
func seedParam(r *http.Request) (irv.TieBreaker, error) {
	s := r.URL.Query().Get("seed")
	if s == "" {
		return nil, nil
	}
	seed, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return irv.NewSeededTieBreaker(seed), nil
}
