// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/runoff/cliparse"
	"github.com/danielhkuo/runoff/handlers"
	"github.com/danielhkuo/runoff/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	pollHandler := handlers.NewPollHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	tallyHandler := handlers.NewTallyHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll lifecycle
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("POST /polls/{id}/close", middleware.WithLogging(pollHandler.ClosePoll))

	// Voting
	mux.HandleFunc("POST /polls/{id}/ballots", middleware.WithLogging(votingHandler.SubmitBallot))

	// Counting (sealed until the poll closes)
	mux.HandleFunc("GET /polls/{id}/tally", middleware.WithLogging(tallyHandler.TallyPoll))
	mux.HandleFunc("POST /tallies", middleware.WithLogging(tallyHandler.Tally))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("runoff API v1"))
	})

	return mux
}
