// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/runoff/auth"
	"github.com/danielhkuo/runoff/models"
	"github.com/danielhkuo/runoff/testutil"
)

func TestCreatePoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewPollHandler(db, cfg)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.CreatePollResponse)
	}{
		{
			name: "valid poll creation",
			requestBody: models.CreatePollRequest{
				Title:      "Board election",
				Candidates: []string{"Alice", " Bob ", "Carol"},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.CreatePollResponse) {
				if resp.PollID == "" {
					t.Error("Expected non-empty poll_id")
				}
				if err := auth.CheckAdminKey(resp.PollID, resp.AdminKey, cfg.AdminKeySalt); err != nil {
					t.Errorf("Admin key does not verify: %v", err)
				}

				if len(resp.Candidates) != 3 {
					t.Fatalf("Expected 3 candidates, got %d", len(resp.Candidates))
				}
				for i, c := range resp.Candidates {
					if c.Position != i {
						t.Errorf("Candidate %d has position %d", i, c.Position)
					}
				}
				if resp.Candidates[1].Name != "Bob" {
					t.Errorf("Expected trimmed name 'Bob', got '%s'", resp.Candidates[1].Name)
				}

				var status string
				err := db.QueryRow("SELECT status FROM poll WHERE id = $1", resp.PollID).Scan(&status)
				if err != nil {
					t.Fatalf("Failed to query poll: %v", err)
				}
				if status != models.StatusOpen {
					t.Errorf("Expected status 'open', got '%s'", status)
				}
			},
		},
		{
			name:           "missing title",
			requestBody:    models.CreatePollRequest{Candidates: []string{"A", "B"}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "single candidate",
			requestBody:    models.CreatePollRequest{Title: "Solo", Candidates: []string{"A"}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "blank candidate name",
			requestBody:    models.CreatePollRequest{Title: "Blank", Candidates: []string{"A", "  "}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    nil,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/polls", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.CreatePoll(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated && tt.checkResponse != nil {
				var resp models.CreatePollResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestGetPoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewPollHandler(db, testutil.GetTestConfig())

	pollID, _, ids := testutil.CreateTestPoll(t, db, models.StatusOpen, "Alice", "Bob")
	testutil.SubmitTestBallot(t, db, pollID, ids, 1, 2)

	t.Run("existing poll", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/polls/"+pollID, nil)
		req.SetPathValue("id", pollID)
		w := httptest.NewRecorder()

		handler.GetPoll(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.PollWithCandidates
		testutil.AssertJSON(t, w, &resp)
		if resp.Poll.Status != models.StatusOpen {
			t.Errorf("Expected status 'open', got '%s'", resp.Poll.Status)
		}
		if resp.Poll.ClosedAt != nil {
			t.Error("Expected no closed_at on an open poll")
		}
		if len(resp.Candidates) != 2 || resp.Candidates[0].Name != "Alice" || resp.Candidates[1].Name != "Bob" {
			t.Errorf("Unexpected candidates: %+v", resp.Candidates)
		}
		if resp.BallotCount != 1 {
			t.Errorf("Expected 1 ballot, got %d", resp.BallotCount)
		}
	})

	t.Run("poll not found", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/polls/missing", nil)
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()

		handler.GetPoll(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestClosePoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewPollHandler(db, cfg)

	pollID, adminKey, ids := testutil.CreateTestPoll(t, db, models.StatusOpen, "A", "B")
	testutil.SubmitTestBallot(t, db, pollID, ids, 1, 2)
	testutil.SubmitTestBallot(t, db, pollID, ids, 2, 1)

	tests := []struct {
		name           string
		pollID         string
		adminKey       string
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.ClosePollResponse)
	}{
		{
			name:           "missing admin key",
			pollID:         pollID,
			adminKey:       "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid admin key",
			pollID:         pollID,
			adminKey:       "invalid-key",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "poll not found",
			pollID:         "nonexistent",
			adminKey:       auth.AdminKey("nonexistent", cfg.AdminKeySalt),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "valid close",
			pollID:         pollID,
			adminKey:       adminKey,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *models.ClosePollResponse) {
				if resp.ClosedAt.IsZero() {
					t.Error("Expected non-zero closed_at timestamp")
				}
				if resp.BallotCount != 2 {
					t.Errorf("Expected 2 ballots, got %d", resp.BallotCount)
				}

				var status string
				var closedAt sql.NullTime
				err := db.QueryRow("SELECT status, closed_at FROM poll WHERE id = $1", pollID).Scan(&status, &closedAt)
				if err != nil {
					t.Fatalf("Failed to query poll: %v", err)
				}
				if status != models.StatusClosed {
					t.Errorf("Expected status 'closed', got '%s'", status)
				}
				if !closedAt.Valid {
					t.Error("Expected closed_at to be set")
				}
			},
		},
		{
			name:           "already closed",
			pollID:         pollID,
			adminKey:       adminKey,
			expectedStatus: http.StatusConflict,
		},
	}

	// Cases run in order: the valid close precedes the repeat
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/polls/"+tt.pollID+"/close", nil)
			req.SetPathValue("id", tt.pollID)
			if tt.adminKey != "" {
				req.Header.Set("X-Admin-Key", tt.adminKey)
			}
			w := httptest.NewRecorder()

			handler.ClosePoll(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK && tt.checkResponse != nil {
				var resp models.ClosePollResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}
