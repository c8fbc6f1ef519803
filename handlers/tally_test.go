// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/danielhkuo/runoff/models"
	"github.com/danielhkuo/runoff/testutil"
)

func tallyPoll(handler *TallyHandler, pollID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/polls/"+pollID+"/tally"+query, nil)
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()
	handler.TallyPoll(w, req)
	return w
}

func TestTallyPoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewTallyHandler(db, testutil.GetTestConfig())

	pollID, _, ids := testutil.CreateTestPoll(t, db, models.StatusClosed, "Alice", "Bob", "Carol")
	testutil.SubmitTestBallot(t, db, pollID, ids, 1, 2, 3)
	testutil.SubmitTestBallot(t, db, pollID, ids, 1, 2, 3)
	testutil.SubmitTestBallot(t, db, pollID, ids, 3, 1, 2)
	testutil.SubmitTestBallot(t, db, pollID, ids, 2, 3, 1)
	testutil.SubmitTestBallot(t, db, pollID, ids, 2, 3, 1)

	w := tallyPoll(handler, pollID, "")
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.TallyResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.ElectionID != pollID {
		t.Errorf("Expected election_id %s, got %s", pollID, resp.ElectionID)
	}
	if resp.CandidateCount != 3 || resp.BallotCount != 5 {
		t.Errorf("Expected 3 candidates and 5 ballots, got %d and %d", resp.CandidateCount, resp.BallotCount)
	}
	if resp.Outcome != models.OutcomeElected || resp.Winner != "Carol" {
		t.Errorf("Expected Carol elected, got %s %q", resp.Outcome, resp.Winner)
	}
	if len(resp.Rounds) != 2 {
		t.Fatalf("Expected 2 rounds, got %d", len(resp.Rounds))
	}
	if resp.Rounds[0].Eliminated != "Bob" {
		t.Errorf("Expected Bob eliminated in round 1, got %q", resp.Rounds[0].Eliminated)
	}
	if top := resp.Rounds[1].Candidates[0]; top.Name != "Carol" || top.Votes != 3 || !top.Elected {
		t.Errorf("Unexpected round 2 leader: %+v", top)
	}
}

func TestTallyPollSealedWhileOpen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewTallyHandler(db, testutil.GetTestConfig())

	pollID, _, ids := testutil.CreateTestPoll(t, db, models.StatusOpen, "A", "B")
	testutil.SubmitTestBallot(t, db, pollID, ids, 1, 2)

	w := tallyPoll(handler, pollID, "")
	testutil.AssertStatus(t, w, http.StatusForbidden)
}

func TestTallyPollErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewTallyHandler(db, testutil.GetTestConfig())

	pollID, _, _ := testutil.CreateTestPoll(t, db, models.StatusClosed, "A", "B")

	testutil.AssertStatus(t, tallyPoll(handler, "missing", ""), http.StatusNotFound)
	testutil.AssertStatus(t, tallyPoll(handler, pollID, "?seed=abc"), http.StatusBadRequest)

	// No ballots: the count ends without a majority
	w := tallyPoll(handler, pollID, "")
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.TallyResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Outcome != models.OutcomeNoMajority || resp.Winner != "" {
		t.Errorf("Expected no majority, got %s %q", resp.Outcome, resp.Winner)
	}
}

func TestTallyPollSeedReproducible(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewTallyHandler(db, testutil.GetTestConfig())

	// Four-way tie in round 1 forces random eliminations
	pollID, _, ids := testutil.CreateTestPoll(t, db, models.StatusClosed, "A", "B", "C", "D")
	testutil.SubmitTestBallot(t, db, pollID, ids, 1, 2, 3, 4)
	testutil.SubmitTestBallot(t, db, pollID, ids, 2, 1, 3, 4)
	testutil.SubmitTestBallot(t, db, pollID, ids, 3, 4, 1, 2)
	testutil.SubmitTestBallot(t, db, pollID, ids, 4, 3, 2, 1)

	var first models.TallyResponse
	w := tallyPoll(handler, pollID, "?seed=42")
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &first)

	if first.Rounds[0].TiedLosers != 4 {
		t.Errorf("Expected 4 tied losers in round 1, got %d", first.Rounds[0].TiedLosers)
	}

	for i := 0; i < 3; i++ {
		var again models.TallyResponse
		w := tallyPoll(handler, pollID, "?seed=42")
		testutil.AssertJSON(t, w, &again)
		if !reflect.DeepEqual(first.Rounds, again.Rounds) || first.Winner != again.Winner {
			t.Fatalf("Seeded tally differed on run %d", i+2)
		}
	}
}

func TestTally(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewTallyHandler(db, testutil.GetTestConfig())

	seed := int64(7)
	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		winner         string
	}{
		{
			name: "majority in first round",
			body: models.TallyRequest{
				Candidates: []string{"A", "B"},
				Ballots:    [][]int{{1, 2}, {1, 2}, {2, 1}},
			},
			expectedStatus: http.StatusOK,
			winner:         "A",
		},
		{
			name: "seeded tie",
			body: models.TallyRequest{
				Candidates: []string{"A", "B"},
				Ballots:    [][]int{{1, 2}, {2, 1}},
				Seed:       &seed,
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "no candidates",
			body:           models.TallyRequest{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "ballot length mismatch",
			body: models.TallyRequest{
				Candidates: []string{"A", "B"},
				Ballots:    [][]int{{1}},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate rank",
			body: models.TallyRequest{
				Candidates: []string{"A", "B"},
				Ballots:    [][]int{{1, 1}},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			body:           nil,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/tallies", tt.body, nil)
			w := httptest.NewRecorder()

			handler.Tally(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp models.TallyResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.ElectionID == "" {
				t.Error("Expected generated election_id")
			}
			if tt.winner != "" && resp.Winner != tt.winner {
				t.Errorf("Expected winner %s, got %q", tt.winner, resp.Winner)
			}
		})
	}
}
