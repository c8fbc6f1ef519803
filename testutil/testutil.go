// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/runoff/auth"
	"github.com/danielhkuo/runoff/cliparse"
	"github.com/danielhkuo/runoff/db"
)

// TestAdminSalt is the admin key salt used by GetTestConfig
const TestAdminSalt = "test-admin-salt"

// SetupTestDB opens a fresh SQLite database in a temporary directory with
// the full schema. The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "runoff.db")
	conn, err := db.Open(db.TypeSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: db.TypeSQLite,
		DatabaseURL:  ":memory:",
		AdminKeySalt: TestAdminSalt,
		OutputFormat: cliparse.OutputJSON,
	}
}

// CreateTestPoll inserts a poll with the given status and candidates (in
// ballot order) and returns its ID, admin key and candidate IDs
func CreateTestPoll(t *testing.T, conn *sql.DB, status string, names ...string) (pollID, adminKey string, candidateIDs []string) {
	t.Helper()

	pollID = auth.NewID()
	adminKey = auth.AdminKey(pollID, TestAdminSalt)

	var closedAt *time.Time
	if status == "closed" {
		now := time.Now().UTC()
		closedAt = &now
	}

	_, err := conn.Exec(`
		INSERT INTO poll (id, title, status, closed_at, created_at)
		VALUES ($1, 'Test Poll', $2, $3, $4)
	`, pollID, status, closedAt, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	for i, name := range names {
		id := auth.NewID()
		_, err := conn.Exec(`
			INSERT INTO candidate (id, poll_id, name, position)
			VALUES ($1, $2, $3, $4)
		`, id, pollID, name, i)
		if err != nil {
			t.Fatalf("Failed to create test candidate: %v", err)
		}
		candidateIDs = append(candidateIDs, id)
	}

	return pollID, adminKey, candidateIDs
}

// SubmitTestBallot stores a ballot directly. ranks[i] is the rank given to
// candidateIDs[i].
func SubmitTestBallot(t *testing.T, conn *sql.DB, pollID string, candidateIDs []string, ranks ...int) string {
	t.Helper()

	if len(ranks) != len(candidateIDs) {
		t.Fatalf("SubmitTestBallot: %d ranks for %d candidates", len(ranks), len(candidateIDs))
	}

	ballotID := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO ballot (id, poll_id, submitted_at)
		VALUES ($1, $2, $3)
	`, ballotID, pollID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	for i, candidateID := range candidateIDs {
		_, err := conn.Exec(`
			INSERT INTO ranking (ballot_id, candidate_id, preference)
			VALUES ($1, $2, $3)
		`, ballotID, candidateID, ranks[i])
		if err != nil {
			t.Fatalf("Failed to create test ranking: %v", err)
		}
	}

	return ballotID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
