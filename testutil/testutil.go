// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/gatherly/auth"
	"github.com/danielhkuo/gatherly/cliparse"
	"github.com/danielhkuo/gatherly/db"
	"github.com/danielhkuo/gatherly/models"
	"github.com/danielhkuo/gatherly/storage"
	"github.com/danielhkuo/gatherly/store"
)

// SetupTestDB creates an in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// SetupTestStore wraps SetupTestDB in a store
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(SetupTestDB(t))
}

// SetupTestBlobs opens a blob store in a temp directory
func SetupTestBlobs(t *testing.T) *storage.Store {
	t.Helper()
	blobs, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open blob store: %v", err)
	}
	t.Cleanup(func() { blobs.Close() })
	return blobs
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3324,
		DatabaseType: "sqlite",
		DatabaseURL:  ":memory:",
		JWTSecret:    "test-jwt-secret",
		BaseURL:      "http://localhost:3324",
	}
}

// CreateTestUser inserts a user and returns the profile plus a valid token
func CreateTestUser(t *testing.T, st *store.Store, cfg cliparse.Config, email, role string) (models.UserProfile, string) {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	record := &store.UserRecord{
		UserProfile: models.UserProfile{
			ID:        auth.NewID(),
			Email:     email,
			Role:      role,
			CreatedAt: time.Now(),
		},
		PasswordHash: hash,
	}
	if err := st.InsertUser(t.Context(), record); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	token, err := auth.MintToken([]byte(cfg.JWTSecret), record.UserProfile)
	if err != nil {
		t.Fatalf("Failed to mint test token: %v", err)
	}
	return record.UserProfile, token
}

// CreateTestPoll inserts a poll with one question and the given option
// texts, returning the poll, question, and option IDs in order
func CreateTestPoll(t *testing.T, st *store.Store, createdBy, title string, optionTexts []string) (pollID, questionID string, optionIDs []string) {
	t.Helper()
	ctx := t.Context()
	now := time.Now()

	poll := &models.Poll{ID: auth.NewID(), Title: title, CreatedBy: createdBy, CreatedAt: now, UpdatedAt: now}
	if err := st.InsertPoll(ctx, poll); err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	question := &models.PollQuestion{ID: auth.NewID(), PollID: poll.ID, Question: title + "?", CreatedAt: now}
	if err := st.InsertQuestion(ctx, question); err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	optionIDs = make([]string, len(optionTexts))
	for i, text := range optionTexts {
		option := &models.PollOption{ID: auth.NewID(), QuestionID: question.ID, Text: text, Order: i}
		if err := st.InsertOption(ctx, option); err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		optionIDs[i] = option.ID
	}
	return poll.ID, question.ID, optionIDs
}

// CreateTestEvent inserts an event and returns its ID
func CreateTestEvent(t *testing.T, st *store.Store, name string, date time.Time) string {
	t.Helper()

	event := &models.Event{ID: auth.NewID(), Name: name, Date: date, CreatedAt: time.Now()}
	if err := st.InsertEvent(t.Context(), event); err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}
	return event.ID
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

// AuthHeader builds the Authorization header map for a token
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
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
