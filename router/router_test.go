// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/gatherly/models"
	"github.com/danielhkuo/gatherly/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	st := testutil.SetupTestStore(t)
	blobs := testutil.SetupTestBlobs(t)
	cfg := testutil.GetTestConfig()
	mux, _ := NewRouter(st, blobs, cfg)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	st := testutil.SetupTestStore(t)
	blobs := testutil.SetupTestBlobs(t)
	cfg := testutil.GetTestConfig()
	mux, _ := NewRouter(st, blobs, cfg)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	expected := "gatherly API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	st := testutil.SetupTestStore(t)
	blobs := testutil.SetupTestBlobs(t)
	cfg := testutil.GetTestConfig()
	mux, _ := NewRouter(st, blobs, cfg)

	// Handlers may answer 400/401/404 for missing data; 405 means the
	// route itself is missing.
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},

		{"POST", "/auth/signup"},
		{"POST", "/auth/signin"},
		{"GET", "/auth/me"},

		{"GET", "/polls"},
		{"POST", "/polls"},
		{"POST", "/questions/test-id/vote"},
		{"PATCH", "/polls/test-id"},
		{"DELETE", "/polls/test-id"},
		{"PATCH", "/questions/test-id"},
		{"DELETE", "/questions/test-id"},
		{"PATCH", "/options/test-id"},
		{"DELETE", "/options/test-id"},

		{"GET", "/events"},
		{"POST", "/events"},
		{"GET", "/events/registrations"},
		{"PUT", "/events/registrations"},
		{"DELETE", "/events/test-id/registration"},

		{"POST", "/files"},
		{"GET", "/files"},
		{"GET", "/files/test-name"},
		{"DELETE", "/files/test-name"},

		{"GET", "/admin/users"},
		{"PATCH", "/admin/users/test-id/role"},
		{"GET", "/admin/stats"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	st := testutil.SetupTestStore(t)
	blobs := testutil.SetupTestBlobs(t)
	cfg := testutil.GetTestConfig()
	mux, _ := NewRouter(st, blobs, cfg)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},           // Only GET is defined
		{"PUT", "/polls/test-id"},     // Only PATCH and DELETE
		{"POST", "/events/registrations"}, // Only GET and PUT
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestAuthGating(t *testing.T) {
	st := testutil.SetupTestStore(t)
	blobs := testutil.SetupTestBlobs(t)
	cfg := testutil.GetTestConfig()
	mux, _ := NewRouter(st, blobs, cfg)

	_, userToken := testutil.CreateTestUser(t, st, cfg, "member@example.com", models.RoleUser)

	t.Run("anonymous poll read allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("GET", "/polls", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
	})

	t.Run("anonymous vote rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("POST", "/questions/q1/vote",
			models.VoteRequest{OptionID: "o1"}, nil))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("regular user cannot create polls", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("POST", "/polls",
			models.CreatePollRequest{Title: "x"}, testutil.AuthHeader(userToken)))
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("regular user cannot reach admin endpoints", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("GET", "/admin/stats", nil, testutil.AuthHeader(userToken)))
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})
}

func TestPathParameterExtraction(t *testing.T) {
	st := testutil.SetupTestStore(t)
	blobs := testutil.SetupTestBlobs(t)
	cfg := testutil.GetTestConfig()
	mux, pollHandler := NewRouter(st, blobs, cfg)

	user, token := testutil.CreateTestUser(t, st, cfg, "voter@example.com", models.RoleUser)
	_, questionID, optionIDs := testutil.CreateTestPoll(t, st, user.ID, "lunch", []string{"pizza", "tacos"})

	// Prime the user's projection the way a client does before voting.
	prime := httptest.NewRecorder()
	mux.ServeHTTP(prime, testutil.MakeRequest("GET", "/polls", nil, testutil.AuthHeader(token)))
	testutil.AssertStatus(t, prime, http.StatusOK)

	req := testutil.MakeRequest("POST", "/questions/"+questionID+"/vote",
		models.VoteRequest{OptionID: optionIDs[0]}, testutil.AuthHeader(token))
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusAccepted)
	pollHandler.Settle()

	var resp models.PollListResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Polls) != 1 || resp.Polls[0].Questions[0].ID != questionID {
		t.Errorf("Expected the voted question in the response, got %+v", resp.Polls)
	}
}
