// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/gatherly/middleware"
	"github.com/danielhkuo/gatherly/models"
	"github.com/danielhkuo/gatherly/testutil"
)

func TestListEvents(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	h := NewEventHandler(st, cfg)
	secret := []byte(cfg.JWTSecret)
	list := middleware.OptionalAuth(secret, h.ListEvents)

	_, token := testutil.CreateTestUser(t, st, cfg, "member@example.com", models.RoleUser)
	later := testutil.CreateTestEvent(t, st, "retro", time.Now().Add(48*time.Hour))
	sooner := testutil.CreateTestEvent(t, st, "kickoff", time.Now().Add(24*time.Hour))
	_ = later

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		list(w, testutil.MakeRequest("GET", "/events", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.EventOverviewResponse
		testutil.AssertJSON(t, w, &resp)
		if len(resp.Events) != 2 {
			t.Fatalf("Expected 2 events, got %d", len(resp.Events))
		}
		if resp.Events[0].ID != sooner {
			t.Errorf("Expected events ordered by date, got '%s' first", resp.Events[0].Name)
		}
		if len(resp.Registrations) != 0 {
			t.Errorf("Expected no registrations for anonymous, got %d", len(resp.Registrations))
		}
	})

	t.Run("signed in", func(t *testing.T) {
		w := httptest.NewRecorder()
		list(w, testutil.MakeRequest("GET", "/events", nil, testutil.AuthHeader(token)))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.EventOverviewResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Registrations == nil {
			t.Error("Expected a registrations list for signed-in users")
		}
	})
}

func TestCreateEvent(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	h := NewEventHandler(st, cfg)
	secret := []byte(cfg.JWTSecret)
	create := middleware.RequireAdmin(secret, h.CreateEvent)

	_, adminToken := testutil.CreateTestUser(t, st, cfg, "admin@example.com", models.RoleAdmin)

	t.Run("valid", func(t *testing.T) {
		w := httptest.NewRecorder()
		create(w, testutil.MakeRequest("POST", "/events", models.CreateEventRequest{
			Name: "launch party",
			Date: time.Now().Add(72 * time.Hour),
		}, testutil.AuthHeader(adminToken)))

		testutil.AssertStatus(t, w, http.StatusCreated)
		var event models.Event
		testutil.AssertJSON(t, w, &event)
		if event.ID == "" || event.Name != "launch party" {
			t.Errorf("Unexpected event in response: %+v", event)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		w := httptest.NewRecorder()
		create(w, testutil.MakeRequest("POST", "/events", models.CreateEventRequest{
			Date: time.Now(),
		}, testutil.AuthHeader(adminToken)))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("missing date", func(t *testing.T) {
		w := httptest.NewRecorder()
		create(w, testutil.MakeRequest("POST", "/events", models.CreateEventRequest{
			Name: "undated",
		}, testutil.AuthHeader(adminToken)))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestRegistrationFlow(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	h := NewEventHandler(st, cfg)
	secret := []byte(cfg.JWTSecret)
	submit := middleware.RequireAuth(secret, h.SubmitRegistrations)
	get := middleware.RequireAuth(secret, h.GetRegistrations)
	unregister := middleware.RequireAuth(secret, h.Unregister)

	_, token := testutil.CreateTestUser(t, st, cfg, "member@example.com", models.RoleUser)
	e1 := testutil.CreateTestEvent(t, st, "kickoff", time.Now().Add(24*time.Hour))
	e2 := testutil.CreateTestEvent(t, st, "retro", time.Now().Add(48*time.Hour))

	// Register for both.
	w := httptest.NewRecorder()
	submit(w, testutil.MakeRequest("PUT", "/events/registrations",
		models.SubmitRegistrationsRequest{EventIDs: []string{e1, e2}}, testutil.AuthHeader(token)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var regs []models.Registration
	testutil.AssertJSON(t, w, &regs)
	if len(regs) != 2 {
		t.Fatalf("Expected 2 registrations, got %d", len(regs))
	}
	if regs[0].Event == nil {
		t.Error("Expected the event joined into the registration")
	}

	// Resubmit with only the second selected: the diff drops the first.
	w = httptest.NewRecorder()
	submit(w, testutil.MakeRequest("PUT", "/events/registrations",
		models.SubmitRegistrationsRequest{EventIDs: []string{e2}}, testutil.AuthHeader(token)))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &regs)
	if len(regs) != 1 || regs[0].EventID != e2 {
		t.Fatalf("Expected only the retro registration, got %+v", regs)
	}

	// Unregister from the remaining one.
	req := testutil.MakeRequest("DELETE", "/events/"+e2+"/registration", nil, testutil.AuthHeader(token))
	req.SetPathValue("id", e2)
	w = httptest.NewRecorder()
	unregister(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &regs)
	if len(regs) != 0 {
		t.Fatalf("Expected no registrations left, got %+v", regs)
	}

	// GET agrees.
	w = httptest.NewRecorder()
	get(w, testutil.MakeRequest("GET", "/events/registrations", nil, testutil.AuthHeader(token)))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &regs)
	if len(regs) != 0 {
		t.Errorf("Expected empty list, got %+v", regs)
	}
}
