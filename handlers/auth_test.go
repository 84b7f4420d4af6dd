// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/gatherly/middleware"
	"github.com/danielhkuo/gatherly/models"
	"github.com/danielhkuo/gatherly/testutil"
)

func TestSignup(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	h := NewAuthHandler(st, cfg)

	w := httptest.NewRecorder()
	h.Signup(w, testutil.MakeRequest("POST", "/auth/signup", models.SignupRequest{
		Email:    "Alice@Example.com",
		Password: "password123",
	}, nil))

	testutil.AssertStatus(t, w, http.StatusCreated)
	var resp models.AuthResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Token == "" {
		t.Error("Expected a session token")
	}
	if resp.User.Email != "alice@example.com" {
		t.Errorf("Expected normalized email, got '%s'", resp.User.Email)
	}
	if resp.User.Role != models.RoleUser {
		t.Errorf("Expected role 'user', got '%s'", resp.User.Role)
	}
}

func TestSignupAdminBootstrap(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	cfg.AdminEmail = "owner@example.com"
	h := NewAuthHandler(st, cfg)

	w := httptest.NewRecorder()
	h.Signup(w, testutil.MakeRequest("POST", "/auth/signup", models.SignupRequest{
		Email:    "owner@example.com",
		Password: "password123",
	}, nil))

	testutil.AssertStatus(t, w, http.StatusCreated)
	var resp models.AuthResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.User.Role != models.RoleAdmin {
		t.Errorf("Expected admin role for the configured email, got '%s'", resp.User.Role)
	}
}

func TestSignupValidation(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	h := NewAuthHandler(st, cfg)

	testCases := []struct {
		name string
		req  models.SignupRequest
	}{
		{"missing email", models.SignupRequest{Password: "password123"}},
		{"not an email", models.SignupRequest{Email: "nope", Password: "password123"}},
		{"short password", models.SignupRequest{Email: "a@b.c", Password: "short"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Signup(w, testutil.MakeRequest("POST", "/auth/signup", tc.req, nil))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestSignupDuplicate(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	h := NewAuthHandler(st, cfg)

	req := models.SignupRequest{Email: "dup@example.com", Password: "password123"}

	w := httptest.NewRecorder()
	h.Signup(w, testutil.MakeRequest("POST", "/auth/signup", req, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = httptest.NewRecorder()
	h.Signup(w, testutil.MakeRequest("POST", "/auth/signup", req, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestSignin(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	h := NewAuthHandler(st, cfg)

	// CreateTestUser hashes "password123".
	user, _ := testutil.CreateTestUser(t, st, cfg, "alice@example.com", models.RoleUser)

	t.Run("correct credentials", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Signin(w, testutil.MakeRequest("POST", "/auth/signin", models.SigninRequest{
			Email:    "alice@example.com",
			Password: "password123",
		}, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.AuthResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.User.ID != user.ID {
			t.Errorf("Expected user %s, got %s", user.ID, resp.User.ID)
		}
		if resp.Token == "" {
			t.Error("Expected a session token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Signin(w, testutil.MakeRequest("POST", "/auth/signin", models.SigninRequest{
			Email:    "alice@example.com",
			Password: "wrong-password",
		}, nil))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Signin(w, testutil.MakeRequest("POST", "/auth/signin", models.SigninRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		}, nil))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}

func TestMe(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	h := NewAuthHandler(st, cfg)
	secret := []byte(cfg.JWTSecret)

	user, token := testutil.CreateTestUser(t, st, cfg, "alice@example.com", models.RoleUser)
	me := middleware.RequireAuth(secret, h.Me)

	t.Run("with token", func(t *testing.T) {
		w := httptest.NewRecorder()
		me(w, testutil.MakeRequest("GET", "/auth/me", nil, testutil.AuthHeader(token)))

		testutil.AssertStatus(t, w, http.StatusOK)
		var profile models.UserProfile
		testutil.AssertJSON(t, w, &profile)
		if profile.ID != user.ID || profile.Email != user.Email {
			t.Errorf("Expected own profile, got %+v", profile)
		}
	})

	t.Run("without token", func(t *testing.T) {
		w := httptest.NewRecorder()
		me(w, testutil.MakeRequest("GET", "/auth/me", nil, nil))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}
