// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/gatherly/auth"
	"github.com/danielhkuo/gatherly/cliparse"
	"github.com/danielhkuo/gatherly/middleware"
	"github.com/danielhkuo/gatherly/models"
	"github.com/danielhkuo/gatherly/store"
)

type AuthHandler struct {
	st  *store.Store
	cfg cliparse.Config
}

func NewAuthHandler(st *store.Store, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{st: st, cfg: cfg}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if len(req.Password) < 8 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	existing, err := h.st.FindUserByEmail(r.Context(), email)
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if existing != nil {
		middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	// The configured admin email gets the admin role on signup; everyone
	// else starts as a regular user.
	role := models.RoleUser
	if h.cfg.AdminEmail != "" && email == strings.ToLower(h.cfg.AdminEmail) {
		role = models.RoleAdmin
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
	if err := h.st.InsertUser(r.Context(), record); err != nil {
		// A concurrent signup can land between the lookup and the insert;
		// the UNIQUE constraint turns that into a conflict.
		if raced, lookupErr := h.st.FindUserByEmail(r.Context(), email); lookupErr == nil && raced != nil {
			middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
			return
		}
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := auth.MintToken([]byte(h.cfg.JWTSecret), record.UserProfile)
	if err != nil {
		slog.Error("failed to mint token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("user signed up", "user_id", record.ID, "role", role)
	middleware.JSONResponse(w, http.StatusCreated, models.AuthResponse{
		Token: token,
		User:  record.UserProfile,
	})
}

// Signin handles POST /auth/signin
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req models.SigninRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	record, err := h.st.FindUserByEmail(r.Context(), email)
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if record == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := auth.CheckPassword(record.PasswordHash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := auth.MintToken([]byte(h.cfg.JWTSecret), record.UserProfile)
	if err != nil {
		slog.Error("failed to mint token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("user signed in", "user_id", record.ID)
	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{
		Token: token,
		User:  record.UserProfile,
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r)

	record, err := h.st.FindUserByID(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if record == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Account no longer exists")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, record.UserProfile)
}
