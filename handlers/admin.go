// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/gatherly/cliparse"
	"github.com/danielhkuo/gatherly/middleware"
	"github.com/danielhkuo/gatherly/models"
	"github.com/danielhkuo/gatherly/store"
)

type AdminHandler struct {
	st  *store.Store
	cfg cliparse.Config
}

func NewAdminHandler(st *store.Store, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{st: st, cfg: cfg}
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.st.ListUsers(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to list users")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, users)
}

// UpdateRole handles PATCH /admin/users/{id}/role
func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	var req models.UpdateRoleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusBadRequest, "role must be 'user' or 'admin'")
		return
	}

	if err := h.st.UpdateUserRole(r.Context(), userID, req.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
			return
		}
		slog.Error("failed to update role", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update role")
		return
	}

	slog.Info("role updated", "user_id", userID, "role", req.Role)
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userCount, err := h.st.CountUsers(r.Context())
	if err != nil {
		slog.Error("failed to count users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	fileCount, totalBytes, err := h.st.UploadStats(r.Context())
	if err != nil {
		slog.Error("failed to load upload stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StatsResponse{
		TotalUsers:   userCount,
		TotalFiles:   fileCount,
		StorageBytes: totalBytes,
		StorageLabel: humanize.Bytes(uint64(totalBytes)),
	})
}
