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
	"github.com/danielhkuo/gatherly/events"
	"github.com/danielhkuo/gatherly/middleware"
	"github.com/danielhkuo/gatherly/models"
	"github.com/danielhkuo/gatherly/store"
)

type EventHandler struct {
	st  *store.Store
	svc *events.Service
	cfg cliparse.Config
}

func NewEventHandler(st *store.Store, cfg cliparse.Config) *EventHandler {
	return &EventHandler{st: st, svc: events.NewService(st), cfg: cfg}
}

// ListEvents handles GET /events. Signed-in users also get their
// registrations; anonymous callers just get the events.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r)

	overview, err := h.svc.Overview(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to load events", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load events")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, overview)
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEventRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Date.IsZero() {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date is required")
		return
	}

	event := &models.Event{
		ID:        auth.NewID(),
		Name:      req.Name,
		Date:      req.Date,
		CreatedAt: time.Now(),
	}
	if err := h.st.InsertEvent(r.Context(), event); err != nil {
		slog.Error("failed to insert event", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create event")
		return
	}

	slog.Info("event created", "event_id", event.ID, "name", event.Name)
	middleware.JSONResponse(w, http.StatusCreated, event)
}

// GetRegistrations handles GET /events/registrations
func (h *EventHandler) GetRegistrations(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r)

	regs, err := h.st.ListRegistrations(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to load registrations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load registrations")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, regs)
}

// SubmitRegistrations handles PUT /events/registrations. The submitted
// selection replaces the user's registrations via a diff.
func (h *EventHandler) SubmitRegistrations(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r)

	var req models.SubmitRegistrationsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	regs, err := h.svc.Submit(r.Context(), user.ID, req.EventIDs)
	if err != nil {
		slog.Error("failed to submit registrations", "user_id", user.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update registrations")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, regs)
}

// Unregister handles DELETE /events/{id}/registration
func (h *EventHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r)
	eventID := r.PathValue("id")

	regs, err := h.svc.Unregister(r.Context(), user.ID, eventID)
	if err != nil {
		slog.Error("failed to unregister", "user_id", user.ID, "event_id", eventID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to unregister")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, regs)
}
