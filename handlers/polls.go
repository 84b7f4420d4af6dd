// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/gatherly/cliparse"
	"github.com/danielhkuo/gatherly/middleware"
	"github.com/danielhkuo/gatherly/models"
	"github.com/danielhkuo/gatherly/polls"
)

type PollHandler struct {
	manager *polls.Manager
	cfg     cliparse.Config
}

func NewPollHandler(st polls.Store, cfg cliparse.Config) *PollHandler {
	return &PollHandler{manager: polls.NewManager(st), cfg: cfg}
}

// Settle waits for background vote and delete reconciliation to finish.
// Shutdown and tests call this.
func (h *PollHandler) Settle() {
	h.manager.Settle()
}

func (h *PollHandler) coordinator(r *http.Request) *polls.Coordinator {
	user, _ := middleware.UserFrom(r)
	return h.manager.For(user.ID)
}

// ListPolls handles GET /polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	c := h.coordinator(r)
	result, err := c.FetchAll(r.Context(), true)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load polls")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.PollListResponse{Polls: result})
}

// Vote handles POST /questions/{id}/vote. The optimistic projection comes
// back immediately with 202; the vote row lands in the background.
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question id is required")
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_id is required")
		return
	}

	c := h.coordinator(r)
	if err := c.Vote(r.Context(), questionID, req.OptionID); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Sign in to vote")
		return
	}

	middleware.JSONResponse(w, http.StatusAccepted, models.PollListResponse{Polls: c.Snapshot()})
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(req.Questions) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least one question is required")
		return
	}
	for _, q := range req.Questions {
		if strings.TrimSpace(q.Question) == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "every question needs text")
			return
		}
		if len(q.Options) < 2 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "every question needs at least two options")
			return
		}
	}

	c := h.coordinator(r)
	if err := c.CreatePoll(r.Context(), req.Title, req.Questions); err != nil {
		slog.Error("failed to create poll", "title", req.Title, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.PollListResponse{Polls: c.Snapshot()})
}

// UpdatePoll handles PATCH /polls/{id}
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	var req models.UpdatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	c := h.coordinator(r)
	if err := c.UpdatePoll(r.Context(), pollID, req.Title); err != nil {
		slog.Error("failed to update poll", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update poll")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.PollListResponse{Polls: c.Snapshot()})
}

// UpdateQuestion handles PATCH /questions/{id}
func (h *PollHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")

	var req models.QuestionUpdate
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	c := h.coordinator(r)
	if err := c.UpdateQuestion(r.Context(), questionID, req); err != nil {
		slog.Error("failed to update question", "question_id", questionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update question")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.PollListResponse{Polls: c.Snapshot()})
}

// UpdateOption handles PATCH /options/{id}
func (h *PollHandler) UpdateOption(w http.ResponseWriter, r *http.Request) {
	optionID := r.PathValue("id")

	var req models.OptionUpdate
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	c := h.coordinator(r)
	if err := c.UpdateOption(r.Context(), optionID, req); err != nil {
		slog.Error("failed to update option", "option_id", optionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update option")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.PollListResponse{Polls: c.Snapshot()})
}

// DeletePoll handles DELETE /polls/{id}. Removal is optimistic: the
// response reflects the projection without the poll while the remote
// delete runs in the background.
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	c := h.coordinator(r)
	c.DeletePoll(r.Context(), r.PathValue("id"))
	middleware.JSONResponse(w, http.StatusAccepted, models.PollListResponse{Polls: c.Snapshot()})
}

// DeleteQuestion handles DELETE /questions/{id}
func (h *PollHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	c := h.coordinator(r)
	c.DeleteQuestion(r.Context(), r.PathValue("id"))
	middleware.JSONResponse(w, http.StatusAccepted, models.PollListResponse{Polls: c.Snapshot()})
}

// DeleteOption handles DELETE /options/{id}
func (h *PollHandler) DeleteOption(w http.ResponseWriter, r *http.Request) {
	c := h.coordinator(r)
	c.DeleteOption(r.Context(), r.PathValue("id"))
	middleware.JSONResponse(w, http.StatusAccepted, models.PollListResponse{Polls: c.Snapshot()})
}
