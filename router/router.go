// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/gatherly/cliparse"
	"github.com/danielhkuo/gatherly/handlers"
	"github.com/danielhkuo/gatherly/middleware"
	"github.com/danielhkuo/gatherly/storage"
	"github.com/danielhkuo/gatherly/store"
)

// NewRouter wires every endpoint. The poll handler is returned alongside
// the mux so the caller can wait for background vote reconciliation on
// shutdown.
func NewRouter(st *store.Store, blobs *storage.Store, cfg cliparse.Config) (*http.ServeMux, *handlers.PollHandler) {
	mux := http.NewServeMux()
	secret := []byte(cfg.JWTSecret)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(st, cfg)
	pollHandler := handlers.NewPollHandler(st, cfg)
	eventHandler := handlers.NewEventHandler(st, cfg)
	fileHandler := handlers.NewFileHandler(st, blobs, storage.NoopExtractor{}, cfg)
	adminHandler := handlers.NewAdminHandler(st, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /auth/signup", middleware.WithLogging(authHandler.Signup))
	mux.HandleFunc("POST /auth/signin", middleware.WithLogging(authHandler.Signin))
	mux.HandleFunc("GET /auth/me", middleware.WithLogging(middleware.RequireAuth(secret, authHandler.Me)))

	// Polls and voting
	mux.HandleFunc("GET /polls", middleware.WithLogging(middleware.OptionalAuth(secret, pollHandler.ListPolls)))
	mux.HandleFunc("POST /polls", middleware.WithLogging(middleware.RequireAdmin(secret, pollHandler.CreatePoll)))
	mux.HandleFunc("POST /questions/{id}/vote", middleware.WithLogging(middleware.RequireAuth(secret, pollHandler.Vote)))

	// Poll management (admin)
	mux.HandleFunc("PATCH /polls/{id}", middleware.WithLogging(middleware.RequireAdmin(secret, pollHandler.UpdatePoll)))
	mux.HandleFunc("DELETE /polls/{id}", middleware.WithLogging(middleware.RequireAdmin(secret, pollHandler.DeletePoll)))
	mux.HandleFunc("PATCH /questions/{id}", middleware.WithLogging(middleware.RequireAdmin(secret, pollHandler.UpdateQuestion)))
	mux.HandleFunc("DELETE /questions/{id}", middleware.WithLogging(middleware.RequireAdmin(secret, pollHandler.DeleteQuestion)))
	mux.HandleFunc("PATCH /options/{id}", middleware.WithLogging(middleware.RequireAdmin(secret, pollHandler.UpdateOption)))
	mux.HandleFunc("DELETE /options/{id}", middleware.WithLogging(middleware.RequireAdmin(secret, pollHandler.DeleteOption)))

	// Events and registrations
	mux.HandleFunc("GET /events", middleware.WithLogging(middleware.OptionalAuth(secret, eventHandler.ListEvents)))
	mux.HandleFunc("POST /events", middleware.WithLogging(middleware.RequireAdmin(secret, eventHandler.CreateEvent)))
	mux.HandleFunc("GET /events/registrations", middleware.WithLogging(middleware.RequireAuth(secret, eventHandler.GetRegistrations)))
	mux.HandleFunc("PUT /events/registrations", middleware.WithLogging(middleware.RequireAuth(secret, eventHandler.SubmitRegistrations)))
	mux.HandleFunc("DELETE /events/{id}/registration", middleware.WithLogging(middleware.RequireAuth(secret, eventHandler.Unregister)))

	// File library
	mux.HandleFunc("POST /files", middleware.WithLogging(middleware.RequireAuth(secret, fileHandler.Upload)))
	mux.HandleFunc("GET /files", middleware.WithLogging(middleware.RequireAuth(secret, fileHandler.List)))
	mux.HandleFunc("GET /files/{name}", middleware.WithLogging(fileHandler.Download))
	mux.HandleFunc("DELETE /files/{name}", middleware.WithLogging(middleware.RequireAdmin(secret, fileHandler.Delete)))

	// Administration
	mux.HandleFunc("GET /admin/users", middleware.WithLogging(middleware.RequireAdmin(secret, adminHandler.ListUsers)))
	mux.HandleFunc("PATCH /admin/users/{id}/role", middleware.WithLogging(middleware.RequireAdmin(secret, adminHandler.UpdateRole)))
	mux.HandleFunc("GET /admin/stats", middleware.WithLogging(middleware.RequireAdmin(secret, adminHandler.Stats)))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("gatherly API v1"))
	})

	return mux, pollHandler
}
