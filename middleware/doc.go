// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Authentication

Gate handlers on a bearer token:

	mux.HandleFunc("GET /auth/me", middleware.RequireAuth(secret, handler))
	mux.HandleFunc("POST /polls", middleware.RequireAdmin(secret, handler))
	mux.HandleFunc("GET /polls", middleware.OptionalAuth(secret, handler))

RequireAuth rejects missing or invalid tokens with 401 and puts the user in
the request context; RequireAdmin additionally checks the role claim and
answers 403. OptionalAuth lets anonymous requests through. Read the user
back with middleware.UserFrom(r).

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /polls", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
