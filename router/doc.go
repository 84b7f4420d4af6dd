// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Gatherly API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints, plus the
poll handler for draining background reconciliation on shutdown:

	mux, pollHandler := router.NewRouter(st, blobs, cfg)

# Endpoints

Health:

	GET /health

Accounts:

	POST /auth/signup - Create account (returns token)
	POST /auth/signin - Sign in (returns token)
	GET  /auth/me     - Current account (requires token)

Polls and voting:

	GET  /polls                - Projection with counts and own votes
	POST /questions/{id}/vote  - Cast or move a vote (202, token required)

Poll management (admin token):

	POST   /polls
	PATCH  /polls/{id}      DELETE /polls/{id}
	PATCH  /questions/{id}  DELETE /questions/{id}
	PATCH  /options/{id}    DELETE /options/{id}

Events and registrations:

	GET    /events                    - Events plus own registrations
	POST   /events                    - Create event (admin)
	GET    /events/registrations      - Own registrations (token)
	PUT    /events/registrations      - Replace selection via diff (token)
	DELETE /events/{id}/registration  - Unregister (token)

File library:

	POST   /files        - Multipart upload (token)
	GET    /files        - List metadata (token)
	GET    /files/{name} - Download (public, links are embedded in polls)
	DELETE /files/{name} - Remove (admin)

Administration (admin token):

	GET   /admin/users
	PATCH /admin/users/{id}/role
	GET   /admin/stats
*/
package router
