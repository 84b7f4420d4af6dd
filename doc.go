// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Gatherly API server.

Gatherly is a small community platform: polls with one vote per member per
question, event registration, and a shared file library with admin
management on top.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	JWT_SECRET=... go run main.go

Or with flags:

	go run main.go -p 3324 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - JWT_SECRET (--jwt-secret): Secret for session token signing

Optional settings:

  - PORT (-p): Server port (default: 3324)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)
  - DATABASE_URL (-d): Connection string or SQLite path (default: gatherly.db)
  - BLOB_PATH (--blobs): Upload blob store directory (default: data/blobs)
  - BASE_URL (--base-url): Public URL prefix for file links
  - ADMIN_EMAIL: Email that receives the admin role on signup

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (auth, polls, events, files, admin)
  - polls: Per-user vote projection with optimistic updates and
    background reconciliation
  - events: Registration diffing against a submitted selection
  - store: Typed relational access over database/sql
  - storage: Blob store for uploaded file contents
  - router: Route definitions using Go 1.22+ routing
  - middleware: Auth, CORS, logging, JSON helpers
  - models: Domain and request/response types
  - auth: Password hashing and JWT session tokens
  - db: Schema creation for SQLite and PostgreSQL
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
