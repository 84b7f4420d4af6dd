// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection and schema creation.

# Schema Overview

Eight tables:

  - users: accounts with email, bcrypt password hash, and role flag
  - events, registrations: event signup (one row per user per event)
  - polls, poll_questions, poll_options: the poll hierarchy
  - poll_votes: one row per (question, user), UNIQUE-constrained
  - uploads: file metadata (bytes live in the blob store)

# Key Constraints

  - users.email (unique)
  - registrations (user_id, event_id) (unique)
  - poll_votes (question_id, user_id) (unique), the storage backstop for
    the one-vote-per-question invariant
  - uploads.file_name (unique)

All child tables cascade on delete, so removing a poll removes its
questions, options and votes.

# Portability

The same DDL runs on SQLite (modernc.org/sqlite) and PostgreSQL (lib/pq):
no database-specific defaults, timestamps are written by the application.
Open enables foreign-key enforcement and a single connection for SQLite.
*/
package db
