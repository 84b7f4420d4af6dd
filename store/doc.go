// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the relational data gateway for the Gatherly API.

One Store wraps a *sql.DB and exposes typed operations per concern:

  - polls.go: nested poll reads, vote counting and lookup, poll/question/
    option/vote writes
  - users.go: account rows (the password hash stays inside UserRecord)
  - events.go: events and registrations
  - uploads.go: file metadata rows

Conventions: lookups that can legitimately find nothing (FindVote,
FindUserByEmail, FindUploadByName) return (nil, nil); every other error is
wrapped with context. Queries use $N placeholders, which both lib/pq and
modernc.org/sqlite accept. Derived poll fields (vote counts, user vote
state) are not computed here; that is the polls coordinator's job.
*/
package store
