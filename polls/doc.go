// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls coordinates poll reads and votes for one user at a time.

A Coordinator holds an immutable projection of all polls with derived vote
counts and the user's per-question vote state. Reads hand out snapshot
copies. Votes and deletes apply to the projection synchronously so callers
see the effect at once, then reconcile against the store in the background;
the projection is eventually replaced wholesale by a refetch, so a failed
write self-repairs. At most one vote row exists per (user, question): Vote
updates the existing row when one is found and inserts otherwise, with a
unique constraint in the schema as the backstop.

Settle blocks until background work drains, which tests and shutdown use.
A Manager keys coordinators by user ID.
*/
package polls
