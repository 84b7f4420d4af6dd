// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Gatherly API.

# Handler Types

Each handler is a struct with its store and config dependencies:

  - AuthHandler: Sign-up, sign-in, current account
  - PollHandler: Poll listing, voting, and admin poll management
  - EventHandler: Events and registration submission
  - FileHandler: Uploads, listing, download, deletion
  - AdminHandler: User management and instance stats

Handlers are created via constructor functions:

	pollHandler := handlers.NewPollHandler(st, cfg)

# Voting Flow

GET /polls serves the caller's projection with per-option counts and their
own vote state. POST /questions/{id}/vote answers 202 with the
optimistically updated projection; the vote row is upserted in the
background and a silent refetch reconciles the counts. Repeat votes move
the user's single vote row rather than adding one.

# Admin Operations

Poll, question, and option management plus /admin endpoints require a
token whose role claim is "admin". Deletes are optimistic and answer 202;
updates refetch before answering 200.

# File Uploads

POST /files accepts multipart uploads under the "files" field. Accepted
types are pdf, docx, png, jpeg, gif, and webp up to 50MB. Contents go to
the blob store under a unique name; metadata, extracted text, and a
human-readable size label come back in the response.
*/
package handlers
