// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models contains the domain and request/response types for the
Gatherly API.

# Domain Types

The poll hierarchy mirrors the relational tables:

	Poll → PollQuestion → PollOption
	PollVote (one row per user per question)

PollOption.Votes, PollQuestion.UserVoted and PollQuestion.UserVoteOptionID
are derived fields computed during aggregation; they are never written to
the database.

Event/Registration and UserProfile/UploadedFile cover the event signup and
file library features.

# Request/Response Types

Request types are named after the operation (CreatePollRequest,
SubmitRegistrationsRequest, ...). Partial-update types (QuestionUpdate,
OptionUpdate) use pointer fields: nil means "leave unchanged".
*/
package models
