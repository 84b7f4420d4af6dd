// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// User role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Request types

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// QuestionInput is one question definition supplied to poll creation.
// Options are plain texts; display order follows array position.
type QuestionInput struct {
	Question      string   `json:"question"`
	Description   *string  `json:"description,omitempty"`
	FileURL       *string  `json:"uploaded_file_url,omitempty"`
	FileName      *string  `json:"uploaded_file_name,omitempty"`
	FileType      *string  `json:"uploaded_file_type,omitempty"`
	ExtractedText *string  `json:"extracted_text,omitempty"`
	Options       []string `json:"options"`
}

type CreatePollRequest struct {
	Title     string          `json:"title"`
	Questions []QuestionInput `json:"questions"`
}

type VoteRequest struct {
	OptionID string `json:"option_id"`
}

type UpdatePollRequest struct {
	Title string `json:"title"`
}

// Partial updates: nil fields are left untouched.

type QuestionUpdate struct {
	Question    *string `json:"question,omitempty"`
	Description *string `json:"description,omitempty"`
}

type OptionUpdate struct {
	Text *string `json:"option_text,omitempty"`
}

type CreateEventRequest struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

type SubmitRegistrationsRequest struct {
	EventIDs []string `json:"event_ids"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// Response types

type AuthResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type PollListResponse struct {
	Polls []Poll `json:"polls"`
}

type EventOverviewResponse struct {
	Events        []Event        `json:"events"`
	Registrations []Registration `json:"registrations"`
}

type UploadResponse struct {
	Files []UploadedFile `json:"files"`
}

type StatsResponse struct {
	TotalUsers   int    `json:"total_users"`
	TotalFiles   int    `json:"total_files"`
	StorageBytes int64  `json:"storage_bytes"`
	StorageLabel string `json:"storage_label"`
}

// Domain types

type UserProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Poll struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	CreatedBy string         `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Questions []PollQuestion `json:"questions"`
}

type PollQuestion struct {
	ID            string       `json:"id"`
	PollID        string       `json:"poll_id"`
	Question      string       `json:"question"`
	Description   *string      `json:"description,omitempty"`
	FileURL       *string      `json:"uploaded_file_url,omitempty"`
	FileName      *string      `json:"uploaded_file_name,omitempty"`
	FileType      *string      `json:"uploaded_file_type,omitempty"`
	ExtractedText *string      `json:"extracted_text,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	Options       []PollOption `json:"options"`

	// Derived for the requesting user; zero values when anonymous.
	UserVoted        bool   `json:"user_voted"`
	UserVoteOptionID string `json:"user_vote_option_id,omitempty"`
}

type PollOption struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	Text       string `json:"option_text"`
	Order      int    `json:"option_order"`

	// Derived: count of vote rows referencing this option.
	Votes int `json:"votes"`
}

type PollVote struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	OptionID   string    `json:"option_id"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

type Registration struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
	Event     *Event    `json:"event,omitempty"`
}

type UploadedFile struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	OriginalName    string    `json:"original_name"`
	URL             string    `json:"url"`
	Size            int64     `json:"size"`
	SizeLabel       string    `json:"size_label"`
	ContentType     string    `json:"type"`
	UploadedBy      string    `json:"uploaded_by"`
	UploadedAt      time.Time `json:"uploaded_at"`
	ExtractedText   *string   `json:"extracted_text,omitempty"`
	ExtractionError *string   `json:"text_extraction_error,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
