// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/danielhkuo/gatherly/auth"
	"github.com/danielhkuo/gatherly/db"
	"github.com/danielhkuo/gatherly/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return New(conn)
}

func seedUser(t *testing.T, s *Store, email string) string {
	t.Helper()
	u := &UserRecord{
		UserProfile: models.UserProfile{
			ID:        auth.NewID(),
			Email:     email,
			Role:      models.RoleUser,
			CreatedAt: time.Now(),
		},
		PasswordHash: "x",
	}
	if err := s.InsertUser(context.Background(), u); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u.ID
}

// seedPoll inserts one poll with one question and the given option texts,
// and returns the poll, question, and option IDs in order.
func seedPoll(t *testing.T, s *Store, creator, title string, optionTexts []string) (string, string, []string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	poll := &models.Poll{ID: auth.NewID(), Title: title, CreatedBy: creator, CreatedAt: now, UpdatedAt: now}
	if err := s.InsertPoll(ctx, poll); err != nil {
		t.Fatalf("failed to seed poll: %v", err)
	}

	q := &models.PollQuestion{ID: auth.NewID(), PollID: poll.ID, Question: "pick one", CreatedAt: now}
	if err := s.InsertQuestion(ctx, q); err != nil {
		t.Fatalf("failed to seed question: %v", err)
	}

	optionIDs := make([]string, len(optionTexts))
	for i, text := range optionTexts {
		o := &models.PollOption{ID: auth.NewID(), QuestionID: q.ID, Text: text, Order: i}
		if err := s.InsertOption(ctx, o); err != nil {
			t.Fatalf("failed to seed option: %v", err)
		}
		optionIDs[i] = o.ID
	}
	return poll.ID, q.ID, optionIDs
}

func TestListPollsNestingAndOrder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	userID := seedUser(t, s, "admin@example.com")
	now := time.Now()

	older := &models.Poll{ID: auth.NewID(), Title: "older", CreatedBy: userID,
		CreatedAt: now.Add(-time.Hour), UpdatedAt: now.Add(-time.Hour)}
	newer := &models.Poll{ID: auth.NewID(), Title: "newer", CreatedBy: userID,
		CreatedAt: now, UpdatedAt: now}
	for _, p := range []*models.Poll{older, newer} {
		if err := s.InsertPoll(ctx, p); err != nil {
			t.Fatalf("failed to insert poll: %v", err)
		}
	}

	q := &models.PollQuestion{ID: auth.NewID(), PollID: older.ID, Question: "q1", CreatedAt: now}
	if err := s.InsertQuestion(ctx, q); err != nil {
		t.Fatalf("failed to insert question: %v", err)
	}
	// Insert options out of display order to confirm the sort.
	second := &models.PollOption{ID: auth.NewID(), QuestionID: q.ID, Text: "b", Order: 1}
	first := &models.PollOption{ID: auth.NewID(), QuestionID: q.ID, Text: "a", Order: 0}
	for _, o := range []*models.PollOption{second, first} {
		if err := s.InsertOption(ctx, o); err != nil {
			t.Fatalf("failed to insert option: %v", err)
		}
	}

	polls, err := s.ListPolls(ctx)
	if err != nil {
		t.Fatalf("ListPolls failed: %v", err)
	}
	if len(polls) != 2 {
		t.Fatalf("expected 2 polls, got %d", len(polls))
	}
	if polls[0].ID != newer.ID {
		t.Errorf("expected newest poll first, got %q", polls[0].Title)
	}
	if len(polls[0].Questions) != 0 {
		t.Errorf("expected no questions on empty poll, got %d", len(polls[0].Questions))
	}
	if len(polls[1].Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(polls[1].Questions))
	}
	opts := polls[1].Questions[0].Options
	if len(opts) != 2 || opts[0].Text != "a" || opts[1].Text != "b" {
		t.Errorf("options not in display order: %+v", opts)
	}
}

func TestVoteFindCountAndRetarget(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	userID := seedUser(t, s, "voter@example.com")
	_, questionID, optionIDs := seedPoll(t, s, userID, "lunch", []string{"pizza", "tacos"})

	found, err := s.FindVote(ctx, questionID, userID)
	if err != nil {
		t.Fatalf("FindVote failed: %v", err)
	}
	if found != nil {
		t.Fatalf("expected no vote yet, got %+v", found)
	}

	vote := &models.PollVote{ID: auth.NewID(), QuestionID: questionID,
		OptionID: optionIDs[0], UserID: userID, CreatedAt: time.Now()}
	if err := s.InsertVote(ctx, vote); err != nil {
		t.Fatalf("InsertVote failed: %v", err)
	}

	found, err = s.FindVote(ctx, questionID, userID)
	if err != nil {
		t.Fatalf("FindVote failed: %v", err)
	}
	if found == nil || found.OptionID != optionIDs[0] {
		t.Fatalf("expected vote on first option, got %+v", found)
	}

	if err := s.UpdateVoteOption(ctx, vote.ID, optionIDs[1]); err != nil {
		t.Fatalf("UpdateVoteOption failed: %v", err)
	}
	count, err := s.CountVotes(ctx, optionIDs[1])
	if err != nil {
		t.Fatalf("CountVotes failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 vote on new option, got %d", count)
	}
	count, _ = s.CountVotes(ctx, optionIDs[0])
	if count != 0 {
		t.Errorf("expected 0 votes on old option, got %d", count)
	}
}

func TestDuplicateVoteRejected(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	userID := seedUser(t, s, "voter@example.com")
	_, questionID, optionIDs := seedPoll(t, s, userID, "lunch", []string{"pizza", "tacos"})

	v1 := &models.PollVote{ID: auth.NewID(), QuestionID: questionID,
		OptionID: optionIDs[0], UserID: userID, CreatedAt: time.Now()}
	if err := s.InsertVote(ctx, v1); err != nil {
		t.Fatalf("first InsertVote failed: %v", err)
	}

	v2 := &models.PollVote{ID: auth.NewID(), QuestionID: questionID,
		OptionID: optionIDs[1], UserID: userID, CreatedAt: time.Now()}
	if err := s.InsertVote(ctx, v2); err == nil {
		t.Fatal("expected unique constraint violation on second vote")
	}
}

func TestDeletePollCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	userID := seedUser(t, s, "admin@example.com")
	pollID, questionID, optionIDs := seedPoll(t, s, userID, "doomed", []string{"yes", "no"})

	vote := &models.PollVote{ID: auth.NewID(), QuestionID: questionID,
		OptionID: optionIDs[0], UserID: userID, CreatedAt: time.Now()}
	if err := s.InsertVote(ctx, vote); err != nil {
		t.Fatalf("InsertVote failed: %v", err)
	}

	if err := s.DeletePoll(ctx, pollID); err != nil {
		t.Fatalf("DeletePoll failed: %v", err)
	}

	polls, err := s.ListPolls(ctx)
	if err != nil {
		t.Fatalf("ListPolls failed: %v", err)
	}
	if len(polls) != 0 {
		t.Errorf("expected no polls after delete, got %d", len(polls))
	}
	found, err := s.FindVote(ctx, questionID, userID)
	if err != nil {
		t.Fatalf("FindVote failed: %v", err)
	}
	if found != nil {
		t.Error("expected vote row removed by cascade")
	}
}

func TestPartialUpdates(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	userID := seedUser(t, s, "admin@example.com")
	pollID, questionID, optionIDs := seedPoll(t, s, userID, "before", []string{"old"})

	if err := s.UpdatePollTitle(ctx, pollID, "after", time.Now()); err != nil {
		t.Fatalf("UpdatePollTitle failed: %v", err)
	}
	desc := "details"
	if err := s.UpdateQuestion(ctx, questionID, models.QuestionUpdate{Description: &desc}); err != nil {
		t.Fatalf("UpdateQuestion failed: %v", err)
	}
	text := "new"
	if err := s.UpdateOption(ctx, optionIDs[0], models.OptionUpdate{Text: &text}); err != nil {
		t.Fatalf("UpdateOption failed: %v", err)
	}

	polls, err := s.ListPolls(ctx)
	if err != nil {
		t.Fatalf("ListPolls failed: %v", err)
	}
	if polls[0].Title != "after" {
		t.Errorf("expected updated title, got %q", polls[0].Title)
	}
	q := polls[0].Questions[0]
	if q.Question != "pick one" {
		t.Errorf("question text should be untouched, got %q", q.Question)
	}
	if q.Description == nil || *q.Description != "details" {
		t.Errorf("expected updated description, got %v", q.Description)
	}
	if q.Options[0].Text != "new" {
		t.Errorf("expected updated option text, got %q", q.Options[0].Text)
	}
}

func TestRegistrationsRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	userID := seedUser(t, s, "member@example.com")

	events := []*models.Event{
		{ID: auth.NewID(), Name: "kickoff", Date: time.Now().Add(24 * time.Hour), CreatedAt: time.Now()},
		{ID: auth.NewID(), Name: "retro", Date: time.Now().Add(48 * time.Hour), CreatedAt: time.Now()},
	}
	for _, e := range events {
		if err := s.InsertEvent(ctx, e); err != nil {
			t.Fatalf("InsertEvent failed: %v", err)
		}
	}

	if err := s.InsertRegistrations(ctx, userID, []string{events[0].ID, events[1].ID}); err != nil {
		t.Fatalf("InsertRegistrations failed: %v", err)
	}
	regs, err := s.ListRegistrations(ctx, userID)
	if err != nil {
		t.Fatalf("ListRegistrations failed: %v", err)
	}
	if len(regs) != 2 {
		t.Fatalf("expected 2 registrations, got %d", len(regs))
	}
	if regs[0].Event == nil || regs[0].Event.Name != "kickoff" {
		t.Errorf("expected joined event on registration, got %+v", regs[0].Event)
	}

	if err := s.DeleteRegistrations(ctx, userID, []string{events[0].ID}); err != nil {
		t.Fatalf("DeleteRegistrations failed: %v", err)
	}
	regs, err = s.ListRegistrations(ctx, userID)
	if err != nil {
		t.Fatalf("ListRegistrations failed: %v", err)
	}
	if len(regs) != 1 || regs[0].EventID != events[1].ID {
		t.Errorf("expected only the second registration to remain, got %+v", regs)
	}
}

func TestUploadStats(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	userID := seedUser(t, s, "uploader@example.com")

	for i, size := range []int64{100, 250} {
		f := &models.UploadedFile{
			ID:           auth.NewID(),
			Name:         auth.NewID() + ".pdf",
			OriginalName: "doc.pdf",
			ContentType:  "application/pdf",
			Size:         size,
			UploadedBy:   userID,
			UploadedAt:   time.Now().Add(time.Duration(i) * time.Second),
		}
		if err := s.InsertUpload(ctx, f); err != nil {
			t.Fatalf("InsertUpload failed: %v", err)
		}
	}

	count, total, err := s.UploadStats(ctx)
	if err != nil {
		t.Fatalf("UploadStats failed: %v", err)
	}
	if count != 2 || total != 350 {
		t.Errorf("expected 2 files totalling 350 bytes, got %d and %d", count, total)
	}

	files, err := s.ListUploads(ctx)
	if err != nil {
		t.Fatalf("ListUploads failed: %v", err)
	}
	if len(files) != 2 || files[0].Size != 250 {
		t.Errorf("expected newest upload first, got %+v", files)
	}
}
