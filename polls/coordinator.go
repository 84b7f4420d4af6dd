// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/gatherly/models"
)

// Store is the relational access the coordinator needs. store.Store
// satisfies it; tests substitute a fake.
type Store interface {
	ListPolls(ctx context.Context) ([]models.Poll, error)
	CountVotes(ctx context.Context, optionID string) (int, error)
	FindVote(ctx context.Context, questionID, userID string) (*models.PollVote, error)

	InsertPoll(ctx context.Context, p *models.Poll) error
	InsertQuestion(ctx context.Context, q *models.PollQuestion) error
	InsertOption(ctx context.Context, o *models.PollOption) error
	InsertVote(ctx context.Context, v *models.PollVote) error
	UpdateVoteOption(ctx context.Context, voteID, optionID string) error

	UpdatePollTitle(ctx context.Context, pollID, title string, updatedAt time.Time) error
	UpdateQuestion(ctx context.Context, questionID string, fields models.QuestionUpdate) error
	UpdateOption(ctx context.Context, optionID string, fields models.OptionUpdate) error

	DeletePoll(ctx context.Context, pollID string) error
	DeleteQuestion(ctx context.Context, questionID string) error
	DeleteOption(ctx context.Context, optionID string) error
}

// Session identifies the user the coordinator derives vote state for.
type Session interface {
	// UserID returns the signed-in user's ID, or false when anonymous.
	UserID() (string, bool)
}

// StaticSession is a Session with a fixed user ID. The empty string is an
// anonymous session.
type StaticSession string

func (s StaticSession) UserID() (string, bool) {
	return string(s), s != ""
}

// Coordinator owns one user's poll projection: an immutable snapshot of
// polls with derived vote counts and per-question vote state. Mutations
// update the snapshot optimistically and reconcile against the store in
// the background; Settle blocks until all reconciliation has finished.
type Coordinator struct {
	store   Store
	session Session
	logger  *slog.Logger

	mu      sync.Mutex
	polls   []models.Poll
	loading bool
	err     error

	pending sync.WaitGroup
}

// New returns a coordinator with an empty projection. Call FetchAll to
// populate it.
func New(store Store, session Session) *Coordinator {
	return &Coordinator{
		store:   store,
		session: session,
		logger:  slog.Default(),
		polls:   []models.Poll{},
	}
}

// Snapshot returns a copy of the current projection. Callers may read and
// modify it freely.
func (c *Coordinator) Snapshot() []models.Poll {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clonePolls(c.polls)
}

// Loading reports whether a foreground fetch is in progress. Background
// reconciling fetches never set it.
func (c *Coordinator) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the error from the most recent fetch, or nil after a
// successful one.
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Settle blocks until every in-flight background reconciliation completes.
func (c *Coordinator) Settle() {
	c.pending.Wait()
}

// FetchAll rebuilds the projection from the store: every poll with nested
// questions and options, per-option vote counts, and the session user's
// vote state per question. The rebuild is all or nothing: on any poll or
// count read failure the previous snapshot is kept and a *FetchError is
// recorded and returned. A failed vote lookup only logs and leaves that
// question unvoted. showLoading toggles the loading flag for the duration;
// background refreshes pass false.
func (c *Coordinator) FetchAll(ctx context.Context, showLoading bool) ([]models.Poll, error) {
	if showLoading {
		c.mu.Lock()
		c.loading = true
		c.mu.Unlock()
		defer func() {
			c.mu.Lock()
			c.loading = false
			c.mu.Unlock()
		}()
	}

	userID, authed := c.session.UserID()

	fetched, err := c.store.ListPolls(ctx)
	if err != nil {
		return nil, c.recordFetchErr(err)
	}

	for pi := range fetched {
		for qi := range fetched[pi].Questions {
			q := &fetched[pi].Questions[qi]
			sort.Slice(q.Options, func(i, j int) bool {
				return q.Options[i].Order < q.Options[j].Order
			})
			for oi := range q.Options {
				count, err := c.store.CountVotes(ctx, q.Options[oi].ID)
				if err != nil {
					return nil, c.recordFetchErr(err)
				}
				q.Options[oi].Votes = count
			}
			if authed {
				vote, err := c.store.FindVote(ctx, q.ID, userID)
				if err != nil {
					c.logger.Warn("failed to look up user vote",
						"question_id", q.ID, "user_id", userID, "error", err)
					continue
				}
				if vote != nil {
					q.UserVoted = true
					q.UserVoteOptionID = vote.OptionID
				}
			}
		}
	}

	c.mu.Lock()
	c.polls = fetched
	c.err = nil
	c.mu.Unlock()
	return clonePolls(fetched), nil
}

// Vote records the user's choice on a question. The projection is updated
// synchronously: a first vote adds one to the chosen option; a revote moves
// the vote, decrementing the previous option (floored at zero) and
// incrementing the new one. The vote row is then upserted in the background
// (update the existing (question, user) row if present, insert otherwise)
// followed by an unconditional silent refetch; remote failures are logged,
// never surfaced, and the refetch repairs the projection.
func (c *Coordinator) Vote(ctx context.Context, questionID, optionID string) error {
	userID, authed := c.session.UserID()
	if !authed {
		return ErrAuthRequired
	}

	c.mu.Lock()
	next := clonePolls(c.polls)
	if q := findQuestion(next, questionID); q != nil {
		applyVote(q, optionID)
	}
	c.polls = next
	c.mu.Unlock()

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		// The request context ends with the 202 response; reconciliation
		// outlives it.
		ctx := context.Background()

		existing, err := c.store.FindVote(ctx, questionID, userID)
		if err != nil {
			c.logger.Warn("failed to look up vote for upsert",
				"question_id", questionID, "user_id", userID, "error", err)
		} else if existing != nil {
			if err := c.store.UpdateVoteOption(ctx, existing.ID, optionID); err != nil {
				c.logger.Warn("failed to move vote",
					"vote_id", existing.ID, "option_id", optionID, "error", err)
			}
		} else {
			vote := &models.PollVote{
				ID:         uuid.NewString(),
				QuestionID: questionID,
				OptionID:   optionID,
				UserID:     userID,
				CreatedAt:  time.Now(),
			}
			if err := c.store.InsertVote(ctx, vote); err != nil {
				c.logger.Warn("failed to insert vote",
					"question_id", questionID, "user_id", userID, "error", err)
			}
		}

		if _, err := c.FetchAll(ctx, false); err != nil {
			c.logger.Warn("reconciling refetch after vote failed", "error", err)
		}
	}()

	return nil
}

// CreatePoll inserts the poll, then each question, then each question's
// options with zero-based display order by input position. Inserts are
// sequential and not rolled back on failure; any failure returns a
// *CreationError wrapping the cause. On success the projection is refetched
// with the loading flag shown.
func (c *Coordinator) CreatePoll(ctx context.Context, title string, questions []models.QuestionInput) error {
	userID, authed := c.session.UserID()
	if !authed {
		return ErrAuthRequired
	}

	now := time.Now()
	poll := &models.Poll{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.store.InsertPoll(ctx, poll); err != nil {
		return &CreationError{Title: title, Err: err}
	}

	for _, input := range questions {
		question := &models.PollQuestion{
			ID:            uuid.NewString(),
			PollID:        poll.ID,
			Question:      input.Question,
			Description:   input.Description,
			FileURL:       input.FileURL,
			FileName:      input.FileName,
			FileType:      input.FileType,
			ExtractedText: input.ExtractedText,
			CreatedAt:     time.Now(),
		}
		if err := c.store.InsertQuestion(ctx, question); err != nil {
			return &CreationError{Title: title, Err: err}
		}
		for i, text := range input.Options {
			option := &models.PollOption{
				ID:         uuid.NewString(),
				QuestionID: question.ID,
				Text:       text,
				Order:      i,
			}
			if err := c.store.InsertOption(ctx, option); err != nil {
				return &CreationError{Title: title, Err: err}
			}
		}
	}

	if _, err := c.FetchAll(ctx, true); err != nil {
		c.logger.Warn("refetch after poll creation failed", "error", err)
	}
	return nil
}

// UpdatePoll renames a poll, then refetches with the loading flag shown.
func (c *Coordinator) UpdatePoll(ctx context.Context, pollID, title string) error {
	if err := c.store.UpdatePollTitle(ctx, pollID, title, time.Now()); err != nil {
		return &WriteError{Op: "update poll", Err: err}
	}
	if _, err := c.FetchAll(ctx, true); err != nil {
		c.logger.Warn("refetch after poll update failed", "error", err)
	}
	return nil
}

// UpdateQuestion applies a partial question update, then refetches with the
// loading flag shown.
func (c *Coordinator) UpdateQuestion(ctx context.Context, questionID string, fields models.QuestionUpdate) error {
	if err := c.store.UpdateQuestion(ctx, questionID, fields); err != nil {
		return &WriteError{Op: "update question", Err: err}
	}
	if _, err := c.FetchAll(ctx, true); err != nil {
		c.logger.Warn("refetch after question update failed", "error", err)
	}
	return nil
}

// UpdateOption applies a partial option update, then refetches with the
// loading flag shown.
func (c *Coordinator) UpdateOption(ctx context.Context, optionID string, fields models.OptionUpdate) error {
	if err := c.store.UpdateOption(ctx, optionID, fields); err != nil {
		return &WriteError{Op: "update option", Err: err}
	}
	if _, err := c.FetchAll(ctx, true); err != nil {
		c.logger.Warn("refetch after option update failed", "error", err)
	}
	return nil
}

// DeletePoll removes the poll from the projection immediately and deletes
// it remotely in the background. A remote failure is logged and repaired by
// a silent refetch, never surfaced.
func (c *Coordinator) DeletePoll(ctx context.Context, pollID string) {
	c.optimisticRemove(func(next []models.Poll) []models.Poll {
		for i := range next {
			if next[i].ID == pollID {
				return append(next[:i], next[i+1:]...)
			}
		}
		return next
	})
	c.reconcileDelete("poll", pollID, c.store.DeletePoll)
}

// DeleteQuestion removes the question from the projection immediately and
// deletes it remotely in the background, same failure handling as
// DeletePoll.
func (c *Coordinator) DeleteQuestion(ctx context.Context, questionID string) {
	c.optimisticRemove(func(next []models.Poll) []models.Poll {
		for pi := range next {
			qs := next[pi].Questions
			for qi := range qs {
				if qs[qi].ID == questionID {
					next[pi].Questions = append(qs[:qi], qs[qi+1:]...)
					return next
				}
			}
		}
		return next
	})
	c.reconcileDelete("question", questionID, c.store.DeleteQuestion)
}

// DeleteOption removes the option from the projection immediately and
// deletes it remotely in the background, same failure handling as
// DeletePoll.
func (c *Coordinator) DeleteOption(ctx context.Context, optionID string) {
	c.optimisticRemove(func(next []models.Poll) []models.Poll {
		for pi := range next {
			for qi := range next[pi].Questions {
				q := &next[pi].Questions[qi]
				for oi := range q.Options {
					if q.Options[oi].ID == optionID {
						q.Options = append(q.Options[:oi], q.Options[oi+1:]...)
						return next
					}
				}
			}
		}
		return next
	})
	c.reconcileDelete("option", optionID, c.store.DeleteOption)
}

func (c *Coordinator) optimisticRemove(remove func([]models.Poll) []models.Poll) {
	c.mu.Lock()
	c.polls = remove(clonePolls(c.polls))
	c.mu.Unlock()
}

func (c *Coordinator) reconcileDelete(kind, id string, del func(context.Context, string) error) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		ctx := context.Background()
		if err := del(ctx, id); err != nil {
			c.logger.Warn("failed to delete "+kind, "id", id, "error", err)
			if _, err := c.FetchAll(ctx, false); err != nil {
				c.logger.Warn("reconciling refetch after failed delete failed", "error", err)
			}
		}
	}()
}

func (c *Coordinator) recordFetchErr(err error) error {
	ferr := &FetchError{Err: err}
	c.mu.Lock()
	c.err = ferr
	c.mu.Unlock()
	c.logger.Error("failed to fetch polls", "error", err)
	return ferr
}

// applyVote mutates the question in place with the optimistic delta: +1 on
// the chosen option for a first vote, move semantics on a revote with the
// previous option floored at zero.
func applyVote(q *models.PollQuestion, optionID string) {
	for i := range q.Options {
		o := &q.Options[i]
		switch {
		case o.ID == optionID:
			if !q.UserVoted || q.UserVoteOptionID != optionID {
				o.Votes++
			}
		case q.UserVoted && o.ID == q.UserVoteOptionID:
			if o.Votes > 0 {
				o.Votes--
			}
		}
	}
	q.UserVoted = true
	q.UserVoteOptionID = optionID
}

func findQuestion(polls []models.Poll, questionID string) *models.PollQuestion {
	for pi := range polls {
		for qi := range polls[pi].Questions {
			if polls[pi].Questions[qi].ID == questionID {
				return &polls[pi].Questions[qi]
			}
		}
	}
	return nil
}

// clonePolls deep-copies the slice structure. Pointer fields on questions
// are shared; nothing mutates through them.
func clonePolls(polls []models.Poll) []models.Poll {
	out := make([]models.Poll, len(polls))
	copy(out, polls)
	for pi := range out {
		questions := make([]models.PollQuestion, len(out[pi].Questions))
		copy(questions, out[pi].Questions)
		for qi := range questions {
			options := make([]models.PollOption, len(questions[qi].Options))
			copy(options, questions[qi].Options)
			questions[qi].Options = options
		}
		out[pi].Questions = questions
	}
	return out
}
