// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/gatherly/models"
)

// ListPolls returns all polls with nested questions and options, newest
// poll first, questions by creation time, options by display order. The
// derived fields (votes, user vote state) are left zero; the coordinator
// fills them in.
func (s *Store) ListPolls(ctx context.Context) ([]models.Poll, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, created_by, created_at, updated_at
		FROM polls
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	polls := []models.Poll{}
	index := make(map[string]int)
	for rows.Next() {
		var p models.Poll
		if err := rows.Scan(&p.ID, &p.Title, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		p.Questions = []models.PollQuestion{}
		index[p.ID] = len(polls)
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read polls: %w", err)
	}

	qrows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, question, description, uploaded_file_url,
		       uploaded_file_name, uploaded_file_type, extracted_text, created_at
		FROM poll_questions
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer qrows.Close()

	qindex := make(map[string][2]int) // question id -> (poll idx, question idx)
	for qrows.Next() {
		var q models.PollQuestion
		var desc, fileURL, fileName, fileType, extracted sql.NullString
		if err := qrows.Scan(&q.ID, &q.PollID, &q.Question, &desc, &fileURL,
			&fileName, &fileType, &extracted, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		q.Description = nullable(desc)
		q.FileURL = nullable(fileURL)
		q.FileName = nullable(fileName)
		q.FileType = nullable(fileType)
		q.ExtractedText = nullable(extracted)
		q.Options = []models.PollOption{}

		pi, ok := index[q.PollID]
		if !ok {
			continue
		}
		qindex[q.ID] = [2]int{pi, len(polls[pi].Questions)}
		polls[pi].Questions = append(polls[pi].Questions, q)
	}
	if err := qrows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read questions: %w", err)
	}

	orows, err := s.db.QueryContext(ctx, `
		SELECT id, question_id, option_text, option_order
		FROM poll_options
		ORDER BY option_order ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer orows.Close()

	for orows.Next() {
		var o models.PollOption
		if err := orows.Scan(&o.ID, &o.QuestionID, &o.Text, &o.Order); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		loc, ok := qindex[o.QuestionID]
		if !ok {
			continue
		}
		q := &polls[loc[0]].Questions[loc[1]]
		q.Options = append(q.Options, o)
	}
	if err := orows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read options: %w", err)
	}

	return polls, nil
}

// CountVotes returns the number of vote rows referencing the option
func (s *Store) CountVotes(ctx context.Context, optionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM poll_votes WHERE option_id = $1
	`, optionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

// FindVote returns the user's vote on the question, or nil when absent
func (s *Store) FindVote(ctx context.Context, questionID, userID string) (*models.PollVote, error) {
	var v models.PollVote
	err := s.db.QueryRowContext(ctx, `
		SELECT id, question_id, option_id, user_id, created_at
		FROM poll_votes
		WHERE question_id = $1 AND user_id = $2
	`, questionID, userID).Scan(&v.ID, &v.QuestionID, &v.OptionID, &v.UserID, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query vote: %w", err)
	}
	return &v, nil
}

func (s *Store) InsertPoll(ctx context.Context, p *models.Poll) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO polls (id, title, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.Title, p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}
	return nil
}

func (s *Store) InsertQuestion(ctx context.Context, q *models.PollQuestion) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poll_questions (id, poll_id, question, description,
			uploaded_file_url, uploaded_file_name, uploaded_file_type,
			extracted_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, q.ID, q.PollID, q.Question, toNull(q.Description), toNull(q.FileURL),
		toNull(q.FileName), toNull(q.FileType), toNull(q.ExtractedText), q.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}
	return nil
}

func (s *Store) InsertOption(ctx context.Context, o *models.PollOption) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poll_options (id, question_id, option_text, option_order)
		VALUES ($1, $2, $3, $4)
	`, o.ID, o.QuestionID, o.Text, o.Order)
	if err != nil {
		return fmt.Errorf("failed to insert option: %w", err)
	}
	return nil
}

func (s *Store) InsertVote(ctx context.Context, v *models.PollVote) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poll_votes (id, question_id, option_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, v.ID, v.QuestionID, v.OptionID, v.UserID, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}
	return nil
}

// UpdateVoteOption points an existing vote row at a different option
func (s *Store) UpdateVoteOption(ctx context.Context, voteID, optionID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE poll_votes SET option_id = $1 WHERE id = $2
	`, optionID, voteID)
	if err != nil {
		return fmt.Errorf("failed to update vote: %w", err)
	}
	return nil
}

func (s *Store) UpdatePollTitle(ctx context.Context, pollID, title string, updatedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE polls SET title = $1, updated_at = $2 WHERE id = $3
	`, title, updatedAt, pollID)
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}
	return nil
}

// UpdateQuestion applies the non-nil fields of the partial update
func (s *Store) UpdateQuestion(ctx context.Context, questionID string, fields models.QuestionUpdate) error {
	sets := []string{}
	args := []any{}
	if fields.Question != nil {
		args = append(args, *fields.Question)
		sets = append(sets, fmt.Sprintf("question = $%d", len(args)))
	}
	if fields.Description != nil {
		args = append(args, *fields.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, questionID)
	query := fmt.Sprintf("UPDATE poll_questions SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return nil
}

// UpdateOption applies the non-nil fields of the partial update
func (s *Store) UpdateOption(ctx context.Context, optionID string, fields models.OptionUpdate) error {
	if fields.Text == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE poll_options SET option_text = $1 WHERE id = $2
	`, *fields.Text, optionID)
	if err != nil {
		return fmt.Errorf("failed to update option: %w", err)
	}
	return nil
}

// Deletes rely on ON DELETE CASCADE for children and votes.

func (s *Store) DeletePoll(ctx context.Context, pollID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, pollID); err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	return nil
}

func (s *Store) DeleteQuestion(ctx context.Context, questionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM poll_questions WHERE id = $1`, questionID); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

func (s *Store) DeleteOption(ctx context.Context, optionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM poll_options WHERE id = $1`, optionID); err != nil {
		return fmt.Errorf("failed to delete option: %w", err)
	}
	return nil
}
