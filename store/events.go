// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/gatherly/auth"
	"github.com/danielhkuo/gatherly/models"
)

// ListEvents returns all events, soonest first
func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, date, created_at
		FROM events
		ORDER BY date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}

func (s *Store) InsertEvent(ctx context.Context, e *models.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, name, date, created_at)
		VALUES ($1, $2, $3, $4)
	`, e.ID, e.Name, e.Date, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// ListRegistrations returns the user's registrations with the event joined in
func (s *Store) ListRegistrations(ctx context.Context, userID string) ([]models.Registration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.user_id, r.event_id, r.created_at,
		       e.id, e.name, e.date, e.created_at
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = $1
		ORDER BY e.date ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations: %w", err)
	}
	defer rows.Close()

	regs := []models.Registration{}
	for rows.Next() {
		var r models.Registration
		var e models.Event
		if err := rows.Scan(&r.ID, &r.UserID, &r.EventID, &r.CreatedAt,
			&e.ID, &e.Name, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		r.Event = &e
		regs = append(regs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read registrations: %w", err)
	}
	return regs, nil
}

// InsertRegistrations adds one registration row per event, atomically
func (s *Store) InsertRegistrations(ctx context.Context, userID string, eventIDs []string) error {
	if len(eventIDs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, eventID := range eventIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO registrations (id, user_id, event_id, created_at)
			VALUES ($1, $2, $3, $4)
		`, auth.NewID(), userID, eventID, now)
		if err != nil {
			return fmt.Errorf("failed to insert registration: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registrations: %w", err)
	}
	return nil
}

// DeleteRegistrations removes the user's registrations for the given events
func (s *Store) DeleteRegistrations(ctx context.Context, userID string, eventIDs []string) error {
	if len(eventIDs) == 0 {
		return nil
	}

	placeholders := make([]string, len(eventIDs))
	args := []any{userID}
	for i, id := range eventIDs {
		args = append(args, id)
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}

	query := fmt.Sprintf(`
		DELETE FROM registrations
		WHERE user_id = $1 AND event_id IN (%s)
	`, strings.Join(placeholders, ", "))

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete registrations: %w", err)
	}
	return nil
}
