// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"fmt"

	"github.com/danielhkuo/gatherly/models"
)

// Store is the relational access the service needs.
type Store interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	ListRegistrations(ctx context.Context, userID string) ([]models.Registration, error)
	InsertRegistrations(ctx context.Context, userID string, eventIDs []string) error
	DeleteRegistrations(ctx context.Context, userID string, eventIDs []string) error
}

// Service reconciles a user's event registrations against a selection.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Overview returns every event plus the user's registrations. Anonymous
// callers get the events with an empty registration list.
func (s *Service) Overview(ctx context.Context, userID string) (models.EventOverviewResponse, error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return models.EventOverviewResponse{}, err
	}
	regs := []models.Registration{}
	if userID != "" {
		regs, err = s.store.ListRegistrations(ctx, userID)
		if err != nil {
			return models.EventOverviewResponse{}, err
		}
	}
	return models.EventOverviewResponse{Events: events, Registrations: regs}, nil
}

// Submit makes the user's registrations match the selected event IDs by
// diffing against the current set: missing selections are inserted,
// deselected ones removed, everything already matching is untouched. The
// refreshed registration list is returned.
func (s *Service) Submit(ctx context.Context, userID string, selected []string) ([]models.Registration, error) {
	current, err := s.store.ListRegistrations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load registrations: %w", err)
	}

	registered := make(map[string]bool, len(current))
	for _, r := range current {
		registered[r.EventID] = true
	}
	wanted := make(map[string]bool, len(selected))
	for _, id := range selected {
		wanted[id] = true
	}

	toAdd := []string{}
	for _, id := range selected {
		if !registered[id] {
			toAdd = append(toAdd, id)
		}
	}
	toRemove := []string{}
	for _, r := range current {
		if !wanted[r.EventID] {
			toRemove = append(toRemove, r.EventID)
		}
	}

	if err := s.store.InsertRegistrations(ctx, userID, toAdd); err != nil {
		return nil, fmt.Errorf("failed to add registrations: %w", err)
	}
	if err := s.store.DeleteRegistrations(ctx, userID, toRemove); err != nil {
		return nil, fmt.Errorf("failed to remove registrations: %w", err)
	}

	return s.store.ListRegistrations(ctx, userID)
}

// Unregister drops the user's registration for one event and returns the
// refreshed list.
func (s *Service) Unregister(ctx context.Context, userID, eventID string) ([]models.Registration, error) {
	if err := s.store.DeleteRegistrations(ctx, userID, []string{eventID}); err != nil {
		return nil, fmt.Errorf("failed to unregister: %w", err)
	}
	return s.store.ListRegistrations(ctx, userID)
}
