// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import "sync"

// Manager hands out one coordinator per user so each signed-in session owns
// its projection. Anonymous requests share a single coordinator keyed by
// the empty string.
type Manager struct {
	store Store

	mu           sync.Mutex
	coordinators map[string]*Coordinator
}

func NewManager(store Store) *Manager {
	return &Manager{
		store:        store,
		coordinators: make(map[string]*Coordinator),
	}
}

// For returns the coordinator for the user, creating it on first use. Pass
// the empty string for the shared anonymous coordinator.
func (m *Manager) For(userID string) *Coordinator {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coordinators[userID]
	if !ok {
		c = New(m.store, StaticSession(userID))
		m.coordinators[userID] = c
	}
	return c
}

// Settle waits for background reconciliation across every coordinator.
func (m *Manager) Settle() {
	m.mu.Lock()
	all := make([]*Coordinator, 0, len(m.coordinators))
	for _, c := range m.coordinators {
		all = append(all, c)
	}
	m.mu.Unlock()

	for _, c := range all {
		c.Settle()
	}
}
