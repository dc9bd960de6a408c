package services

import (
	"context"
	"sync"

	"mostrador/internal/domain"
	"mostrador/internal/logging"
	"mostrador/internal/ports"
)

// SessionManager owns the station session: the single shared mutable
// resource. All reads go through Snapshot, all writes through Update
// or Clear, which persist write-through and notify subscribers. This
// replaces ambient globals with one guarded access point.
type SessionManager struct {
	mu        sync.RWMutex
	store     ports.SessionStore
	current   domain.Session
	listeners []func(domain.Session)
}

// NewSessionManager loads the persisted session and wraps it.
func NewSessionManager(ctx context.Context, store ports.SessionStore) (*SessionManager, error) {
	session, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !session.Valid() {
		// A cached shift without an employee cannot be acted on;
		// drop the shift half and let restore re-derive it.
		logging.Logger.Warn("Persisted session violated the shift/employee invariant, dropping shift snapshot")
		session.ActiveShift = nil
	}
	return &SessionManager{store: store, current: session}, nil
}

// Snapshot returns a copy of the current session.
func (m *SessionManager) Snapshot() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Token returns the current bearer token ("" when anonymous). Wired
// into the API client so re-login needs no client rebuild.
func (m *SessionManager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Token
}

// Subscribe registers a listener invoked (outside the lock) after
// every session change.
func (m *SessionManager) Subscribe(fn func(domain.Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Update applies mutate under the lock, persists the result, and
// notifies subscribers. mutate sees the current session and edits it
// in place; completion handlers use this to re-check the tracked
// shift identity before mutating (stale completions must leave the
// session alone).
func (m *SessionManager) Update(ctx context.Context, mutate func(*domain.Session)) error {
	m.mu.Lock()
	mutate(&m.current)
	snapshot := m.current
	listeners := m.listeners
	m.mu.Unlock()

	if err := m.store.Save(ctx, snapshot); err != nil {
		// The in-memory session stays authoritative for this process;
		// losing the write-through only costs reload continuity.
		logging.Logger.Error("Failed to persist session", "error", err)
	}
	for _, fn := range listeners {
		fn(snapshot)
	}
	return nil
}

// Clear wipes the session, in memory and on disk. Used by logout and
// by the 401 interception path: both are a full wipe, employee and
// shift included, because the station is shared.
func (m *SessionManager) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.current = domain.Session{}
	snapshot := m.current
	listeners := m.listeners
	m.mu.Unlock()

	err := m.store.Clear(ctx)
	if err != nil {
		logging.Logger.Error("Failed to clear persisted session", "error", err)
	}
	for _, fn := range listeners {
		fn(snapshot)
	}
	return err
}

// HandleUnauthorized is the API client's 401 hook: full session wipe.
// Runs with a background context because it fires from arbitrary
// in-flight calls.
func (m *SessionManager) HandleUnauthorized() {
	logging.Logger.Warn("Unauthorized response, wiping station session")
	if err := m.Clear(context.Background()); err != nil {
		logging.Logger.Error("Failed to wipe session after 401", "error", err)
	}
}
