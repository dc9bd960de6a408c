package ports

import (
	"context"

	"mostrador/internal/domain"
)

// SessionStore persists the station session across restarts. It is an
// advisory cache of server-owned state: no expiry, no cross-field
// validation (the caller enforces the session invariant).
type SessionStore interface {
	// Load reads the persisted session, returning a zero Session when
	// nothing is stored.
	Load(ctx context.Context) (domain.Session, error)
	// Save writes the whole session snapshot.
	Save(ctx context.Context, session domain.Session) error
	// Clear wipes all persisted fields.
	Clear(ctx context.Context) error
	Close() error
}
