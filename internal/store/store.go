package store

import (
	"context"

	"github.com/mindweave/mindweave/internal/core/model"
)

// Store persists learning sessions. Implementations must serialize
// concurrent mutations of the same session: Mutate holds a per-session
// lock for the duration of fn, and fn's changes are only persisted when
// it returns nil.
//
// Get and Mutate create the session if it does not exist yet, so callers
// never observe a missing session. Returned sessions are deep copies;
// mutating them does not affect the stored state.
type Store interface {
	// Get returns a copy of the session, creating an empty one if absent.
	Get(ctx context.Context, sessionID string) (*model.Session, error)

	// Mutate applies fn to the session under the session's lock and
	// persists the result if fn returns nil. fn receives the live copy
	// and may modify it freely.
	Mutate(ctx context.Context, sessionID string, fn func(*model.Session) error) error
}
