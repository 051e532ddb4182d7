package federation

import (
	"context"
	"errors"
)

// ErrSessionNotFound indicates a lookup for a session ID that is not
// stored.
var ErrSessionNotFound = errors.New("session not found")

// ErrGlobalNotFound indicates no aggregated result is stored for the
// requested session round.
var ErrGlobalNotFound = errors.New("global result not found")

// ErrInvalidSessionID indicates an attempt to store a session without
// an ID.
var ErrInvalidSessionID = errors.New("invalid session id")

// SessionStore persists client sessions so an aggregation server can
// survive restarts mid round. Implementations live in
// infrastructure/storage.
type SessionStore interface {
	// Put stores a session, replacing any previous session with the
	// same ID.
	Put(ctx context.Context, s Session) error

	// Get returns the session with the given ID, or ErrSessionNotFound.
	Get(ctx context.Context, id string) (Session, error)

	// Delete removes the session with the given ID. Deleting a missing
	// session is not an error.
	Delete(ctx context.Context, id string) error

	// List returns every stored session.
	List(ctx context.Context) ([]Session, error)
}

// GlobalStore persists aggregated round results per session.
type GlobalStore interface {
	// SaveGlobal stores the aggregated result for one session round.
	SaveGlobal(ctx context.Context, sessionID string, g GlobalResult) error

	// LoadGlobal returns the aggregated result for one session round,
	// or ErrGlobalNotFound.
	LoadGlobal(ctx context.Context, sessionID string, round int) (GlobalResult, error)

	// LatestGlobal returns the most recent aggregated result for a
	// session, or ErrGlobalNotFound.
	LatestGlobal(ctx context.Context, sessionID string) (GlobalResult, error)
}
