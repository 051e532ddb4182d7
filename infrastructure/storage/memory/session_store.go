package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/felixgeelhaar/upgrowth/domain/federation"
)

// SessionStore is an in-memory implementation of federation.SessionStore.
type SessionStore struct {
	sessions map[string]federation.Session
	mu       sync.RWMutex
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]federation.Session),
	}
}

// Put stores a session, replacing any previous session with the same ID.
func (s *SessionStore) Put(ctx context.Context, sess federation.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if sess.ID == "" {
		return federation.ErrInvalidSessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess
	return nil
}

// Get returns the session with the given ID.
func (s *SessionStore) Get(ctx context.Context, id string) (federation.Session, error) {
	if err := ctx.Err(); err != nil {
		return federation.Session{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return federation.Session{}, federation.ErrSessionNotFound
	}
	return sess, nil
}

// Delete removes the session with the given ID.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// List returns every stored session ordered by ID.
func (s *SessionStore) List(ctx context.Context) ([]federation.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]federation.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ federation.SessionStore = (*SessionStore)(nil)
