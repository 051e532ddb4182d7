package memory

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/upgrowth/domain/federation"
	"github.com/felixgeelhaar/upgrowth/domain/mining"
)

// GlobalStore is an in-memory implementation of federation.GlobalStore.
type GlobalStore struct {
	// results maps session ID to per-round aggregated results.
	results map[string]map[int]federation.GlobalResult
	mu      sync.RWMutex
}

// NewGlobalStore creates a new in-memory global result store.
func NewGlobalStore() *GlobalStore {
	return &GlobalStore{
		results: make(map[string]map[int]federation.GlobalResult),
	}
}

// SaveGlobal stores the aggregated result for one session round,
// replacing any previous result for the same round.
func (s *GlobalStore) SaveGlobal(ctx context.Context, sessionID string, g federation.GlobalResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sessionID == "" {
		return federation.ErrInvalidSessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rounds, ok := s.results[sessionID]
	if !ok {
		rounds = make(map[int]federation.GlobalResult)
		s.results[sessionID] = rounds
	}
	rounds[g.Round] = cloneGlobal(g)
	return nil
}

// LoadGlobal returns the aggregated result for one session round.
func (s *GlobalStore) LoadGlobal(ctx context.Context, sessionID string, round int) (federation.GlobalResult, error) {
	if err := ctx.Err(); err != nil {
		return federation.GlobalResult{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.results[sessionID][round]
	if !ok {
		return federation.GlobalResult{}, federation.ErrGlobalNotFound
	}
	return cloneGlobal(g), nil
}

// LatestGlobal returns the aggregated result with the highest round
// for a session.
func (s *GlobalStore) LatestGlobal(ctx context.Context, sessionID string) (federation.GlobalResult, error) {
	if err := ctx.Err(); err != nil {
		return federation.GlobalResult{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rounds := s.results[sessionID]
	if len(rounds) == 0 {
		return federation.GlobalResult{}, federation.ErrGlobalNotFound
	}

	latest := -1
	for round := range rounds {
		if round > latest {
			latest = round
		}
	}
	return cloneGlobal(rounds[latest]), nil
}

// cloneGlobal copies the itemset slice so callers cannot mutate stored
// results.
func cloneGlobal(g federation.GlobalResult) federation.GlobalResult {
	out := g
	out.Itemsets = append([]mining.Itemset(nil), g.Itemsets...)
	return out
}

var _ federation.GlobalStore = (*GlobalStore)(nil)
