package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/felixgeelhaar/upgrowth/domain/mining"
)

// ResultStore is an in-memory implementation of mining.ResultStore.
// Result sets are stored as JSON so callers cannot mutate stored data
// through shared slices.
type ResultStore struct {
	results map[string][]byte
	mu      sync.RWMutex
}

// NewResultStore creates a new in-memory result store.
func NewResultStore() *ResultStore {
	return &ResultStore{
		results: make(map[string][]byte),
	}
}

// Save stores a result set under key, replacing any previous value.
func (s *ResultStore) Save(ctx context.Context, key string, rs mining.ResultSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(rs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[key] = data
	return nil
}

// Load returns the result set stored under key.
func (s *ResultStore) Load(ctx context.Context, key string) (mining.ResultSet, error) {
	if err := ctx.Err(); err != nil {
		return mining.ResultSet{}, err
	}

	s.mu.RLock()
	data, ok := s.results[key]
	s.mu.RUnlock()

	if !ok {
		return mining.ResultSet{}, mining.ErrResultNotFound
	}

	var rs mining.ResultSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return mining.ResultSet{}, err
	}
	return rs, nil
}

// Delete removes the result set stored under key.
func (s *ResultStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.results, key)
	return nil
}

// Keys returns every stored key in sorted order.
func (s *ResultStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.results))
	for k := range s.results {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

var _ mining.ResultStore = (*ResultStore)(nil)
