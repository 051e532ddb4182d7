package badger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/upgrowth/domain/mining"
	"github.com/felixgeelhaar/upgrowth/infrastructure/storage/badger"
)

func newTestResultStore(t *testing.T) *badger.ResultStore {
	t.Helper()

	s, err := badger.NewResultStore(badger.Config{InMemory: true})
	if err != nil {
		t.Fatalf("NewResultStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestResultStore_SaveAndLoad(t *testing.T) {
	s := newTestResultStore(t)
	ctx := context.Background()

	rs := mining.ResultSet{
		Itemsets: []mining.Itemset{
			{Items: []string{"bread", "milk"}, Utility: 42, Support: 7},
		},
		Partial: true,
		Stopped: mining.StopLimit,
	}

	if err := s.Save(ctx, "foodmart:100", rs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := s.Load(ctx, "foodmart:100")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Len() != 1 {
		t.Errorf("Len() = %d, want 1", loaded.Len())
	}
	if !loaded.Partial || loaded.Stopped != mining.StopLimit {
		t.Errorf("Partial = %v, Stopped = %q", loaded.Partial, loaded.Stopped)
	}
}

func TestResultStore_LoadMissing(t *testing.T) {
	s := newTestResultStore(t)

	_, err := s.Load(context.Background(), "absent")
	if !errors.Is(err, mining.ErrResultNotFound) {
		t.Errorf("Load() error = %v, want ErrResultNotFound", err)
	}
}

func TestResultStore_Delete(t *testing.T) {
	s := newTestResultStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "k", mining.ResultSet{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Load(ctx, "k"); !errors.Is(err, mining.ErrResultNotFound) {
		t.Errorf("Load() after Delete error = %v, want ErrResultNotFound", err)
	}
}

func TestResultStore_Keys(t *testing.T) {
	s := newTestResultStore(t)
	ctx := context.Background()

	for _, key := range []string{"b", "a", "c"} {
		if err := s.Save(ctx, key, mining.ResultSet{}); err != nil {
			t.Fatalf("Save(%q) error = %v", key, err)
		}
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() returned %d keys, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}
