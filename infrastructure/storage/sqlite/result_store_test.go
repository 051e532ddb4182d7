package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/upgrowth/domain/mining"
	"github.com/felixgeelhaar/upgrowth/infrastructure/storage/sqlite"
)

func newTestResultStore(t *testing.T) *sqlite.ResultStore {
	t.Helper()

	s, err := sqlite.NewResultStore(testConfig(t))
	if err != nil {
		t.Fatalf("NewResultStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestResultStore_SaveAndLoad(t *testing.T) {
	t.Parallel()

	s := newTestResultStore(t)
	ctx := context.Background()

	rs := mining.ResultSet{
		Itemsets: []mining.Itemset{
			{Items: []string{"bread", "milk"}, Utility: 42, Support: 7},
		},
	}
	if err := s.Save(ctx, "foodmart:100", rs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := s.Load(ctx, "foodmart:100")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Len() != 1 || loaded.Itemsets[0].Utility != 42 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestResultStore_SaveReplaces(t *testing.T) {
	t.Parallel()

	s := newTestResultStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "k", mining.ResultSet{Partial: true, Stopped: mining.StopLimit}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(ctx, "k", mining.ResultSet{}); err != nil {
		t.Fatalf("Save() replace error = %v", err)
	}

	loaded, err := s.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Partial {
		t.Error("Partial should be false after replace")
	}
}

func TestResultStore_LoadMissing(t *testing.T) {
	t.Parallel()

	s := newTestResultStore(t)

	_, err := s.Load(context.Background(), "absent")
	if !errors.Is(err, mining.ErrResultNotFound) {
		t.Errorf("Load() error = %v, want ErrResultNotFound", err)
	}
}

func TestResultStore_DeleteAndKeys(t *testing.T) {
	t.Parallel()

	s := newTestResultStore(t)
	ctx := context.Background()

	for _, key := range []string{"b", "a"} {
		if err := s.Save(ctx, key, mining.ResultSet{}); err != nil {
			t.Fatalf("Save(%q) error = %v", key, err)
		}
	}

	if err := s.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 1 || keys[0] != "a" {
		t.Errorf("Keys() = %v, want [a]", keys)
	}
}
