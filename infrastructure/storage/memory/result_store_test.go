package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/upgrowth/domain/mining"
	"github.com/felixgeelhaar/upgrowth/infrastructure/storage/memory"
)

func sampleResultSet() mining.ResultSet {
	return mining.ResultSet{
		Itemsets: []mining.Itemset{
			{Items: []string{"bread", "milk"}, Utility: 42, Support: 7},
			{Items: []string{"milk"}, Utility: 30, Support: 12},
		},
	}
}

func TestResultStore_SaveAndLoad(t *testing.T) {
	t.Parallel()

	store := memory.NewResultStore()
	ctx := context.Background()

	if err := store.Save(ctx, "foodmart:100", sampleResultSet()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rs, err := store.Load(ctx, "foodmart:100")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rs.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rs.Len())
	}
	if rs.Itemsets[0].Utility != 42 {
		t.Errorf("Itemsets[0].Utility = %v, want 42", rs.Itemsets[0].Utility)
	}
}

func TestResultStore_LoadMissing(t *testing.T) {
	t.Parallel()

	store := memory.NewResultStore()

	_, err := store.Load(context.Background(), "absent")
	if !errors.Is(err, mining.ErrResultNotFound) {
		t.Errorf("Load() error = %v, want ErrResultNotFound", err)
	}
}

func TestResultStore_Delete(t *testing.T) {
	t.Parallel()

	store := memory.NewResultStore()
	ctx := context.Background()

	if err := store.Save(ctx, "k", sampleResultSet()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx, "k"); !errors.Is(err, mining.ErrResultNotFound) {
		t.Errorf("Load() after Delete error = %v, want ErrResultNotFound", err)
	}

	// Deleting a missing key is not an error.
	if err := store.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestResultStore_Keys(t *testing.T) {
	t.Parallel()

	store := memory.NewResultStore()
	ctx := context.Background()

	for _, key := range []string{"b", "a", "c"} {
		if err := store.Save(ctx, key, sampleResultSet()); err != nil {
			t.Fatalf("Save(%q) error = %v", key, err)
		}
	}

	keys, err := store.Keys(ctx)
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

func TestResultStore_IsolatesStoredData(t *testing.T) {
	t.Parallel()

	store := memory.NewResultStore()
	ctx := context.Background()

	rs := sampleResultSet()
	if err := store.Save(ctx, "k", rs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	rs.Itemsets[0].Utility = 0

	loaded, err := store.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Itemsets[0].Utility != 42 {
		t.Errorf("stored utility = %v after caller mutation, want 42", loaded.Itemsets[0].Utility)
	}
}
