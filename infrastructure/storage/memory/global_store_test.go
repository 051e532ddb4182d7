package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/upgrowth/domain/federation"
	"github.com/felixgeelhaar/upgrowth/domain/mining"
	"github.com/felixgeelhaar/upgrowth/infrastructure/storage/memory"
)

func testGlobal(round int, utility float64) federation.GlobalResult {
	return federation.GlobalResult{
		Round:                round,
		ParticipatingClients: 2,
		TotalTransactions:    10,
		Itemsets: []mining.Itemset{
			mining.NewItemset([]string{"milk", "bread"}, utility, 3),
		},
	}
}

func TestGlobalStore_SaveAndLoad(t *testing.T) {
	t.Parallel()

	store := memory.NewGlobalStore()
	ctx := context.Background()

	if err := store.SaveGlobal(ctx, "run-1", testGlobal(0, 42)); err != nil {
		t.Fatalf("SaveGlobal() error = %v", err)
	}

	got, err := store.LoadGlobal(ctx, "run-1", 0)
	if err != nil {
		t.Fatalf("LoadGlobal() error = %v", err)
	}
	if got.Round != 0 || len(got.Itemsets) != 1 || got.Itemsets[0].Utility != 42 {
		t.Errorf("LoadGlobal() = %+v, want round 0 with one itemset of utility 42", got)
	}
}

func TestGlobalStore_SaveReplacesRound(t *testing.T) {
	t.Parallel()

	store := memory.NewGlobalStore()
	ctx := context.Background()

	if err := store.SaveGlobal(ctx, "run-1", testGlobal(0, 42)); err != nil {
		t.Fatalf("SaveGlobal() error = %v", err)
	}
	if err := store.SaveGlobal(ctx, "run-1", testGlobal(0, 99)); err != nil {
		t.Fatalf("SaveGlobal() error = %v", err)
	}

	got, err := store.LoadGlobal(ctx, "run-1", 0)
	if err != nil {
		t.Fatalf("LoadGlobal() error = %v", err)
	}
	if got.Itemsets[0].Utility != 99 {
		t.Errorf("utility = %v, want 99 after replace", got.Itemsets[0].Utility)
	}
}

func TestGlobalStore_LoadMissing(t *testing.T) {
	t.Parallel()

	store := memory.NewGlobalStore()
	ctx := context.Background()

	if _, err := store.LoadGlobal(ctx, "run-1", 0); !errors.Is(err, federation.ErrGlobalNotFound) {
		t.Errorf("LoadGlobal() error = %v, want ErrGlobalNotFound", err)
	}
	if _, err := store.LatestGlobal(ctx, "run-1"); !errors.Is(err, federation.ErrGlobalNotFound) {
		t.Errorf("LatestGlobal() error = %v, want ErrGlobalNotFound", err)
	}
}

func TestGlobalStore_Latest(t *testing.T) {
	t.Parallel()

	store := memory.NewGlobalStore()
	ctx := context.Background()

	for round := 0; round < 3; round++ {
		if err := store.SaveGlobal(ctx, "run-1", testGlobal(round, float64(round)*10)); err != nil {
			t.Fatalf("SaveGlobal() round %d error = %v", round, err)
		}
	}
	if err := store.SaveGlobal(ctx, "run-2", testGlobal(7, 700)); err != nil {
		t.Fatalf("SaveGlobal() error = %v", err)
	}

	got, err := store.LatestGlobal(ctx, "run-1")
	if err != nil {
		t.Fatalf("LatestGlobal() error = %v", err)
	}
	if got.Round != 2 {
		t.Errorf("LatestGlobal().Round = %d, want 2", got.Round)
	}
}

func TestGlobalStore_EmptySessionID(t *testing.T) {
	t.Parallel()

	store := memory.NewGlobalStore()
	err := store.SaveGlobal(context.Background(), "", testGlobal(0, 1))
	if !errors.Is(err, federation.ErrInvalidSessionID) {
		t.Errorf("SaveGlobal() error = %v, want ErrInvalidSessionID", err)
	}
}

func TestGlobalStore_CallerCannotMutateStored(t *testing.T) {
	t.Parallel()

	store := memory.NewGlobalStore()
	ctx := context.Background()

	if err := store.SaveGlobal(ctx, "run-1", testGlobal(0, 42)); err != nil {
		t.Fatalf("SaveGlobal() error = %v", err)
	}

	first, err := store.LoadGlobal(ctx, "run-1", 0)
	if err != nil {
		t.Fatalf("LoadGlobal() error = %v", err)
	}
	first.Itemsets[0] = mining.NewItemset([]string{"corrupted"}, 0, 0)

	second, err := store.LoadGlobal(ctx, "run-1", 0)
	if err != nil {
		t.Fatalf("LoadGlobal() error = %v", err)
	}
	if second.Itemsets[0].Utility != 42 {
		t.Errorf("stored result mutated through returned copy")
	}
}
