package resultcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/upgrowth/domain/mining"
	"github.com/felixgeelhaar/upgrowth/domain/transaction"
	"github.com/felixgeelhaar/upgrowth/infrastructure/storage/memory"
	"github.com/felixgeelhaar/upgrowth/infrastructure/storage/resultcache"
)

func snapshot() []transaction.Transaction {
	return []transaction.Transaction{
		{{ID: "milk", Quantity: 2, Utility: 6}, {ID: "bread", Quantity: 1, Utility: 2}},
		{{ID: "milk", Quantity: 1, Utility: 3}},
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := resultcache.Fingerprint(snapshot())
	b := resultcache.Fingerprint(snapshot())
	if a != b {
		t.Errorf("identical snapshots fingerprint to %q and %q", a, b)
	}

	changed := snapshot()
	changed[0][0].Utility = 7
	if c := resultcache.Fingerprint(changed); c == a {
		t.Error("changed utility should change the fingerprint")
	}

	reordered := []transaction.Transaction{snapshot()[1], snapshot()[0]}
	if c := resultcache.Fingerprint(reordered); c == a {
		t.Error("reordered snapshot should change the fingerprint")
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	key := resultcache.Key("abcd1234", 100)
	if key != "result:abcd1234:100" {
		t.Errorf("Key() = %q", key)
	}

	if resultcache.Key("abcd1234", 100) == resultcache.Key("abcd1234", 150) {
		t.Error("different thresholds must produce different keys")
	}
}

func TestResultCache_SaveAndLoad(t *testing.T) {
	t.Parallel()

	rc := resultcache.New(memory.NewCache())
	ctx := context.Background()

	rs := mining.ResultSet{
		Itemsets: []mining.Itemset{
			{Items: []string{"bread", "milk"}, Utility: 11, Support: 1},
		},
	}

	key := resultcache.Key(resultcache.Fingerprint(snapshot()), 10)
	if err := rc.Save(ctx, key, rs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, found, err := rc.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !found {
		t.Fatal("Load() should hit after Save()")
	}
	if loaded.Len() != 1 || loaded.Itemsets[0].Utility != 11 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestResultCache_LoadMiss(t *testing.T) {
	t.Parallel()

	rc := resultcache.New(memory.NewCache())

	_, found, err := rc.Load(context.Background(), "result:unknown:10")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if found {
		t.Error("Load() should miss for an absent key")
	}
}

func TestResultCache_TTLExpiry(t *testing.T) {
	t.Parallel()

	rc := resultcache.New(memory.NewCache(), resultcache.WithTTL(20*time.Millisecond))
	ctx := context.Background()

	if err := rc.Save(ctx, "k", mining.ResultSet{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	if _, found, _ := rc.Load(ctx, "k"); found {
		t.Error("entry should have expired")
	}
}

func TestResultCache_Invalidate(t *testing.T) {
	t.Parallel()

	rc := resultcache.New(memory.NewCache())
	ctx := context.Background()

	if err := rc.Save(ctx, "k", mining.ResultSet{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := rc.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if _, found, _ := rc.Load(ctx, "k"); found {
		t.Error("entry should be gone after Invalidate()")
	}
}
