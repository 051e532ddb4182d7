package mining_test

import (
	"testing"

	"github.com/felixgeelhaar/upgrowth/domain/mining"
)

func TestItemset_Key(t *testing.T) {
	t.Parallel()

	a := mining.NewItemset([]string{"b", "a"}, 10, 1)
	b := mining.NewItemset([]string{"a", "b"}, 20, 2)
	if a.Key() != b.Key() {
		t.Errorf("content keys differ for same items: %q vs %q", a.Key(), b.Key())
	}
	if a.Items[0] != "a" {
		t.Errorf("items not sorted: %v", a.Items)
	}
}

func TestResultSet_Equal(t *testing.T) {
	t.Parallel()

	a := mining.ResultSet{Itemsets: []mining.Itemset{
		mining.NewItemset([]string{"a"}, 10, 1),
		mining.NewItemset([]string{"a", "b"}, 30, 1),
	}}
	b := mining.ResultSet{Itemsets: []mining.Itemset{
		mining.NewItemset([]string{"b", "a"}, 30, 1),
		mining.NewItemset([]string{"a"}, 10, 1),
	}}
	if !a.Equal(b) {
		t.Error("order-independent sets reported unequal")
	}

	c := mining.ResultSet{Itemsets: []mining.Itemset{
		mining.NewItemset([]string{"a"}, 11, 1),
		mining.NewItemset([]string{"a", "b"}, 30, 1),
	}}
	if a.Equal(c) {
		t.Error("differing utilities reported equal")
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	a := mining.ResultSet{
		Itemsets: []mining.Itemset{mining.NewItemset([]string{"a"}, 10, 1)},
	}
	b := mining.ResultSet{
		Itemsets: []mining.Itemset{
			mining.NewItemset([]string{"a"}, 12, 2),
			mining.NewItemset([]string{"b"}, 5, 1),
		},
		Partial: true,
		Stopped: mining.StopLimit,
	}

	merged := mining.Merge(a, b)
	if merged.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", merged.Len())
	}
	if got, _ := merged.Lookup([]string{"a"}); got.Utility != 12 {
		t.Errorf("collision kept utility %v, want the higher 12", got.Utility)
	}
	if !merged.Partial || merged.Stopped != mining.StopLimit {
		t.Error("partial flag not sticky across merge")
	}

	// Sorted by descending utility.
	if merged.Itemsets[0].Utility < merged.Itemsets[1].Utility {
		t.Errorf("merged set not sorted: %v", merged.Itemsets)
	}
}
