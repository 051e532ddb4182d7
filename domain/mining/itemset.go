// Package mining implements the recursive pseudo-projection search for
// high-utility itemsets over a utility tree.
//
// The algorithm is two-phase per candidate item: Phase A computes the
// exact utility of the extended itemset and emits it when it meets the
// threshold; Phase B computes the potential utility (an upper bound on
// every further extension) and recurses into the candidate's projected
// database only when the bound still reaches the threshold. The bound
// is monotone, so pruning never loses a qualifying itemset.
//
// The canonical utility rule throughout is quantity times external
// utility: node utilities are accumulated that way during tree
// construction and extension items contribute external utility times
// path count. The transaction-embedded utility field is ingest
// metadata, not a mining input.
package mining

import (
	"sort"
	"strings"
)

// Itemset is one discovered high-utility itemset. Immutable once
// emitted; identity is by item content, not order.
type Itemset struct {
	// Items are the member item IDs, sorted ascending.
	Items []string `json:"items"`

	// Utility is the exact total utility of the itemset across all
	// transactions containing it.
	Utility float64 `json:"utility"`

	// Support is the number of transactions containing the itemset.
	Support int `json:"support"`
}

// NewItemset creates an itemset holding a sorted copy of items.
func NewItemset(items []string, utility float64, support int) Itemset {
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)
	return Itemset{Items: sorted, Utility: utility, Support: support}
}

// Key returns the canonical content key used for set identity.
func (s Itemset) Key() string {
	return strings.Join(s.Items, "\x1f")
}

// Contains reports whether the itemset contains the given item.
func (s Itemset) Contains(itemID string) bool {
	for _, id := range s.Items {
		if id == itemID {
			return true
		}
	}
	return false
}

// StopReason explains why a mining run returned a partial result.
type StopReason string

const (
	// StopNone means the search space was exhausted.
	StopNone StopReason = ""

	// StopLimit means the itemset-count ceiling was hit.
	StopLimit StopReason = "itemset limit reached"

	// StopDepth means the recursion depth ceiling was hit.
	StopDepth StopReason = "depth limit reached"

	// StopCancelled means the caller's context ended the search.
	StopCancelled StopReason = "cancelled"
)

// ResultSet is the outcome of one mining run. When Partial is set the
// itemsets found so far are valid but the search stopped early; callers
// decide whether to accept or retry with a higher threshold.
type ResultSet struct {
	Itemsets []Itemset  `json:"itemsets"`
	Partial  bool       `json:"partial,omitempty"`
	Stopped  StopReason `json:"stopped,omitempty"`

	// Pruned counts candidate branches cut by the utility upper bound.
	Pruned int `json:"pruned,omitempty"`
}

// Len returns the number of itemsets.
func (rs ResultSet) Len() int { return len(rs.Itemsets) }

// Lookup returns the itemset with the given content, if present.
func (rs ResultSet) Lookup(items []string) (Itemset, bool) {
	key := NewItemset(items, 0, 0).Key()
	for _, s := range rs.Itemsets {
		if s.Key() == key {
			return s, true
		}
	}
	return Itemset{}, false
}

// Equal reports order-independent set equality of itemset contents.
// Utilities and supports must match as well.
func (rs ResultSet) Equal(other ResultSet) bool {
	if len(rs.Itemsets) != len(other.Itemsets) {
		return false
	}
	byKey := make(map[string]Itemset, len(other.Itemsets))
	for _, s := range other.Itemsets {
		byKey[s.Key()] = s
	}
	for _, s := range rs.Itemsets {
		o, ok := byKey[s.Key()]
		if !ok || o.Utility != s.Utility || o.Support != s.Support {
			return false
		}
	}
	return true
}

// Merge combines two result sets, deduplicating by content key. On key
// collision the entry with the higher utility wins; partial flags are
// sticky. Used by the parallel miner and by federated aggregation.
func Merge(a, b ResultSet) ResultSet {
	byKey := make(map[string]Itemset, len(a.Itemsets)+len(b.Itemsets))
	for _, s := range a.Itemsets {
		byKey[s.Key()] = s
	}
	for _, s := range b.Itemsets {
		if prev, ok := byKey[s.Key()]; !ok || s.Utility > prev.Utility {
			byKey[s.Key()] = s
		}
	}
	out := ResultSet{
		Partial: a.Partial || b.Partial,
		Stopped: a.Stopped,
		Pruned:  a.Pruned + b.Pruned,
	}
	if out.Stopped == StopNone {
		out.Stopped = b.Stopped
	}
	out.Itemsets = make([]Itemset, 0, len(byKey))
	for _, s := range byKey {
		out.Itemsets = append(out.Itemsets, s)
	}
	SortItemsets(out.Itemsets)
	return out
}

// SortItemsets orders by descending utility, ties by content key, so
// rendered output is reproducible across runs.
func SortItemsets(sets []Itemset) {
	sort.Slice(sets, func(i, j int) bool {
		if sets[i].Utility != sets[j].Utility {
			return sets[i].Utility > sets[j].Utility
		}
		return sets[i].Key() < sets[j].Key()
	})
}
