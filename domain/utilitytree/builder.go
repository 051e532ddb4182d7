package utilitytree

import (
	"sort"

	"github.com/felixgeelhaar/upgrowth/domain/transaction"
)

// Builder constructs a Tree from a transaction snapshot.
type Builder struct {
	// Table supplies external item utilities. Required.
	Table transaction.UtilityTable

	// MinUtility optionally prunes items whose TWU is already below the
	// mining threshold; such items cannot appear in any high-utility
	// itemset, so excluding them shrinks the tree without losing
	// completeness. Zero keeps every item.
	MinUtility float64
}

// NewBuilder creates a builder over the given utility table.
func NewBuilder(table transaction.UtilityTable) *Builder {
	return &Builder{Table: table}
}

// Build runs the two-pass construction: the first pass computes each
// item's transaction-weighted utility and fixes the global insertion
// order (descending TWU, ties by ascending item ID); the second pass
// inserts each transaction along that order, sharing prefixes.
//
// Malformed transactions (empty, or empty after zero-utility filtering)
// are skipped and counted on the returned tree, never fatal.
func (b *Builder) Build(txs []transaction.Transaction) (*Tree, error) {
	if b.Table == nil {
		return nil, transaction.ErrMissingUtilityTable
	}

	twu := make(map[string]float64)
	for _, tx := range txs {
		if len(tx) == 0 {
			continue
		}
		quantities := make(map[string]int, len(tx))
		for _, it := range tx {
			quantities[it.ID] += it.Quantity
		}
		var txUtility float64
		for id, q := range quantities {
			txUtility += float64(q) * b.Table.Utility(id)
		}
		for id := range quantities {
			twu[id] += txUtility
		}
	}

	order := make([]string, 0, len(twu))
	for id := range twu {
		if b.MinUtility > 0 && twu[id] < b.MinUtility {
			continue
		}
		order = append(order, id)
	}
	sort.Slice(order, func(i, j int) bool {
		if twu[order[i]] != twu[order[j]] {
			return twu[order[i]] > twu[order[j]]
		}
		return order[i] < order[j]
	})

	t := &Tree{
		Root:     newNode("", nil),
		Header:   make(map[string]*HeaderEntry),
		Order:    order,
		Pending:  make(map[string]float64),
		table:    b.Table,
		orderPos: make(map[string]int, len(order)),
	}
	for i, id := range order {
		t.orderPos[id] = i
	}

	for _, tx := range txs {
		if tx.Validate() != nil {
			t.Skipped++
			continue
		}
		quantities := make(map[string]int, len(tx))
		for _, it := range tx {
			quantities[it.ID] += it.Quantity
		}

		path := make([]string, 0, len(quantities))
		for _, id := range order {
			q, ok := quantities[id]
			if !ok {
				continue
			}
			// Zero-utility occurrences are excluded from insertion.
			if float64(q)*b.Table.Utility(id) == 0 {
				continue
			}
			path = append(path, id)
		}
		if len(path) == 0 {
			t.Skipped++
			continue
		}

		t.insert(path, quantities)
		t.Transactions++
	}

	for id, entry := range t.Header {
		entry.PotentialUtility = twu[id]
	}
	return t, nil
}
