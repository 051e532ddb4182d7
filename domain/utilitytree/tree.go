package utilitytree

import (
	"errors"
	"fmt"
	"sort"

	"github.com/felixgeelhaar/upgrowth/domain/transaction"
)

// Tree is the shared utility prefix tree plus its header table. A tree
// is built once from a transaction snapshot and afterwards mutated only
// through Append; mining is read-only.
type Tree struct {
	Root   *Node
	Header map[string]*HeaderEntry

	// Order is the frozen global insertion order: items by descending
	// TWU, ties broken by ascending item ID.
	Order []string

	// Transactions is the number of transactions inserted, Skipped the
	// number rejected as malformed or empty after filtering.
	Transactions int
	Skipped      int

	// Pending records items first seen by Append together with their
	// accumulated TWU. Such items are not part of the frozen order, so
	// itemsets containing them require a rebuild to be mined exactly.
	Pending map[string]float64

	table    transaction.UtilityTable
	orderPos map[string]int
}

// Table returns the external utility table the tree was built with.
func (t *Tree) Table() transaction.UtilityTable { return t.table }

// Items returns the header items in frozen global order.
func (t *Tree) Items() []string {
	items := make([]string, 0, len(t.Header))
	for _, id := range t.Order {
		if _, ok := t.Header[id]; ok {
			items = append(items, id)
		}
	}
	return items
}

// NodeCount returns the number of nodes excluding the root, via the
// header chains. Every non-root node carries an item, so every node is
// on exactly one chain.
func (t *Tree) NodeCount() int {
	var n int
	for _, entry := range t.Header {
		n += len(entry.Chain())
	}
	return n
}

// insert walks one ordered item path into the tree, creating or reusing
// nodes and maintaining the header table.
func (t *Tree) insert(path []string, quantities map[string]int) {
	cur := t.Root
	ancestors := make(map[string]float64, len(path))
	for _, itemID := range path {
		util := float64(quantities[itemID]) * t.table.Utility(itemID)
		child, ok := cur.Children[itemID]
		if !ok {
			child = newNode(itemID, cur)
			cur.Children[itemID] = child
			entry, ok := t.Header[itemID]
			if !ok {
				entry = &HeaderEntry{}
				t.Header[itemID] = entry
			}
			entry.link(child)
		}
		child.Count++
		child.Utility += util
		for id, u := range ancestors {
			child.PathUtility[id] += u
		}
		entry := t.Header[itemID]
		entry.TotalUtility += util
		entry.Count++
		ancestors[itemID] = util
		cur = child
	}
}

// Append incrementally inserts one transaction into an already-built
// tree, preserving all header and node invariants. The frozen global
// order is reused; items outside it are not inserted but accumulated in
// Pending with their TWU so the caller can decide whether a rebuild is
// warranted. Items unknown to the utility table degrade to the fallback
// utility rather than rejecting the transaction.
func (t *Tree) Append(tx transaction.Transaction) error {
	if len(tx) == 0 {
		t.Skipped++
		return transaction.ErrEmptyTransaction
	}

	quantities := make(map[string]int, len(tx))
	for _, it := range tx {
		if it.Quantity < 1 {
			t.Skipped++
			return fmt.Errorf("append transaction: %w", transaction.ErrInvalidQuantity)
		}
		quantities[it.ID] += it.Quantity
	}

	var txUtility float64
	for id, q := range quantities {
		txUtility += float64(q) * t.table.Utility(id)
	}

	path := make([]string, 0, len(quantities))
	for _, id := range t.Order {
		q, ok := quantities[id]
		if !ok {
			continue
		}
		if float64(q)*t.table.Utility(id) == 0 {
			continue
		}
		path = append(path, id)
	}

	for id := range quantities {
		if _, known := t.orderPos[id]; !known {
			t.Pending[id] += txUtility
		}
	}

	if len(path) == 0 {
		t.Skipped++
		return fmt.Errorf("append transaction: %w", transaction.ErrEmptyTransaction)
	}

	t.insert(path, quantities)
	t.Transactions++

	for _, id := range path {
		t.Header[id].PotentialUtility += txUtility
	}
	return nil
}

// PendingHighUtility returns Pending items whose accumulated TWU meets
// the threshold, sorted by descending TWU. A non-empty result means the
// tree is incomplete for those items and exact mining of itemsets
// containing them requires a rebuild.
func (t *Tree) PendingHighUtility(minUtility float64) []string {
	var items []string
	for id, twu := range t.Pending {
		if twu >= minUtility {
			items = append(items, id)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if t.Pending[items[i]] != t.Pending[items[j]] {
			return t.Pending[items[i]] > t.Pending[items[j]]
		}
		return items[i] < items[j]
	})
	return items
}

// Validate checks the structural invariants: every node is reachable
// from exactly one header chain entry, header totals equal chain sums,
// and child counts never exceed their parent's. Used by tests and the
// updater's consistency checks.
func (t *Tree) Validate() error {
	seen := make(map[*Node]bool)
	for itemID, entry := range t.Header {
		var total float64
		var count int
		for n := entry.First; n != nil; n = n.NodeLink {
			if n.ItemID != itemID {
				return fmt.Errorf("chain for %q reached node for %q", itemID, n.ItemID)
			}
			if seen[n] {
				return fmt.Errorf("node for %q visited twice", itemID)
			}
			seen[n] = true
			total += n.Utility
			count += n.Count
		}
		if total != entry.TotalUtility {
			return fmt.Errorf("header total for %q = %v, chain sum = %v", itemID, entry.TotalUtility, total)
		}
		if count != entry.Count {
			return fmt.Errorf("header count for %q = %d, chain sum = %d", itemID, entry.Count, count)
		}
	}

	var walk func(n *Node) error
	var walked int
	walk = func(n *Node) error {
		for _, child := range n.Children {
			walked++
			if !seen[child] {
				return fmt.Errorf("node for %q not reachable from any header chain", child.ItemID)
			}
			if child.Parent != n {
				return fmt.Errorf("node for %q has wrong parent", child.ItemID)
			}
			if child.Count > n.Count && !n.IsRoot() {
				return fmt.Errorf("node for %q count exceeds parent", child.ItemID)
			}
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(t.Root); err != nil {
		return err
	}
	if walked != len(seen) {
		return errors.New("header chains reference nodes outside the tree")
	}
	return nil
}
