package mining

import (
	"context"
	"sort"

	"github.com/felixgeelhaar/upgrowth/domain/utilitytree"
)

// Miner runs the pseudo-projection search over a utility tree. The
// miner is read-only over the tree and header table; each recursion
// level owns the projected database it creates. A zero Miner is ready
// to use.
type Miner struct{}

// collector accumulates emitted itemsets and enforces the ceiling.
type collector struct {
	byKey   map[string]Itemset
	limit   int
	stopped StopReason

	// depthCapped records that at least one branch was cut short by the
	// depth ceiling. Unlike the itemset ceiling it does not stop the
	// search, only flags the result partial.
	depthCapped bool

	// pruned counts branches cut by the utility upper bound.
	pruned int
}

func newCollector(limit int) *collector {
	return &collector{byKey: make(map[string]Itemset), limit: limit}
}

// add emits an itemset; it reports false when the ceiling is hit and
// the search must stop. A search that ends with exactly limit itemsets
// and no further emission attempts is complete, not partial.
func (c *collector) add(s Itemset) bool {
	if c.stopped != StopNone {
		return false
	}
	if c.limit > 0 && len(c.byKey) >= c.limit {
		c.stopped = StopLimit
		return false
	}
	c.byKey[s.Key()] = s
	return true
}

func (c *collector) result() ResultSet {
	rs := ResultSet{
		Partial: c.stopped != StopNone || c.depthCapped,
		Stopped: c.stopped,
		Pruned:  c.pruned,
	}
	if rs.Stopped == StopNone && c.depthCapped {
		rs.Stopped = StopDepth
	}
	rs.Itemsets = make([]Itemset, 0, len(c.byKey))
	for _, s := range c.byKey {
		rs.Itemsets = append(rs.Itemsets, s)
	}
	SortItemsets(rs.Itemsets)
	return rs
}

// Mine extracts every itemset whose exact utility meets the threshold.
// Returns a complete result set, a result flagged partial when a ceiling
// or the context stopped the search, or a validation error before any
// work starts. It never returns a silently truncated set.
func (m *Miner) Mine(ctx context.Context, tree *utilitytree.Tree, opts Options) (ResultSet, error) {
	if err := opts.Validate(); err != nil {
		return ResultSet{}, err
	}
	if tree == nil {
		return ResultSet{}, ErrNilTree
	}

	c := newCollector(opts.MaxItemsets)
	for _, itemID := range phaseOrder(tree) {
		if ctx.Err() != nil {
			c.stopped = StopCancelled
			break
		}
		if !m.mineTopLevel(ctx, tree, itemID, opts, c) {
			break
		}
	}
	return c.result(), nil
}

// mineTopLevel runs Phase A and Phase B for one header item. Reports
// false when the search must stop.
func (m *Miner) mineTopLevel(ctx context.Context, tree *utilitytree.Tree, itemID string, opts Options, c *collector) bool {
	pdb := projectItem(tree, itemID)
	if len(pdb) == 0 {
		return true
	}

	// Phase A: exact utility of the singleton.
	if total := pdb.totalUtility(); total >= opts.MinUtility {
		if !c.add(NewItemset([]string{itemID}, total, pdb.support())) {
			return false
		}
	}

	// Phase B: prune unless some extension could still qualify.
	if pdb.potentialUtility() < opts.MinUtility {
		c.pruned++
		return true
	}
	return m.mineConditional(ctx, []string{itemID}, pdb, 1, opts, c)
}

// mineConditional extends the prefix itemset with candidates from its
// projected database, recursing while the utility upper bound holds.
// Reports false when the search must stop.
func (m *Miner) mineConditional(ctx context.Context, prefix []string, pdb projectedDB, depth int, opts Options, c *collector) bool {
	if ctx.Err() != nil {
		c.stopped = StopCancelled
		return false
	}
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		c.depthCapped = true
		return true
	}

	local := localHeader(pdb)
	if len(local) == 0 {
		return true
	}

	for _, itemID := range orderCandidates(local) {
		extended := projectExtension(pdb, itemID)
		if len(extended) == 0 {
			continue
		}

		candidate := append(append([]string(nil), prefix...), itemID)

		if total := extended.totalUtility(); total >= opts.MinUtility {
			if !c.add(NewItemset(candidate, total, extended.support())) {
				return false
			}
		}

		if extended.potentialUtility() >= opts.MinUtility {
			if !m.mineConditional(ctx, candidate, extended, depth+1, opts, c) {
				return false
			}
		} else {
			c.pruned++
		}
	}
	return true
}

// phaseOrder returns header items in the Phase A scan order: ascending
// exact total utility, ties by ascending item ID. Processing cheap
// items first keeps early projected databases small.
func phaseOrder(tree *utilitytree.Tree) []string {
	items := make([]string, 0, len(tree.Header))
	for id := range tree.Header {
		items = append(items, id)
	}
	sort.Slice(items, func(i, j int) bool {
		ti, tj := tree.Header[items[i]].TotalUtility, tree.Header[items[j]].TotalUtility
		if ti != tj {
			return ti < tj
		}
		return items[i] < items[j]
	})
	return items
}
