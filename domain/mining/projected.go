package mining

import (
	"sort"

	"github.com/felixgeelhaar/upgrowth/domain/utilitytree"
)

// pathEntry is one suffix path of a projected database: the items that
// precede the current itemset's last item on a tree branch mapped to
// the exact utility each contributed along that branch, the exact
// utility of the current itemset along that branch, and the number of
// transactions traversing it.
type pathEntry struct {
	prefix  map[string]float64
	utility float64
	count   int
}

// projectedDB is the conditional pattern base of a prefix itemset.
// Ephemeral: built on demand by the recursion level that owns it and
// discarded on return.
type projectedDB []pathEntry

// projectItem builds the initial projected database for a single item
// by walking its node-link chain. Each node carries the exact
// per-ancestor utilities recorded at insertion, so the path entries are
// exact even when quantities vary across transactions.
func projectItem(tree *utilitytree.Tree, itemID string) projectedDB {
	entry, ok := tree.Header[itemID]
	if !ok {
		return nil
	}
	var pdb projectedDB
	for n := entry.First; n != nil; n = n.NodeLink {
		prefix := make(map[string]float64, len(n.PathUtility))
		for id, u := range n.PathUtility {
			prefix[id] = u
		}
		pdb = append(pdb, pathEntry{
			prefix:  prefix,
			utility: n.Utility,
			count:   n.Count,
		})
	}
	return pdb
}

// projectExtension derives the projected database for prefix+item from
// the prefix's own projected database: paths containing the item keep
// their remaining prefix, and the item's exact recorded utility on the
// path is folded into the path utility.
func projectExtension(src projectedDB, itemID string) projectedDB {
	var out projectedDB
	for _, e := range src {
		itemUtil, ok := e.prefix[itemID]
		if !ok {
			continue
		}
		rest := make(map[string]float64, len(e.prefix)-1)
		for id, u := range e.prefix {
			if id != itemID {
				rest[id] = u
			}
		}
		out = append(out, pathEntry{
			prefix:  rest,
			utility: e.utility + itemUtil,
			count:   e.count,
		})
	}
	return out
}

// totalUtility is the exact utility of the itemset the database was
// projected on.
func (pdb projectedDB) totalUtility() float64 {
	var total float64
	for _, e := range pdb {
		total += e.utility
	}
	return total
}

// support is the number of transactions containing the itemset.
func (pdb projectedDB) support() int {
	var s int
	for _, e := range pdb {
		s += e.count
	}
	return s
}

// potentialUtility is the upper bound on the utility of any extension:
// for every path, the itemset's own utility plus everything the
// remaining prefix could still contribute. Monotone in extensions, so a
// failed bound prunes the whole subtree of supersets.
func (pdb projectedDB) potentialUtility() float64 {
	var total float64
	for _, e := range pdb {
		pathPotential := e.utility
		for _, u := range e.prefix {
			pathPotential += u
		}
		total += pathPotential
	}
	return total
}

// localEntry summarizes one candidate extension item within a projected
// database.
type localEntry struct {
	total     float64
	potential float64
	count     int
}

// localHeader scans a projected database for candidate extension items
// and their exact and potential utilities if chosen next.
func localHeader(pdb projectedDB) map[string]localEntry {
	local := make(map[string]localEntry)
	for _, e := range pdb {
		pathRemaining := e.utility
		for _, u := range e.prefix {
			pathRemaining += u
		}
		for id, u := range e.prefix {
			le := local[id]
			le.total += e.utility + u
			le.count += e.count
			le.potential += pathRemaining
			local[id] = le
		}
	}
	return local
}

// orderCandidates returns the local header's items in the deterministic
// processing order: descending potential utility, ties by ascending ID.
func orderCandidates(local map[string]localEntry) []string {
	items := make([]string, 0, len(local))
	for id := range local {
		items = append(items, id)
	}
	sort.Slice(items, func(i, j int) bool {
		if local[items[i]].potential != local[items[j]].potential {
			return local[items[i]].potential > local[items[j]].potential
		}
		return items[i] < items[j]
	})
	return items
}
