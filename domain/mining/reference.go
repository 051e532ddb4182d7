package mining

import (
	"sort"

	"github.com/felixgeelhaar/upgrowth/domain/transaction"
)

// BruteForce enumerates every non-empty itemset over the distinct items
// of the given transactions and computes its exact utility by direct
// summation. Exponential in the item count; it exists as the reference
// oracle for validating pruning soundness and completeness on small
// datasets, not for production use.
func BruteForce(txs []transaction.Transaction, table transaction.UtilityTable, minUtility float64) ResultSet {
	distinct := make(map[string]struct{})
	quantities := make([]map[string]int, 0, len(txs))
	for _, tx := range txs {
		if tx.Validate() != nil {
			continue
		}
		q := make(map[string]int, len(tx))
		for _, it := range tx {
			if float64(it.Quantity)*table.Utility(it.ID) == 0 {
				continue
			}
			q[it.ID] += it.Quantity
			distinct[it.ID] = struct{}{}
		}
		quantities = append(quantities, q)
	}

	items := make([]string, 0, len(distinct))
	for id := range distinct {
		items = append(items, id)
	}
	sort.Strings(items)

	var rs ResultSet
	for mask := 1; mask < 1<<len(items); mask++ {
		var subset []string
		for i, id := range items {
			if mask&(1<<i) != 0 {
				subset = append(subset, id)
			}
		}

		var utility float64
		var support int
		for _, q := range quantities {
			contained := true
			var txContribution float64
			for _, id := range subset {
				qty, ok := q[id]
				if !ok {
					contained = false
					break
				}
				txContribution += float64(qty) * table.Utility(id)
			}
			if contained {
				utility += txContribution
				support++
			}
		}

		if support > 0 && utility >= minUtility {
			rs.Itemsets = append(rs.Itemsets, NewItemset(subset, utility, support))
		}
	}
	SortItemsets(rs.Itemsets)
	return rs
}
