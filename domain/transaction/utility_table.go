package transaction

// DefaultFallbackUtility is assigned to items that appear in a
// transaction but have no entry in the utility table. A soft degrade:
// the transaction is still mined rather than rejected.
const DefaultFallbackUtility = 1.0

// UtilityTable maps item IDs to their global external utility (unit
// value). Every item appearing in any transaction should have an entry;
// missing entries are synthesized by the ingestion layer or fall back to
// DefaultFallbackUtility.
type UtilityTable map[string]float64

// Utility returns the external utility for an item, falling back to
// DefaultFallbackUtility when the item is unknown.
func (ut UtilityTable) Utility(itemID string) float64 {
	if u, ok := ut[itemID]; ok {
		return u
	}
	return DefaultFallbackUtility
}

// Has reports whether the table has an explicit entry for the item.
func (ut UtilityTable) Has(itemID string) bool {
	_, ok := ut[itemID]
	return ok
}

// Synthesize fills the table with fallback entries for every item in the
// given transactions that has no explicit utility yet. Returns the
// number of entries added.
func (ut UtilityTable) Synthesize(txs []Transaction) int {
	added := 0
	for _, tx := range txs {
		for _, it := range tx {
			if _, ok := ut[it.ID]; !ok {
				ut[it.ID] = DefaultFallbackUtility
				added++
			}
		}
	}
	return added
}

// Clone returns an independent copy of the table.
func (ut UtilityTable) Clone() UtilityTable {
	out := make(UtilityTable, len(ut))
	for k, v := range ut {
		out[k] = v
	}
	return out
}
