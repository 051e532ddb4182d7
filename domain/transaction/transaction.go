// Package transaction defines the transactional data model for
// high-utility itemset mining: transactions as sequences of
// (item, quantity, utility) triples and the external utility table
// used to weight items.
package transaction

// Item is one item occurrence within a transaction. Utility is the
// transaction-local contribution of this occurrence (quantity times
// unit value at the point of sale), not the global external utility.
type Item struct {
	ID       string
	Quantity int
	Utility  float64
}

// Transaction is an ordered sequence of item occurrences. Transactions
// are immutable once parsed; nothing in the mining pipeline mutates them.
type Transaction []Item

// Utility returns the sum of transaction-local utilities of all items.
func (t Transaction) Utility() float64 {
	var total float64
	for _, it := range t {
		total += it.Utility
	}
	return total
}

// Contains reports whether the transaction contains the given item.
func (t Transaction) Contains(itemID string) bool {
	for _, it := range t {
		if it.ID == itemID {
			return true
		}
	}
	return false
}

// Items returns the distinct item IDs in the transaction, in occurrence order.
func (t Transaction) Items() []string {
	seen := make(map[string]struct{}, len(t))
	ids := make([]string, 0, len(t))
	for _, it := range t {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		ids = append(ids, it.ID)
	}
	return ids
}

// Clone returns a copy that shares no backing storage with t.
func (t Transaction) Clone() Transaction {
	return append(Transaction(nil), t...)
}

// Validate checks structural validity. Empty transactions and negative
// quantities are the two malformations the ingestion layer can produce.
func (t Transaction) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTransaction
	}
	for _, it := range t {
		if it.ID == "" {
			return ErrMissingItemID
		}
		if it.Quantity < 1 {
			return ErrInvalidQuantity
		}
		if it.Utility < 0 {
			return ErrNegativeUtility
		}
	}
	return nil
}
