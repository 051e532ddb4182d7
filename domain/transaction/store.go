package transaction

import "context"

// Store holds the transaction snapshot a mining run operates on.
// Implementations live in infrastructure/storage.
type Store interface {
	// Append adds one transaction to the store.
	Append(ctx context.Context, tx Transaction) error

	// All returns every transaction in insertion order.
	All(ctx context.Context) ([]Transaction, error)

	// Len returns the number of stored transactions.
	Len(ctx context.Context) (int, error)
}
