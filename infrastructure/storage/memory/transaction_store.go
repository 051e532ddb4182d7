// Package memory provides in-memory storage backends. They are the
// default for single-process mining runs and for tests; nothing is
// persisted across restarts.
package memory

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/upgrowth/domain/transaction"
)

// TransactionStore is an in-memory implementation of transaction.Store.
type TransactionStore struct {
	txs []transaction.Transaction
	mu  sync.RWMutex
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{}
}

// Append adds one transaction to the store.
func (s *TransactionStore) Append(ctx context.Context, tx transaction.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := tx.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.txs = append(s.txs, tx.Clone())
	return nil
}

// All returns every transaction in insertion order.
func (s *TransactionStore) All(ctx context.Context) ([]transaction.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]transaction.Transaction, len(s.txs))
	for i, tx := range s.txs {
		out[i] = tx.Clone()
	}
	return out, nil
}

// Len returns the number of stored transactions.
func (s *TransactionStore) Len(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.txs), nil
}

var _ transaction.Store = (*TransactionStore)(nil)
