package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/felixgeelhaar/upgrowth/domain/transaction"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// TransactionStore is a SQLite-backed implementation of
// transaction.Store. Transactions are append-only; the rowid preserves
// insertion order.
type TransactionStore struct {
	db *sql.DB
}

// NewTransactionStore creates a new SQLite transaction store with the
// given configuration.
func NewTransactionStore(cfg Config, opts ...Option) (*TransactionStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &TransactionStore{db: db}

	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

// NewTransactionStoreFromDB creates a transaction store from an
// existing database connection.
func NewTransactionStoreFromDB(db *sql.DB) (*TransactionStore, error) {
	s := &TransactionStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *TransactionStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			data BLOB NOT NULL,
			item_count INTEGER NOT NULL,
			total_utility REAL NOT NULL,
			created_at INTEGER NOT NULL
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}

// Append adds one transaction to the store.
func (s *TransactionStore) Append(ctx context.Context, tx transaction.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := tx.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(tx)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO transactions (data, item_count, total_utility, created_at)
		 VALUES (?, ?, ?, ?)`,
		data, len(tx), tx.Utility(), time.Now().Unix(),
	)
	return err
}

// All returns every transaction in insertion order.
func (s *TransactionStore) All(ctx context.Context) ([]transaction.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT data FROM transactions ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []transaction.Transaction
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		var tx transaction.Transaction
		if err := json.Unmarshal(data, &tx); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// Len returns the number of stored transactions.
func (s *TransactionStore) Len(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions").Scan(&n)
	return n, err
}

// Clear removes every stored transaction.
func (s *TransactionStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, "DELETE FROM transactions")
	return err
}

// DB returns the underlying database connection.
func (s *TransactionStore) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *TransactionStore) Close() error {
	return s.db.Close()
}

var _ transaction.Store = (*TransactionStore)(nil)
