package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/felixgeelhaar/upgrowth/domain/mining"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ResultStore is a SQLite-backed implementation of mining.ResultStore.
type ResultStore struct {
	db *sql.DB
}

// NewResultStore creates a new SQLite result store with the given
// configuration.
func NewResultStore(cfg Config, opts ...Option) (*ResultStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &ResultStore{db: db}

	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

// NewResultStoreFromDB creates a result store from an existing database
// connection.
func NewResultStoreFromDB(db *sql.DB) (*ResultStore, error) {
	s := &ResultStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ResultStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			key TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			itemset_count INTEGER NOT NULL,
			partial INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_results_updated_at ON results(updated_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}

// Save stores a result set under key, replacing any previous value.
func (s *ResultStore) Save(ctx context.Context, key string, rs mining.ResultSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(rs)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	partial := 0
	if rs.Partial {
		partial = 1
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results (key, data, itemset_count, partial, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			itemset_count = excluded.itemset_count,
			partial = excluded.partial,
			updated_at = excluded.updated_at`,
		key, data, rs.Len(), partial, now, now,
	)
	return err
}

// Load returns the result set stored under key.
func (s *ResultStore) Load(ctx context.Context, key string) (mining.ResultSet, error) {
	if err := ctx.Err(); err != nil {
		return mining.ResultSet{}, err
	}

	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM results WHERE key = ?", key).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return mining.ResultSet{}, mining.ErrResultNotFound
	}
	if err != nil {
		return mining.ResultSet{}, err
	}

	var rs mining.ResultSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return mining.ResultSet{}, err
	}
	return rs, nil
}

// Delete removes the result set stored under key.
func (s *ResultStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, "DELETE FROM results WHERE key = ?", key)
	return err
}

// Keys returns every stored key in sorted order.
func (s *ResultStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT key FROM results ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Close closes the database connection.
func (s *ResultStore) Close() error {
	return s.db.Close()
}

var _ mining.ResultStore = (*ResultStore)(nil)
