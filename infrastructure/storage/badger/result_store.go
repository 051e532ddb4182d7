package badger

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/felixgeelhaar/upgrowth/domain/mining"
)

// ResultStore is a BadgerDB-backed implementation of mining.ResultStore.
// Result sets survive process restarts, so a long threshold sweep can
// resume where it left off.
type ResultStore struct {
	db        *badger.DB
	keyPrefix string
	ownsDB    bool
}

// NewResultStore creates a new BadgerDB result store with the given
// configuration.
func NewResultStore(cfg Config, opts ...Option) (*ResultStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	return &ResultStore{
		db:        db,
		keyPrefix: cfg.KeyPrefix,
		ownsDB:    true,
	}, nil
}

// NewResultStoreFromDB creates a result store from an existing BadgerDB
// database, sharing it with other stores.
func NewResultStoreFromDB(db *badger.DB, keyPrefix string) *ResultStore {
	return &ResultStore{
		db:        db,
		keyPrefix: keyPrefix,
	}
}

func (s *ResultStore) resultKey(key string) []byte {
	return []byte(s.keyPrefix + "results:" + key)
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

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.resultKey(key), data)
	})
}

// Load returns the result set stored under key.
func (s *ResultStore) Load(ctx context.Context, key string) (mining.ResultSet, error) {
	if err := ctx.Err(); err != nil {
		return mining.ResultSet{}, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.resultKey(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
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

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.resultKey(key))
	})
}

// Keys returns every stored key in sorted order.
func (s *ResultStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(s.keyPrefix + "results:")

	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(keys)
	return keys, nil
}

// Close closes the database if this store opened it.
func (s *ResultStore) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

var _ mining.ResultStore = (*ResultStore)(nil)
