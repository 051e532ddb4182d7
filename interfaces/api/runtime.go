package api

import (
	"errors"
	"fmt"
	"os"

	"github.com/felixgeelhaar/upgrowth/application"
	"github.com/felixgeelhaar/upgrowth/infrastructure/config"
	"github.com/felixgeelhaar/upgrowth/infrastructure/logging"
	"github.com/felixgeelhaar/upgrowth/infrastructure/storage/badger"
	"github.com/felixgeelhaar/upgrowth/infrastructure/storage/memory"
	"github.com/felixgeelhaar/upgrowth/infrastructure/storage/resultcache"
	"github.com/felixgeelhaar/upgrowth/infrastructure/storage/sqlite"
)

// Runtime bundles a mining service built from a runtime configuration
// with the storage handles it owns. Callers must Close it when done.
type Runtime struct {
	Service *application.MiningService

	closers []func() error
}

// Open validates cfg, initializes logging, and wires the configured
// storage backend into a ready mining service.
//
// Backends: "memory" keeps everything in process; "sqlite" persists
// transactions and results at cfg.Storage.Path; "badger" keeps the
// transaction snapshot in memory and persists results and the result
// cache in a badger database at cfg.Storage.Path.
func Open(cfg config.Config) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})

	rt := &Runtime{}
	opts := []application.Option{
		WithMinUtility(cfg.Mining.MinUtility),
		WithMaxItemsets(cfg.Mining.MaxItemsets),
		WithMaxDepth(cfg.Mining.MaxDepth),
		WithWorkers(cfg.Mining.Workers),
	}

	switch cfg.Storage.Backend {
	case "", "memory":
		opts = append(opts,
			WithStore(memory.NewTransactionStore()),
			WithResultCache(resultcache.New(memory.NewCache())),
		)

	case "sqlite":
		dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc", cfg.Storage.Path)
		txStore, err := sqlite.NewTransactionStore(sqlite.DefaultConfig(), sqlite.WithDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("open sqlite transaction store: %w", err)
		}
		rt.closers = append(rt.closers, txStore.Close)

		resultStore, err := sqlite.NewResultStoreFromDB(txStore.DB())
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("open sqlite result store: %w", err)
		}
		opts = append(opts, WithStore(txStore), WithResultStore(resultStore))

	case "badger":
		c, err := badger.NewCache(badger.DefaultConfig(), badger.WithDir(cfg.Storage.Path))
		if err != nil {
			return nil, fmt.Errorf("open badger cache: %w", err)
		}
		rt.closers = append(rt.closers, c.Close)

		opts = append(opts,
			WithStore(memory.NewTransactionStore()),
			WithResultCache(resultcache.New(c)),
			WithResultStore(badger.NewResultStoreFromDB(c.DB(), "results:")),
		)

	default:
		return nil, fmt.Errorf("storage.backend: unknown backend %q", cfg.Storage.Backend)
	}

	svc, err := NewMiningService(opts...)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Service = svc
	return rt, nil
}

// Close releases the storage handles the runtime owns, most recently
// opened first.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
