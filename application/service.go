// Package application provides the orchestration layer: local mining
// runs over a transaction store, and the client and server sides of a
// federated aggregation round.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/upgrowth/domain/mining"
	"github.com/felixgeelhaar/upgrowth/domain/transaction"
	"github.com/felixgeelhaar/upgrowth/domain/utilitytree"
	"github.com/felixgeelhaar/upgrowth/infrastructure/logging"
	"github.com/felixgeelhaar/upgrowth/infrastructure/observability"
	"github.com/felixgeelhaar/upgrowth/infrastructure/storage/resultcache"
	"github.com/felixgeelhaar/upgrowth/infrastructure/telemetry"
)

// Component-scoped loggers for the three orchestration roles.
var (
	svcLog    = logging.ForComponent("mining-service")
	aggLog    = logging.ForComponent("aggregation-service")
	clientLog = logging.ForComponent("federated-client")
)

// MiningService runs complete mining passes: snapshot the store, build
// the utility tree, mine it, and optionally cache and persist the
// result set.
type MiningService struct {
	store   transaction.Store
	table   transaction.UtilityTable
	miner   *mining.Miner
	opts    mining.Options
	workers int
	cache   *resultcache.ResultCache
	results mining.ResultStore
	metrics telemetry.Metrics
	tracer  observability.Tracer
}

// MiningConfig contains configuration for the mining service.
type MiningConfig struct {
	// Store supplies the transaction snapshot. Required.
	Store transaction.Store

	// Table supplies external item utilities. When nil, per-item
	// averages are synthesized from the snapshot at mining time.
	Table transaction.UtilityTable

	// MinUtility is the mining threshold.
	MinUtility float64

	// MaxItemsets caps the emitted result set. Zero means unlimited.
	MaxItemsets int

	// MaxDepth bounds itemset size. Zero means unbounded.
	MaxDepth int

	// Workers above one enables parallel mining.
	Workers int

	// Cache short-circuits repeat runs over an unchanged snapshot.
	Cache *resultcache.ResultCache

	// Results persists every completed run.
	Results mining.ResultStore

	Metrics telemetry.Metrics
	Tracer  observability.Tracer
}

// NewMiningService creates a mining service with the given configuration.
func NewMiningService(config MiningConfig) (*MiningService, error) {
	if config.Store == nil {
		return nil, errors.New("store is required")
	}

	opts := mining.Options{
		MinUtility:  config.MinUtility,
		MaxItemsets: config.MaxItemsets,
		MaxDepth:    config.MaxDepth,
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	s := &MiningService{
		store:   config.Store,
		table:   config.Table,
		miner:   &mining.Miner{},
		opts:    opts,
		workers: config.Workers,
		cache:   config.Cache,
		results: config.Results,
		metrics: config.Metrics,
		tracer:  config.Tracer,
	}

	if s.workers < 1 {
		s.workers = 1
	}
	if s.metrics == nil {
		s.metrics = &telemetry.NoopMetricsProvider{}
	}
	if s.tracer == nil {
		s.tracer = observability.NewNoopTracer()
	}

	return s, nil
}

// Store returns the underlying transaction store, so callers can feed
// it (ingest, watcher) through the same handle the service mines.
func (s *MiningService) Store() transaction.Store {
	return s.store
}

// Mine runs one complete pass at the configured threshold.
func (s *MiningService) Mine(ctx context.Context) (mining.ResultSet, error) {
	return s.MineWith(ctx, s.opts)
}

// MineWith runs one complete pass with the given options, overriding
// the configured ones. Federated clients use this to mine at the
// threshold the server handed out.
func (s *MiningService) MineWith(ctx context.Context, opts mining.Options) (mining.ResultSet, error) {
	if err := opts.Validate(); err != nil {
		return mining.ResultSet{}, err
	}

	txs, err := s.store.All(ctx)
	if err != nil {
		return mining.ResultSet{}, fmt.Errorf("load transactions: %w", err)
	}

	key := resultcache.Key(resultcache.Fingerprint(txs), opts.MinUtility)
	if s.cache != nil {
		rs, found, err := s.cache.Load(ctx, key)
		if err != nil {
			svcLog.Warn().
				Add(logging.ErrorField(err)).
				Msg("result cache lookup failed")
		} else if found {
			svcLog.Debug().
				Add(logging.Itemsets(rs.Len())).
				Msg("serving cached result")
			return rs, nil
		}
	}

	table := s.table
	if table == nil {
		table = make(transaction.UtilityTable)
		table.Synthesize(txs)
	}

	var tree *utilitytree.Tree
	buildStart := time.Now()
	err = observability.TraceBuild(ctx, s.tracer, len(txs), func(ctx context.Context) error {
		b := &utilitytree.Builder{Table: table, MinUtility: opts.MinUtility}
		var buildErr error
		tree, buildErr = b.Build(txs)
		return buildErr
	})
	if err != nil {
		s.metrics.RecordError(ctx, "build", map[string]string{"error": err.Error()})
		return mining.ResultSet{}, fmt.Errorf("build tree: %w", err)
	}
	s.metrics.RecordBuild(ctx, tree.Transactions, tree.Skipped, tree.NodeCount(), time.Since(buildStart))

	var rs mining.ResultSet
	mineStart := time.Now()
	err = observability.TraceMine(ctx, s.tracer, opts.MinUtility, func(ctx context.Context) error {
		var mineErr error
		if s.workers > 1 {
			rs, mineErr = s.miner.MineParallel(ctx, tree, opts, s.workers)
		} else {
			rs, mineErr = s.miner.Mine(ctx, tree, opts)
		}
		return mineErr
	})
	if err != nil {
		s.metrics.RecordError(ctx, "mine", map[string]string{"error": err.Error()})
		return mining.ResultSet{}, fmt.Errorf("mine: %w", err)
	}
	s.metrics.RecordMine(ctx, rs.Len(), rs.Pruned, rs.Partial, time.Since(mineStart))

	svcLog.Info().
		Add(logging.Threshold(opts.MinUtility)).
		Add(logging.Transactions(tree.Transactions)).
		Add(logging.Skipped(tree.Skipped)).
		Add(logging.Itemsets(rs.Len())).
		Add(logging.Partial(rs.Partial)).
		Add(logging.Duration(time.Since(mineStart))).
		Msg("mining run complete")

	if s.cache != nil {
		if err := s.cache.Save(ctx, key, rs); err != nil {
			svcLog.Warn().
				Add(logging.ErrorField(err)).
				Msg("result cache save failed")
		}
	}
	if s.results != nil {
		if err := s.results.Save(ctx, key, rs); err != nil {
			svcLog.Warn().
				Add(logging.ErrorField(err)).
				Msg("result store save failed")
		}
	}

	return rs, nil
}

// Verify re-mines the current snapshot by exhaustive enumeration and
// reports whether the tree-based miner agrees. Intended for small
// datasets and tests; enumeration is exponential in the item count.
func (s *MiningService) Verify(ctx context.Context) (bool, error) {
	txs, err := s.store.All(ctx)
	if err != nil {
		return false, fmt.Errorf("load transactions: %w", err)
	}

	table := s.table
	if table == nil {
		table = make(transaction.UtilityTable)
		table.Synthesize(txs)
	}

	opts := mining.Options{MinUtility: s.opts.MinUtility}
	b := &utilitytree.Builder{Table: table, MinUtility: opts.MinUtility}
	tree, err := b.Build(txs)
	if err != nil {
		return false, fmt.Errorf("build tree: %w", err)
	}
	got, err := s.miner.Mine(ctx, tree, opts)
	if err != nil {
		return false, fmt.Errorf("mine: %w", err)
	}

	want := mining.BruteForce(txs, table, opts.MinUtility)
	return got.Equal(want), nil
}

// maxTransactionUtility returns the largest single-transaction utility
// in the snapshot, the sensitivity bound for the privacy mechanism.
func maxTransactionUtility(txs []transaction.Transaction) float64 {
	var maxU float64
	for _, tx := range txs {
		if u := tx.Utility(); u > maxU {
			maxU = u
		}
	}
	return maxU
}
