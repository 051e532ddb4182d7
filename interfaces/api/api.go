// Package api provides the public API for the upgrowth mining engine.
//
// upgrowth discovers high-utility itemsets: combinations of items whose
// summed utility (profit, margin, engagement) across a transaction
// database clears a caller-chosen threshold, computed without
// enumerating the exponential candidate space.
//
// # Quick Start
//
// Mine a small in-memory dataset in one call:
//
//	table := api.UtilityTable{"milk": 3, "bread": 1}
//	txs := []api.Transaction{
//	    {{ID: "milk", Quantity: 2, Utility: 6}, {ID: "bread", Quantity: 1, Utility: 1}},
//	}
//	rs, err := api.Mine(ctx, txs, table, 5)
//
// For repeated runs over a growing store, build a service instead:
//
//	svc, err := api.NewMiningService(
//	    api.WithStore(api.NewMemoryStore()),
//	    api.WithTable(table),
//	    api.WithMinUtility(100),
//	    api.WithWorkers(4),
//	)
//	rs, err := svc.Mine(ctx)
//
// # Federation
//
// Several data holders can mine jointly without pooling raw
// transactions: each runs a FederatedClient against one
// AggregationService, submitting only (optionally noise-perturbed)
// itemset summaries. See NewAggregationService and NewFederatedClient.
package api

import (
	"context"

	"github.com/felixgeelhaar/upgrowth/application"
	"github.com/felixgeelhaar/upgrowth/domain/mining"
	"github.com/felixgeelhaar/upgrowth/domain/transaction"
	"github.com/felixgeelhaar/upgrowth/domain/utilitytree"
)

// Core data types.
type (
	// Item is one item occurrence within a transaction.
	Item = transaction.Item

	// Transaction is an ordered sequence of item occurrences.
	Transaction = transaction.Transaction

	// UtilityTable maps item IDs to external per-unit utilities.
	UtilityTable = transaction.UtilityTable

	// Itemset is one discovered high-utility itemset.
	Itemset = mining.Itemset

	// ResultSet is the outcome of one mining run.
	ResultSet = mining.ResultSet

	// Options bounds a mining run.
	Options = mining.Options
)

// Mine runs one complete pass over txs at the given threshold. It is
// the one-shot convenience entry; repeated runs should go through a
// MiningService so tree building and caching amortize.
func Mine(ctx context.Context, txs []Transaction, table UtilityTable, minUtility float64) (ResultSet, error) {
	opts := Options{MinUtility: minUtility}
	if err := opts.Validate(); err != nil {
		return ResultSet{}, err
	}
	b := &utilitytree.Builder{Table: table, MinUtility: minUtility}
	tree, err := b.Build(txs)
	if err != nil {
		return ResultSet{}, err
	}
	var m mining.Miner
	return m.Mine(ctx, tree, opts)
}

// NewMiningService creates a mining service with functional options.
func NewMiningService(opts ...application.Option) (*application.MiningService, error) {
	return application.NewMiningServiceWithOptions(opts...)
}

// Service options, re-exported for single-import callers.
var (
	WithStore       = application.WithStore
	WithTable       = application.WithTable
	WithMinUtility  = application.WithMinUtility
	WithMaxItemsets = application.WithMaxItemsets
	WithMaxDepth    = application.WithMaxDepth
	WithWorkers     = application.WithWorkers
	WithResultCache = application.WithResultCache
	WithResultStore = application.WithResultStore
	WithMetrics     = application.WithMetrics
	WithTracer      = application.WithTracer
)
