package application

import (
	"github.com/felixgeelhaar/upgrowth/domain/mining"
	"github.com/felixgeelhaar/upgrowth/domain/transaction"
	"github.com/felixgeelhaar/upgrowth/infrastructure/observability"
	"github.com/felixgeelhaar/upgrowth/infrastructure/storage/resultcache"
	"github.com/felixgeelhaar/upgrowth/infrastructure/telemetry"
)

// Option configures the mining service.
type Option func(*MiningConfig)

// WithStore sets the transaction store.
func WithStore(s transaction.Store) Option {
	return func(c *MiningConfig) {
		c.Store = s
	}
}

// WithTable sets the external utility table.
func WithTable(t transaction.UtilityTable) Option {
	return func(c *MiningConfig) {
		c.Table = t
	}
}

// WithMinUtility sets the mining threshold.
func WithMinUtility(min float64) Option {
	return func(c *MiningConfig) {
		c.MinUtility = min
	}
}

// WithMaxItemsets sets the result set ceiling.
func WithMaxItemsets(n int) Option {
	return func(c *MiningConfig) {
		c.MaxItemsets = n
	}
}

// WithMaxDepth bounds itemset size.
func WithMaxDepth(n int) Option {
	return func(c *MiningConfig) {
		c.MaxDepth = n
	}
}

// WithWorkers enables parallel mining with the given worker count.
func WithWorkers(n int) Option {
	return func(c *MiningConfig) {
		c.Workers = n
	}
}

// WithResultCache sets the cache consulted before each run.
func WithResultCache(rc *resultcache.ResultCache) Option {
	return func(c *MiningConfig) {
		c.Cache = rc
	}
}

// WithResultStore sets the store every completed run is persisted to.
func WithResultStore(rs mining.ResultStore) Option {
	return func(c *MiningConfig) {
		c.Results = rs
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m telemetry.Metrics) Option {
	return func(c *MiningConfig) {
		c.Metrics = m
	}
}

// WithTracer sets the tracer.
func WithTracer(t observability.Tracer) Option {
	return func(c *MiningConfig) {
		c.Tracer = t
	}
}

// NewMiningServiceWithOptions creates a mining service with functional
// options.
func NewMiningServiceWithOptions(opts ...Option) (*MiningService, error) {
	config := MiningConfig{}
	for _, opt := range opts {
		opt(&config)
	}
	return NewMiningService(config)
}
