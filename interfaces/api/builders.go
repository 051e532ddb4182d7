package api

import (
	"io"

	"github.com/felixgeelhaar/upgrowth/application"
	"github.com/felixgeelhaar/upgrowth/domain/cache"
	"github.com/felixgeelhaar/upgrowth/domain/federation"
	"github.com/felixgeelhaar/upgrowth/domain/privacy"
	"github.com/felixgeelhaar/upgrowth/infrastructure/ingest"
	"github.com/felixgeelhaar/upgrowth/infrastructure/resilience"
	"github.com/felixgeelhaar/upgrowth/infrastructure/storage/memory"
	"github.com/felixgeelhaar/upgrowth/infrastructure/storage/resultcache"
)

// Storage

// NewMemoryStore creates an in-memory transaction store.
func NewMemoryStore() *memory.TransactionStore {
	return memory.NewTransactionStore()
}

// NewMemoryResultStore creates an in-memory result store.
func NewMemoryResultStore() *memory.ResultStore {
	return memory.NewResultStore()
}

// NewResultCache wraps any cache backend as a mining result cache.
func NewResultCache(c cache.Cache, opts ...resultcache.Option) *resultcache.ResultCache {
	return resultcache.New(c, opts...)
}

// NewMemoryCache creates an in-memory LRU cache backend.
func NewMemoryCache() *memory.Cache {
	return memory.NewCache()
}

// Ingest

// LoadReport summarizes one dataset ingest.
type LoadReport = ingest.LoadReport

// ParseLine parses one dataset line into a transaction.
func ParseLine(line string) (Transaction, error) {
	return ingest.ParseLine(line)
}

// Load reads a dataset stream into a transaction store, skipping and
// counting malformed lines.
var Load = ingest.Load

// LoadFile reads a dataset file into a transaction store.
var LoadFile = ingest.LoadFile

// Generate writes a synthetic dataset in the line format ParseLine
// reads.
func Generate(w io.Writer, cfg ingest.GeneratorConfig) error {
	return ingest.Generate(w, cfg)
}

// Privacy

// NewLaplace creates a Laplace mechanism with the given epsilon.
func NewLaplace(epsilon float64) (*privacy.Laplace, error) {
	return privacy.NewLaplace(epsilon)
}

// NewSeededLaplace creates a deterministic Laplace mechanism for tests.
func NewSeededLaplace(epsilon float64, seed int64) (*privacy.Laplace, error) {
	return privacy.NewSeededLaplace(epsilon, seed)
}

// Federation

// FederationConfig is the global configuration an aggregation server
// hands to every client.
type FederationConfig = federation.Config

// GlobalResult is the aggregated view across all participating clients.
type GlobalResult = federation.GlobalResult

// NewAggregationService creates the server side of a federated run.
func NewAggregationService(config application.AggregationConfig) (*application.AggregationService, error) {
	return application.NewAggregationService(config)
}

// NewFederatedClient creates one data holder's round driver.
func NewFederatedClient(config application.ClientConfig) (*application.FederatedClient, error) {
	return application.NewFederatedClient(config)
}

// NewResilientSubmitter wraps an aggregator so submissions survive
// transient failures.
func NewResilientSubmitter(agg federation.Aggregator) *resilience.Submitter {
	return resilience.NewDefaultSubmitter(agg)
}
