// Package telemetry provides OpenTelemetry metrics instruments for the
// mining engine and the federation layer.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsProvider provides access to metrics instruments.
type MetricsProvider struct {
	meter metric.Meter

	// Counters
	itemsetsEmitted     metric.Int64Counter
	candidatesPruned    metric.Int64Counter
	transactionsLoaded  metric.Int64Counter
	transactionsSkipped metric.Int64Counter
	nodesCreated        metric.Int64Counter
	submissions         metric.Int64Counter
	errors              metric.Int64Counter

	// Histograms
	buildDuration     metric.Float64Histogram
	mineDuration      metric.Float64Histogram
	aggregateDuration metric.Float64Histogram

	// Gauges (using UpDownCounter for OpenTelemetry)
	activeSessions metric.Int64UpDownCounter

	initOnce sync.Once
	initErr  error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter (default: "github.com/felixgeelhaar/upgrowth").
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
	// Attributes are default attributes to attach to all metrics.
	Attributes []attribute.KeyValue
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/upgrowth",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config = DefaultMetricsConfig()
	}

	provider := otel.GetMeterProvider()
	meter := provider.Meter(
		config.MeterName,
		metric.WithInstrumentationVersion(config.MeterVersion),
	)

	mp := &MetricsProvider{
		meter: meter,
	}

	mp.initOnce.Do(func() {
		mp.initErr = mp.initInstruments()
	})

	return mp
}

// initInstruments initializes all metric instruments.
func (mp *MetricsProvider) initInstruments() error {
	var err error

	// Counters
	mp.itemsetsEmitted, err = mp.meter.Int64Counter(
		"mining.itemsets.emitted",
		metric.WithDescription("Number of high-utility itemsets emitted"),
		metric.WithUnit("{itemset}"),
	)
	if err != nil {
		return err
	}

	mp.candidatesPruned, err = mp.meter.Int64Counter(
		"mining.candidates.pruned",
		metric.WithDescription("Number of candidate extensions pruned by the utility bound"),
		metric.WithUnit("{candidate}"),
	)
	if err != nil {
		return err
	}

	mp.transactionsLoaded, err = mp.meter.Int64Counter(
		"mining.transactions.loaded",
		metric.WithDescription("Number of transactions inserted into the tree"),
		metric.WithUnit("{transaction}"),
	)
	if err != nil {
		return err
	}

	mp.transactionsSkipped, err = mp.meter.Int64Counter(
		"mining.transactions.skipped",
		metric.WithDescription("Number of malformed transactions skipped during ingest"),
		metric.WithUnit("{transaction}"),
	)
	if err != nil {
		return err
	}

	mp.nodesCreated, err = mp.meter.Int64Counter(
		"mining.tree.nodes",
		metric.WithDescription("Number of tree nodes created"),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		return err
	}

	mp.submissions, err = mp.meter.Int64Counter(
		"federation.submissions",
		metric.WithDescription("Number of local result submissions"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return err
	}

	mp.errors, err = mp.meter.Int64Counter(
		"mining.errors",
		metric.WithDescription("Number of errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	// Histograms
	mp.buildDuration, err = mp.meter.Float64Histogram(
		"mining.build.duration",
		metric.WithDescription("Duration of tree builds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.mineDuration, err = mp.meter.Float64Histogram(
		"mining.mine.duration",
		metric.WithDescription("Duration of mining passes"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.aggregateDuration, err = mp.meter.Float64Histogram(
		"federation.aggregate.duration",
		metric.WithDescription("Duration of round aggregations"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	// Gauges (UpDownCounters)
	mp.activeSessions, err = mp.meter.Int64UpDownCounter(
		"federation.sessions.active",
		metric.WithDescription("Number of active federation sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordBuild records a completed tree build.
func (mp *MetricsProvider) RecordBuild(ctx context.Context, transactions, skipped, nodes int, duration time.Duration) {
	mp.transactionsLoaded.Add(ctx, int64(transactions))
	if skipped > 0 {
		mp.transactionsSkipped.Add(ctx, int64(skipped))
	}
	mp.nodesCreated.Add(ctx, int64(nodes))
	mp.buildDuration.Record(ctx, float64(duration.Milliseconds()))
}

// RecordMine records a completed mining pass.
func (mp *MetricsProvider) RecordMine(ctx context.Context, itemsets, pruned int, partial bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("partial", partial),
	}

	mp.itemsetsEmitted.Add(ctx, int64(itemsets), metric.WithAttributes(attrs...))
	if pruned > 0 {
		mp.candidatesPruned.Add(ctx, int64(pruned))
	}
	mp.mineDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordSubmission records a local result submission.
func (mp *MetricsProvider) RecordSubmission(ctx context.Context, clientID string, round int, success bool) {
	attrs := []attribute.KeyValue{
		attribute.String("client.id", clientID),
		attribute.Int("round", round),
		attribute.Bool("success", success),
	}

	mp.submissions.Add(ctx, 1, metric.WithAttributes(attrs...))

	if !success {
		mp.errors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("error.type", "submission"),
			attribute.String("client.id", clientID),
		))
	}
}

// RecordAggregation records a completed round aggregation.
func (mp *MetricsProvider) RecordAggregation(ctx context.Context, round, clients, itemsets int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Int("round", round),
		attribute.Int("clients", clients),
		attribute.Int("itemsets", itemsets),
	}

	mp.aggregateDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordError records an error.
func (mp *MetricsProvider) RecordError(ctx context.Context, errorType string, details map[string]string) {
	attrs := []attribute.KeyValue{
		attribute.String("error.type", errorType),
	}
	for k, v := range details {
		attrs = append(attrs, attribute.String(k, v))
	}

	mp.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// IncrementActiveSessions increments the active sessions counter.
func (mp *MetricsProvider) IncrementActiveSessions(ctx context.Context) {
	mp.activeSessions.Add(ctx, 1)
}

// DecrementActiveSessions decrements the active sessions counter.
func (mp *MetricsProvider) DecrementActiveSessions(ctx context.Context) {
	mp.activeSessions.Add(ctx, -1)
}

// NoopMetricsProvider is a no-op metrics provider for testing or when metrics are disabled.
type NoopMetricsProvider struct{}

// RecordBuild is a no-op.
func (n *NoopMetricsProvider) RecordBuild(ctx context.Context, transactions, skipped, nodes int, duration time.Duration) {
}

// RecordMine is a no-op.
func (n *NoopMetricsProvider) RecordMine(ctx context.Context, itemsets, pruned int, partial bool, duration time.Duration) {
}

// RecordSubmission is a no-op.
func (n *NoopMetricsProvider) RecordSubmission(ctx context.Context, clientID string, round int, success bool) {
}

// RecordAggregation is a no-op.
func (n *NoopMetricsProvider) RecordAggregation(ctx context.Context, round, clients, itemsets int, duration time.Duration) {
}

// RecordError is a no-op.
func (n *NoopMetricsProvider) RecordError(ctx context.Context, errorType string, details map[string]string) {
}

// IncrementActiveSessions is a no-op.
func (n *NoopMetricsProvider) IncrementActiveSessions(ctx context.Context) {}

// DecrementActiveSessions is a no-op.
func (n *NoopMetricsProvider) DecrementActiveSessions(ctx context.Context) {}

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordBuild(ctx context.Context, transactions, skipped, nodes int, duration time.Duration)
	RecordMine(ctx context.Context, itemsets, pruned int, partial bool, duration time.Duration)
	RecordSubmission(ctx context.Context, clientID string, round int, success bool)
	RecordAggregation(ctx context.Context, round, clients, itemsets int, duration time.Duration)
	RecordError(ctx context.Context, errorType string, details map[string]string)
	IncrementActiveSessions(ctx context.Context)
	DecrementActiveSessions(ctx context.Context)
}

// Ensure implementations satisfy the interface.
var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = (*NoopMetricsProvider)(nil)
)
