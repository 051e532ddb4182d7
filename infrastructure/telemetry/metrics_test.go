package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupTestMetrics sets up a test meter provider and returns it along with a reader.
func setupTestMetrics(t *testing.T) (*metric.ManualReader, *MetricsProvider) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	otel.SetMeterProvider(provider)

	mp := NewMetricsProvider(DefaultMetricsConfig())
	if mp.Error() != nil {
		t.Fatalf("failed to create metrics provider: %v", mp.Error())
	}

	return reader, mp
}

func collectNames(t *testing.T, reader *metric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	byName := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			byName[m.Name] = m
		}
	}
	return byName
}

func TestNewMetricsProvider(t *testing.T) {
	reader, mp := setupTestMetrics(t)
	defer reader.Shutdown(context.Background())

	if mp == nil {
		t.Fatal("NewMetricsProvider returned nil")
	}
	if mp.Error() != nil {
		t.Errorf("unexpected error: %v", mp.Error())
	}
}

func TestMetricsProvider_RecordBuild(t *testing.T) {
	reader, mp := setupTestMetrics(t)
	defer reader.Shutdown(context.Background())

	ctx := context.Background()

	mp.RecordBuild(ctx, 100, 3, 42, 25*time.Millisecond)
	mp.RecordBuild(ctx, 50, 0, 17, 10*time.Millisecond)

	byName := collectNames(t, reader)

	m, ok := byName["mining.transactions.loaded"]
	if !ok {
		t.Fatal("mining.transactions.loaded metric not found")
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64], got %T", m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 150 {
		t.Errorf("expected 150 loaded transactions, got %d", total)
	}

	if _, ok := byName["mining.transactions.skipped"]; !ok {
		t.Error("mining.transactions.skipped metric not found")
	}
	if _, ok := byName["mining.tree.nodes"]; !ok {
		t.Error("mining.tree.nodes metric not found")
	}
	if _, ok := byName["mining.build.duration"]; !ok {
		t.Error("mining.build.duration metric not found")
	}
}

func TestMetricsProvider_RecordMine(t *testing.T) {
	reader, mp := setupTestMetrics(t)
	defer reader.Shutdown(context.Background())

	ctx := context.Background()

	mp.RecordMine(ctx, 12, 30, false, 80*time.Millisecond)
	mp.RecordMine(ctx, 5, 8, true, 15*time.Millisecond)

	byName := collectNames(t, reader)

	m, ok := byName["mining.itemsets.emitted"]
	if !ok {
		t.Fatal("mining.itemsets.emitted metric not found")
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64], got %T", m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 17 {
		t.Errorf("expected 17 emitted itemsets, got %d", total)
	}

	if _, ok := byName["mining.candidates.pruned"]; !ok {
		t.Error("mining.candidates.pruned metric not found")
	}
	if _, ok := byName["mining.mine.duration"]; !ok {
		t.Error("mining.mine.duration metric not found")
	}
}

func TestMetricsProvider_RecordSubmission(t *testing.T) {
	reader, mp := setupTestMetrics(t)
	defer reader.Shutdown(context.Background())

	ctx := context.Background()

	mp.RecordSubmission(ctx, "client-1", 0, true)
	mp.RecordSubmission(ctx, "client-2", 0, false)

	byName := collectNames(t, reader)

	if _, ok := byName["federation.submissions"]; !ok {
		t.Error("federation.submissions metric not found")
	}
	// The failed submission also counts as an error.
	if _, ok := byName["mining.errors"]; !ok {
		t.Error("mining.errors metric not found")
	}
}

func TestMetricsProvider_RecordAggregation(t *testing.T) {
	reader, mp := setupTestMetrics(t)
	defer reader.Shutdown(context.Background())

	ctx := context.Background()

	mp.RecordAggregation(ctx, 1, 3, 24, 120*time.Millisecond)

	byName := collectNames(t, reader)

	if _, ok := byName["federation.aggregate.duration"]; !ok {
		t.Error("federation.aggregate.duration metric not found")
	}
}

func TestMetricsProvider_ActiveSessions(t *testing.T) {
	reader, mp := setupTestMetrics(t)
	defer reader.Shutdown(context.Background())

	ctx := context.Background()

	mp.IncrementActiveSessions(ctx)
	mp.IncrementActiveSessions(ctx)
	mp.DecrementActiveSessions(ctx)

	byName := collectNames(t, reader)

	if _, ok := byName["federation.sessions.active"]; !ok {
		t.Error("federation.sessions.active metric not found")
	}
}

func TestMetricsProvider_RecordError(t *testing.T) {
	reader, mp := setupTestMetrics(t)
	defer reader.Shutdown(context.Background())

	ctx := context.Background()

	mp.RecordError(ctx, "ingest", map[string]string{
		"path":   "/data/foodmart.txt",
		"reason": "malformed line",
	})

	byName := collectNames(t, reader)

	if _, ok := byName["mining.errors"]; !ok {
		t.Error("mining.errors metric not found")
	}
}

func TestNoopMetricsProvider(t *testing.T) {
	// Verify that NoopMetricsProvider doesn't panic
	noop := &NoopMetricsProvider{}
	ctx := context.Background()

	noop.RecordBuild(ctx, 1, 0, 1, time.Second)
	noop.RecordMine(ctx, 1, 0, false, time.Second)
	noop.RecordSubmission(ctx, "client", 0, true)
	noop.RecordAggregation(ctx, 0, 1, 1, time.Second)
	noop.RecordError(ctx, "type", nil)
	noop.IncrementActiveSessions(ctx)
	noop.DecrementActiveSessions(ctx)
}

func TestDefaultMetricsConfig(t *testing.T) {
	config := DefaultMetricsConfig()

	if config.MeterName == "" {
		t.Error("MeterName should not be empty")
	}
	if config.MeterVersion == "" {
		t.Error("MeterVersion should not be empty")
	}
}
