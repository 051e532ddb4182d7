package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/upgrowth/domain/federation"
	"github.com/felixgeelhaar/upgrowth/infrastructure/logging"
	"github.com/felixgeelhaar/upgrowth/infrastructure/observability"
	"github.com/felixgeelhaar/upgrowth/infrastructure/telemetry"
)

// AggregationService is the server side of a federated run: it wraps
// the merge aggregator with session and global-result persistence,
// metrics, and tracing. One service instance is one federated run,
// identified by its run ID.
type AggregationService struct {
	id       string
	agg      federation.Aggregator
	sessions federation.SessionStore
	globals  federation.GlobalStore
	metrics  telemetry.Metrics
	tracer   observability.Tracer
}

// AggregationConfig contains configuration for the aggregation service.
type AggregationConfig struct {
	// Config is the global mining configuration handed to every
	// client at registration.
	Config federation.Config

	// Aggregator overrides the merge aggregator. Optional.
	Aggregator federation.Aggregator

	// Sessions persists issued sessions across restarts. Optional.
	Sessions federation.SessionStore

	// Globals persists aggregated round results, keyed by the run ID.
	// Optional.
	Globals federation.GlobalStore

	Metrics telemetry.Metrics
	Tracer  observability.Tracer
}

// NewAggregationService creates an aggregation service for one
// federated run.
func NewAggregationService(config AggregationConfig) (*AggregationService, error) {
	if config.Config.MinUtility < 0 {
		return nil, errors.New("minimum utility must be non-negative")
	}
	if config.Config.Epsilon < 0 {
		return nil, errors.New("epsilon must be non-negative")
	}

	s := &AggregationService{
		id:       uuid.NewString(),
		agg:      config.Aggregator,
		sessions: config.Sessions,
		globals:  config.Globals,
		metrics:  config.Metrics,
		tracer:   config.Tracer,
	}

	if s.agg == nil {
		s.agg = federation.NewMergeAggregator(config.Config)
	}
	if s.metrics == nil {
		s.metrics = &telemetry.NoopMetricsProvider{}
	}
	if s.tracer == nil {
		s.tracer = observability.NewNoopTracer()
	}

	return s, nil
}

// ID returns the run identifier globals are persisted under.
func (s *AggregationService) ID() string {
	return s.id
}

// Register implements federation.Aggregator.
func (s *AggregationService) Register(ctx context.Context, c federation.Client) (federation.Session, federation.Config, error) {
	session, cfg, err := s.agg.Register(ctx, c)
	if err != nil {
		return federation.Session{}, federation.Config{}, err
	}
	s.metrics.IncrementActiveSessions(ctx)

	if s.sessions != nil {
		if err := s.sessions.Put(ctx, session); err != nil {
			aggLog.Warn().
				Add(logging.SessionID(session.ID)).
				Add(logging.ErrorField(err)).
				Msg("session persistence failed")
		}
	}

	aggLog.Info().
		Add(logging.ClientID(c.ID)).
		Add(logging.SessionID(session.ID)).
		Msg("client registered")
	return session, cfg, nil
}

// Submit implements federation.Aggregator.
func (s *AggregationService) Submit(ctx context.Context, r federation.LocalResult) error {
	err := s.agg.Submit(ctx, r)
	s.metrics.RecordSubmission(ctx, r.ClientID, r.Round, err == nil)
	if err != nil {
		return err
	}

	aggLog.Debug().
		Add(logging.ClientID(r.ClientID)).
		Add(logging.Round(r.Round)).
		Add(logging.Itemsets(len(r.Itemsets))).
		Msg("submission recorded")
	return nil
}

// Aggregate implements federation.Aggregator. The aggregated result is
// persisted when a global store is configured; persistence failure is
// logged but does not void the result.
func (s *AggregationService) Aggregate(ctx context.Context, round int) (federation.GlobalResult, error) {
	var global federation.GlobalResult
	start := time.Now()
	err := observability.TraceAggregate(ctx, s.tracer, round, func(ctx context.Context) error {
		var aggErr error
		global, aggErr = s.agg.Aggregate(ctx, round)
		return aggErr
	})
	if err != nil {
		s.metrics.RecordError(ctx, "aggregate", map[string]string{"error": err.Error()})
		return federation.GlobalResult{}, err
	}
	s.metrics.RecordAggregation(ctx, round, global.ParticipatingClients, len(global.Itemsets), time.Since(start))

	if s.globals != nil {
		if err := s.globals.SaveGlobal(ctx, s.id, global); err != nil {
			aggLog.Warn().
				Add(logging.Round(round)).
				Add(logging.ErrorField(err)).
				Msg("global result persistence failed")
		}
	}

	aggLog.Info().
		Add(logging.Round(round)).
		Add(logging.Itemsets(len(global.Itemsets))).
		Add(logging.Duration(time.Since(start))).
		Msg("round aggregated")
	return global, nil
}

// Global implements federation.Aggregator. When the in-memory
// aggregator has no result yet and a global store is configured, the
// most recent persisted result for this run is returned instead, so a
// restarted server can still answer.
func (s *AggregationService) Global(ctx context.Context) (federation.GlobalResult, error) {
	global, err := s.agg.Global(ctx)
	if err == nil {
		return global, nil
	}
	if !errors.Is(err, federation.ErrNoGlobalResult) || s.globals == nil {
		return federation.GlobalResult{}, err
	}

	global, loadErr := s.globals.LatestGlobal(ctx, s.id)
	if loadErr != nil {
		if errors.Is(loadErr, federation.ErrGlobalNotFound) {
			return federation.GlobalResult{}, err
		}
		return federation.GlobalResult{}, fmt.Errorf("load persisted global: %w", loadErr)
	}
	return global, nil
}

// CloseSession marks a session closed and removes it from the session
// store.
func (s *AggregationService) CloseSession(ctx context.Context, sessionID string) error {
	s.metrics.DecrementActiveSessions(ctx)
	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

var _ federation.Aggregator = (*AggregationService)(nil)
