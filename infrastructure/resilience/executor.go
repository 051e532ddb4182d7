// Package resilience wraps a federation aggregator with circuit breaker,
// retry, and bulkhead patterns using fortify.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/upgrowth/domain/federation"
)

// Submitter decorates a federation.Aggregator so that submissions survive
// transient aggregator failures. Register, Aggregate, and Global pass
// through unchanged.
type Submitter struct {
	agg      federation.Aggregator
	bulkhead bulkhead.Bulkhead[struct{}]
	breaker  circuitbreaker.CircuitBreaker[struct{}]
	retry    retry.Retry[struct{}]
	timeout  time.Duration
}

// SubmitterConfig configures the resilient submitter.
type SubmitterConfig struct {
	// MaxConcurrent limits concurrent submissions.
	MaxConcurrent int

	// CircuitBreakerThreshold is the number of failures before opening.
	CircuitBreakerThreshold int

	// CircuitBreakerTimeout is how long the circuit stays open.
	CircuitBreakerTimeout time.Duration

	// RetryMaxAttempts is the maximum number of retry attempts.
	RetryMaxAttempts int

	// RetryInitialDelay is the initial delay between retries.
	RetryInitialDelay time.Duration

	// RetryBackoffMultiplier is the exponential backoff multiplier.
	RetryBackoffMultiplier float64

	// DefaultTimeout is the default submission timeout.
	DefaultTimeout time.Duration
}

// DefaultSubmitterConfig returns a configuration with sensible defaults.
func DefaultSubmitterConfig() SubmitterConfig {
	return SubmitterConfig{
		MaxConcurrent:           10,
		CircuitBreakerThreshold: 5,
		CircuitBreakerTimeout:   30 * time.Second,
		RetryMaxAttempts:        3,
		RetryInitialDelay:       100 * time.Millisecond,
		RetryBackoffMultiplier:  2.0,
		DefaultTimeout:          30 * time.Second,
	}
}

// NewSubmitter creates a resilient submitter around agg.
func NewSubmitter(agg federation.Aggregator, config SubmitterConfig) *Submitter {
	maxConcurrent := config.MaxConcurrent
	if maxConcurrent < 0 {
		maxConcurrent = 10
	}
	threshold := config.CircuitBreakerThreshold
	if threshold < 0 {
		threshold = 5
	}

	return &Submitter{
		agg: agg,
		bulkhead: bulkhead.New[struct{}](bulkhead.Config{
			MaxConcurrent: maxConcurrent,
		}),
		breaker: circuitbreaker.New[struct{}](circuitbreaker.Config{
			MaxRequests: uint32(maxConcurrent), // #nosec G115 -- bounds checked above
			Interval:    config.CircuitBreakerTimeout,
			Timeout:     config.CircuitBreakerTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(threshold) // #nosec G115 -- bounds checked above
			},
		}),
		retry: retry.New[struct{}](retry.Config{
			MaxAttempts:   config.RetryMaxAttempts,
			InitialDelay:  config.RetryInitialDelay,
			BackoffPolicy: retry.BackoffExponential,
			Multiplier:    config.RetryBackoffMultiplier,
		}),
		timeout: config.DefaultTimeout,
	}
}

// NewDefaultSubmitter creates a submitter with default configuration.
func NewDefaultSubmitter(agg federation.Aggregator) *Submitter {
	return NewSubmitter(agg, DefaultSubmitterConfig())
}

// permanent reports whether err cannot succeed on retry.
func permanent(err error) bool {
	return errors.Is(err, federation.ErrUnknownSession) ||
		errors.Is(err, federation.ErrDuplicateSubmission) ||
		errors.Is(err, federation.ErrRoundNotReady)
}

// Register implements federation.Aggregator.
func (s *Submitter) Register(ctx context.Context, c federation.Client) (federation.Session, federation.Config, error) {
	return s.agg.Register(ctx, c)
}

// Submit records one client's local results, retrying transient failures.
// Composition order: Bulkhead -> Timeout -> Circuit Breaker -> Retry.
func (s *Submitter) Submit(ctx context.Context, r federation.LocalResult) error {
	_, err := s.bulkhead.Execute(ctx, func(ctx context.Context) (struct{}, error) {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		return s.breaker.Execute(ctx, func(ctx context.Context) (struct{}, error) {
			var permErr error
			_, err := s.retry.Do(ctx, func(ctx context.Context) (struct{}, error) {
				err := s.agg.Submit(ctx, r)
				if err != nil && permanent(err) {
					// Stop the retry loop; the error is surfaced below.
					permErr = err
					return struct{}{}, nil
				}
				return struct{}{}, err
			})
			if permErr != nil {
				return struct{}{}, permErr
			}
			return struct{}{}, err
		})
	})
	return err
}

// Aggregate implements federation.Aggregator.
func (s *Submitter) Aggregate(ctx context.Context, round int) (federation.GlobalResult, error) {
	return s.agg.Aggregate(ctx, round)
}

// Global implements federation.Aggregator.
func (s *Submitter) Global(ctx context.Context) (federation.GlobalResult, error) {
	return s.agg.Global(ctx)
}

// CircuitBreakerState returns the current state of the circuit breaker.
func (s *Submitter) CircuitBreakerState() circuitbreaker.State {
	return s.breaker.State()
}

var _ federation.Aggregator = (*Submitter)(nil)
