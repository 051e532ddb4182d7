package resilience

import (
	"time"

	"github.com/felixgeelhaar/upgrowth/domain/federation"
)

// Option configures the submitter.
type Option func(*SubmitterConfig)

// WithMaxConcurrent sets the maximum concurrent submissions.
func WithMaxConcurrent(n int) Option {
	return func(c *SubmitterConfig) {
		c.MaxConcurrent = n
	}
}

// WithCircuitBreakerThreshold sets the failure threshold for circuit breaker.
func WithCircuitBreakerThreshold(n int) Option {
	return func(c *SubmitterConfig) {
		c.CircuitBreakerThreshold = n
	}
}

// WithCircuitBreakerTimeout sets the circuit breaker open duration.
func WithCircuitBreakerTimeout(d time.Duration) Option {
	return func(c *SubmitterConfig) {
		c.CircuitBreakerTimeout = d
	}
}

// WithRetryAttempts sets the maximum retry attempts.
func WithRetryAttempts(n int) Option {
	return func(c *SubmitterConfig) {
		c.RetryMaxAttempts = n
	}
}

// WithRetryDelay sets the initial retry delay.
func WithRetryDelay(d time.Duration) Option {
	return func(c *SubmitterConfig) {
		c.RetryInitialDelay = d
	}
}

// WithTimeout sets the default submission timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *SubmitterConfig) {
		c.DefaultTimeout = d
	}
}

// NewSubmitterWithOptions creates a submitter with the given options.
func NewSubmitterWithOptions(agg federation.Aggregator, opts ...Option) *Submitter {
	config := DefaultSubmitterConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return NewSubmitter(agg, config)
}
