package observability

import (
	"context"
)

// NoopTracer is a no-op tracer implementation.
type NoopTracer struct{}

// NewNoopTracer creates a new no-op tracer.
func NewNoopTracer() *NoopTracer {
	return &NoopTracer{}
}

// StartSpan implements Tracer.
func (t *NoopTracer) StartSpan(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, &noopSpan{}
}

var _ Tracer = (*NoopTracer)(nil)

type noopSpan struct{}

func (s *noopSpan) End()                              {}
func (s *noopSpan) SetAttributes(_ ...Attribute)      {}
func (s *noopSpan) RecordError(_ error)               {}
func (s *noopSpan) SetStatus(_ StatusCode, _ string)  {}
func (s *noopSpan) AddEvent(_ string, _ ...Attribute) {}

var _ Span = (*noopSpan)(nil)
