package observability

import (
	"context"
)

// TraceOperation runs fn inside a span, recording any error on it.
func TraceOperation(ctx context.Context, tracer Tracer, name string, fn func(context.Context) error, attrs ...Attribute) error {
	ctx, span := tracer.StartSpan(ctx, name, attrs...)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(StatusCodeError, err.Error())
		return err
	}
	span.SetStatus(StatusCodeOK, "")
	return nil
}

// TraceBuild traces a tree build over a transaction set.
func TraceBuild(ctx context.Context, tracer Tracer, transactions int, fn func(context.Context) error) error {
	return TraceOperation(ctx, tracer, "mining.build", fn,
		Int("transactions", transactions),
	)
}

// TraceMine traces a mining pass.
func TraceMine(ctx context.Context, tracer Tracer, minUtility float64, fn func(context.Context) error) error {
	return TraceOperation(ctx, tracer, "mining.mine", fn,
		Float64("min_utility", minUtility),
	)
}

// TraceSubmit traces a local result submission.
func TraceSubmit(ctx context.Context, tracer Tracer, clientID string, round int, fn func(context.Context) error) error {
	return TraceOperation(ctx, tracer, "federation.submit", fn,
		String("client.id", clientID),
		Int("round", round),
	)
}

// TraceAggregate traces a round aggregation.
func TraceAggregate(ctx context.Context, tracer Tracer, round int, fn func(context.Context) error) error {
	return TraceOperation(ctx, tracer, "federation.aggregate", fn,
		Int("round", round),
	)
}
