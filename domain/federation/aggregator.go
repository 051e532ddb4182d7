package federation

import "context"

// Aggregator is the contract the aggregation layer exposes to clients:
// register, submit local results, and read back the aggregated global
// set. The mining engine only ever sees this interface.
type Aggregator interface {
	// Register enrolls a client and opens a session carrying the
	// global mining configuration.
	Register(ctx context.Context, c Client) (Session, Config, error)

	// Submit records one client's local results for its current round.
	Submit(ctx context.Context, r LocalResult) error

	// Aggregate closes the given round and computes the global result
	// from every submission received for it.
	Aggregate(ctx context.Context, round int) (GlobalResult, error)

	// Global returns the most recently aggregated global result.
	Global(ctx context.Context) (GlobalResult, error)
}
