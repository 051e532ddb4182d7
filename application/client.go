package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/upgrowth/domain/federation"
	"github.com/felixgeelhaar/upgrowth/domain/mining"
	"github.com/felixgeelhaar/upgrowth/domain/privacy"
	"github.com/felixgeelhaar/upgrowth/infrastructure/logging"
	"github.com/felixgeelhaar/upgrowth/infrastructure/observability"
	"github.com/felixgeelhaar/upgrowth/infrastructure/statemachine"
	"github.com/felixgeelhaar/upgrowth/infrastructure/telemetry"
)

// ErrNotJoined indicates a round operation before Join.
var ErrNotJoined = errors.New("client has not joined a session")

// FederatedClient drives one data holder through federated rounds:
// join, mine at the server's threshold, perturb, submit. The round
// lifecycle runs on the state machine, so illegal orderings fail
// before any work is done.
type FederatedClient struct {
	id      string
	mining  *MiningService
	agg     federation.Aggregator
	mech    privacy.Mechanism
	metrics telemetry.Metrics
	tracer  observability.Tracer

	session federation.Session
	config  federation.Config
	interp  *statemachine.Interpreter
	round   int
}

// ClientConfig contains configuration for a federated client.
type ClientConfig struct {
	// ID identifies the client to the aggregation server. Required.
	ID string

	// Mining runs the local passes. Required.
	Mining *MiningService

	// Aggregator is the server side, in-process or a resilient
	// submitter in front of a remote one. Required.
	Aggregator federation.Aggregator

	// Mechanism overrides the privacy mechanism. When nil, a Laplace
	// mechanism is built from the epsilon the server hands out at
	// registration; a zero epsilon disables perturbation.
	Mechanism privacy.Mechanism

	Metrics telemetry.Metrics
	Tracer  observability.Tracer
}

// NewFederatedClient creates a client with the given configuration.
func NewFederatedClient(config ClientConfig) (*FederatedClient, error) {
	if config.ID == "" {
		return nil, errors.New("client id is required")
	}
	if config.Mining == nil {
		return nil, errors.New("mining service is required")
	}
	if config.Aggregator == nil {
		return nil, errors.New("aggregator is required")
	}

	c := &FederatedClient{
		id:      config.ID,
		mining:  config.Mining,
		agg:     config.Aggregator,
		mech:    config.Mechanism,
		metrics: config.Metrics,
		tracer:  config.Tracer,
	}

	if c.metrics == nil {
		c.metrics = &telemetry.NoopMetricsProvider{}
	}
	if c.tracer == nil {
		c.tracer = observability.NewNoopTracer()
	}

	return c, nil
}

// Join registers with the aggregation server and starts the round
// state machine. The returned config is the global one every
// participant mines against.
func (c *FederatedClient) Join(ctx context.Context) (federation.Config, error) {
	session, cfg, err := c.agg.Register(ctx, federation.Client{ID: c.id})
	if err != nil {
		return federation.Config{}, fmt.Errorf("register: %w", err)
	}
	c.session = session
	c.config = cfg
	c.round = session.Round

	if c.mech == nil && cfg.Epsilon > 0 {
		mech, err := privacy.NewLaplace(cfg.Epsilon)
		if err != nil {
			return federation.Config{}, fmt.Errorf("privacy mechanism: %w", err)
		}
		c.mech = mech
	}

	machine, err := statemachine.NewRoundMachine()
	if err != nil {
		return federation.Config{}, fmt.Errorf("round machine: %w", err)
	}
	c.interp = statemachine.NewInterpreter(machine, statemachine.NewContext(&c.session))
	c.interp.Start()

	clientLog.Info().
		Add(logging.ClientID(c.id)).
		Add(logging.SessionID(c.session.ID)).
		Add(logging.Threshold(cfg.MinUtility)).
		Msg("joined federation session")
	return cfg, nil
}

// RunRound mines the local snapshot at the server's threshold,
// perturbs utilities when a privacy mechanism is active, and submits
// the result for the client's current round.
func (c *FederatedClient) RunRound(ctx context.Context) (federation.LocalResult, error) {
	if c.interp == nil {
		return federation.LocalResult{}, ErrNotJoined
	}
	if err := c.interp.Transition(federation.RoundMining, "round started"); err != nil {
		return federation.LocalResult{}, err
	}

	rs, err := c.mining.MineWith(ctx, mining.Options{MinUtility: c.config.MinUtility})
	if err != nil {
		c.interp.Fail("mining failed")
		c.metrics.RecordError(ctx, "client_mine", map[string]string{"client": c.id, "error": err.Error()})
		return federation.LocalResult{}, fmt.Errorf("mine: %w", err)
	}

	txs, err := c.mining.Store().All(ctx)
	if err != nil {
		c.interp.Fail("snapshot failed")
		return federation.LocalResult{}, fmt.Errorf("load transactions: %w", err)
	}

	noised := false
	if c.mech != nil {
		rs, err = privacy.PerturbResults(rs, c.mech, maxTransactionUtility(txs))
		if err != nil {
			c.interp.Fail("perturbation failed")
			c.metrics.RecordError(ctx, "client_perturb", map[string]string{"client": c.id, "error": err.Error()})
			return federation.LocalResult{}, fmt.Errorf("perturb: %w", err)
		}
		noised = true
	}

	if err := c.interp.Transition(federation.RoundSubmitting, "results ready"); err != nil {
		return federation.LocalResult{}, err
	}

	result := federation.LocalResult{
		ClientID:         c.id,
		SessionID:        c.session.ID,
		Round:            c.round,
		Itemsets:         rs.Itemsets,
		TransactionCount: len(txs),
		Noised:           noised,
	}

	err = observability.TraceSubmit(ctx, c.tracer, c.id, c.round, func(ctx context.Context) error {
		return c.agg.Submit(ctx, result)
	})
	c.metrics.RecordSubmission(ctx, c.id, c.round, err == nil)
	if err != nil {
		c.interp.Fail("submission failed")
		return federation.LocalResult{}, fmt.Errorf("submit round %d: %w", c.round, err)
	}

	clientLog.Info().
		Add(logging.ClientID(c.id)).
		Add(logging.Round(c.round)).
		Add(logging.Itemsets(len(result.Itemsets))).
		Msg("round submitted")

	c.round++
	c.session.Round = c.round
	return result, nil
}

// Finish moves the round lifecycle to its terminal aggregated state.
// Call it after the server has aggregated the client's last round.
func (c *FederatedClient) Finish() error {
	if c.interp == nil {
		return ErrNotJoined
	}
	return c.interp.Transition(federation.RoundAggregated, "session complete")
}

// Global returns the most recent aggregated result from the server.
func (c *FederatedClient) Global(ctx context.Context) (federation.GlobalResult, error) {
	if c.interp == nil {
		return federation.GlobalResult{}, ErrNotJoined
	}
	return c.agg.Global(ctx)
}

// State returns the client's current round state.
func (c *FederatedClient) State() federation.RoundState {
	if c.interp == nil {
		return ""
	}
	return c.interp.State()
}

// History returns the recorded round transitions.
func (c *FederatedClient) History() []federation.TransitionRecord {
	if c.interp == nil {
		return nil
	}
	return c.interp.History()
}

// Session returns the session the server issued at Join.
func (c *FederatedClient) Session() federation.Session {
	return c.session
}

// Round returns the next round the client will submit.
func (c *FederatedClient) Round() int {
	return c.round
}

// Leave stops the round state machine. The server-side session is
// left to expire.
func (c *FederatedClient) Leave() {
	if c.interp != nil {
		c.interp.Stop()
	}
}
