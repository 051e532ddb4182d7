package statemachine

import (
	"testing"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/upgrowth/domain/federation"
)

func newTestContext() *Context {
	session := &federation.Session{
		ID:       "session-1",
		ClientID: "client-1",
		Status:   federation.SessionActive,
	}
	return NewContext(session)
}

func TestNewContext(t *testing.T) {
	t.Parallel()

	ctx := newTestContext()

	if ctx == nil {
		t.Fatal("NewContext() returned nil")
	}
	if ctx.Session == nil {
		t.Error("Context.Session should be set")
	}
	if ctx.Current != federation.RoundRegistered {
		t.Errorf("Context.Current = %s, want registered", ctx.Current)
	}
	if ctx.Transitions == nil {
		t.Error("Context.Transitions should be initialized")
	}
}

func TestNewRoundMachine(t *testing.T) {
	t.Parallel()

	machine, err := NewRoundMachine()
	if err != nil {
		t.Fatalf("NewRoundMachine() error = %v", err)
	}
	if machine == nil {
		t.Fatal("NewRoundMachine() returned nil machine")
	}
}

func TestEventForTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state    federation.RoundState
		expected string
	}{
		{federation.RoundMining, "MINE"},
		{federation.RoundSubmitting, "SUBMIT"},
		{federation.RoundAggregated, "AGGREGATE"},
		{federation.RoundFailed, "FAIL"},
		{federation.RoundState("custom"), "custom"}, // Unknown state uses state as event
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			t.Parallel()

			event := EventForTransition(tt.state)
			if string(event) != tt.expected {
				t.Errorf("EventForTransition(%s) = %s, want %s", tt.state, event, tt.expected)
			}
		})
	}
}

func TestStateFromMachine(t *testing.T) {
	t.Parallel()

	if StateFromMachine(stateMining) != federation.RoundMining {
		t.Errorf("StateFromMachine(mining) = %s", StateFromMachine(stateMining))
	}
	if StateFromMachine(stateFailed) != federation.RoundFailed {
		t.Errorf("StateFromMachine(failed) = %s", StateFromMachine(stateFailed))
	}
}

func TestStateConstants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		machineState string
		roundState   string
	}{
		{string(stateRegistered), string(federation.RoundRegistered)},
		{string(stateMining), string(federation.RoundMining)},
		{string(stateSubmitting), string(federation.RoundSubmitting)},
		{string(stateAggregated), string(federation.RoundAggregated)},
		{string(stateFailed), string(federation.RoundFailed)},
	}

	for _, tt := range tests {
		t.Run(tt.machineState, func(t *testing.T) {
			t.Parallel()

			if tt.machineState != tt.roundState {
				t.Errorf("Machine state %s does not match round state %s", tt.machineState, tt.roundState)
			}
		})
	}
}

func TestInterpreter_Start(t *testing.T) {
	t.Parallel()

	machine, err := NewRoundMachine()
	if err != nil {
		t.Fatalf("NewRoundMachine() error = %v", err)
	}

	interp := NewInterpreter(machine, newTestContext())
	interp.Start()

	if interp.State() != federation.RoundRegistered {
		t.Errorf("Initial state = %s, want registered", interp.State())
	}

	if interp.IsTerminal() {
		t.Error("Should not be in terminal state after start")
	}
}

func TestInterpreter_Transition(t *testing.T) {
	t.Parallel()

	machine, _ := NewRoundMachine()
	interp := NewInterpreter(machine, newTestContext())
	interp.Start()

	err := interp.Transition(federation.RoundMining, "tree built, mining started")
	if err != nil {
		t.Fatalf("Transition to mining error = %v", err)
	}

	if interp.State() != federation.RoundMining {
		t.Errorf("State after transition = %s, want mining", interp.State())
	}
}

func TestInterpreter_InvalidTransition(t *testing.T) {
	t.Parallel()

	machine, _ := NewRoundMachine()
	interp := NewInterpreter(machine, newTestContext())
	interp.Start()

	// Cannot jump from registered directly to aggregated.
	err := interp.Transition(federation.RoundAggregated, "invalid")
	if err == nil {
		t.Error("Invalid transition should return error")
	}

	if interp.State() != federation.RoundRegistered {
		t.Errorf("State after invalid transition = %s, want registered", interp.State())
	}
}

func TestInterpreter_CanTransition(t *testing.T) {
	t.Parallel()

	machine, _ := NewRoundMachine()
	interp := NewInterpreter(machine, newTestContext())
	interp.Start()

	if !interp.CanTransition(federation.RoundMining) {
		t.Error("Should be able to transition from registered to mining")
	}
	if interp.CanTransition(federation.RoundSubmitting) {
		t.Error("Should NOT be able to transition from registered to submitting")
	}
	if !interp.CanTransition(federation.RoundFailed) {
		t.Error("Should be able to fail from registered")
	}
}

func TestInterpreter_FullRound(t *testing.T) {
	t.Parallel()

	machine, _ := NewRoundMachine()
	interp := NewInterpreter(machine, newTestContext())
	interp.Start()

	steps := []struct {
		toState federation.RoundState
		reason  string
	}{
		{federation.RoundMining, "session opened"},
		{federation.RoundSubmitting, "local results ready"},
		{federation.RoundAggregated, "global result received"},
	}

	for _, step := range steps {
		if err := interp.Transition(step.toState, step.reason); err != nil {
			t.Fatalf("Transition to %s failed: %v", step.toState, err)
		}
		if interp.State() != step.toState {
			t.Errorf("State after transition = %s, want %s", interp.State(), step.toState)
		}
	}

	if !interp.IsTerminal() {
		t.Error("Should be in terminal state after aggregation")
	}

	history := interp.History()
	if len(history) != len(steps) {
		t.Fatalf("History length = %d, want %d", len(history), len(steps))
	}
	if history[0].From != federation.RoundRegistered || history[0].To != federation.RoundMining {
		t.Errorf("first transition = %s -> %s", history[0].From, history[0].To)
	}
	if history[2].Reason != "global result received" {
		t.Errorf("last transition reason = %q", history[2].Reason)
	}
}

func TestInterpreter_NextRoundLoop(t *testing.T) {
	t.Parallel()

	machine, _ := NewRoundMachine()
	ctx := newTestContext()
	interp := NewInterpreter(machine, ctx)
	interp.Start()

	interp.Transition(federation.RoundMining, "first round")
	interp.Transition(federation.RoundSubmitting, "first results")

	// Loop back for the next round.
	if err := interp.Transition(federation.RoundMining, "next round"); err != nil {
		t.Fatalf("Loop back to mining failed: %v", err)
	}

	if interp.State() != federation.RoundMining {
		t.Errorf("State after loop back = %s, want mining", interp.State())
	}
	if ctx.Session.Round != 1 {
		t.Errorf("Session.Round = %d, want 1 after loop back", ctx.Session.Round)
	}

	interp.Transition(federation.RoundSubmitting, "second results")
	interp.Transition(federation.RoundAggregated, "done")

	if !interp.IsTerminal() {
		t.Error("Should be in terminal state")
	}
}

func TestInterpreter_Fail(t *testing.T) {
	t.Parallel()

	machine, _ := NewRoundMachine()
	interp := NewInterpreter(machine, newTestContext())
	interp.Start()

	interp.Transition(federation.RoundMining, "started")
	interp.Fail("aggregator unreachable")

	if interp.State() != federation.RoundFailed {
		t.Errorf("State = %s, want failed", interp.State())
	}
	if !interp.IsTerminal() {
		t.Error("failed state should be terminal")
	}

	// Failing again is a no-op.
	interp.Fail("again")
	if interp.State() != federation.RoundFailed {
		t.Errorf("State = %s, want failed", interp.State())
	}
}

func TestInterpreter_Context(t *testing.T) {
	t.Parallel()

	machine, _ := NewRoundMachine()
	ctx := newTestContext()
	interp := NewInterpreter(machine, ctx)

	if interp.Context() != ctx {
		t.Error("Context() should return the interpreter context")
	}
}

func TestInterpreter_Matches(t *testing.T) {
	t.Parallel()

	machine, _ := NewRoundMachine()
	interp := NewInterpreter(machine, newTestContext())
	interp.Start()

	if !interp.Matches(string(federation.RoundRegistered)) {
		t.Error("Should match registered state")
	}
	if interp.Matches(string(federation.RoundMining)) {
		t.Error("Should not match mining state")
	}
}

func TestInterpreter_ResumeFrom(t *testing.T) {
	t.Parallel()

	machine, _ := NewRoundMachine()
	interp := NewInterpreter(machine, newTestContext())
	interp.Start()

	if err := interp.ResumeFrom(federation.RoundSubmitting); err != nil {
		t.Fatalf("ResumeFrom() error = %v", err)
	}

	if interp.State() != federation.RoundSubmitting {
		t.Errorf("State after resume = %s, want submitting", interp.State())
	}
	if !interp.CanTransition(federation.RoundAggregated) {
		t.Error("Should be able to aggregate after resuming in submitting")
	}
}

func TestTransitionPayload(t *testing.T) {
	t.Parallel()

	payload := TransitionPayload{
		ToState: federation.RoundMining,
		Reason:  "test reason",
	}

	if payload.ToState != federation.RoundMining {
		t.Errorf("ToState = %s, want mining", payload.ToState)
	}
	if payload.Reason != "test reason" {
		t.Errorf("Reason = %s, want 'test reason'", payload.Reason)
	}
}

func TestStateFromEventType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		eventType statekit.EventType
		expected  federation.RoundState
	}{
		{"MINE", federation.RoundMining},
		{"SUBMIT", federation.RoundSubmitting},
		{"AGGREGATE", federation.RoundAggregated},
		{"FAIL", federation.RoundFailed},
		{"CUSTOM_EVENT", federation.RoundState("CUSTOM_EVENT")}, // default case
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			t.Parallel()

			result := stateFromEventType(tt.eventType)
			if result != tt.expected {
				t.Errorf("stateFromEventType(%s) = %s, want %s", tt.eventType, result, tt.expected)
			}
		})
	}
}

func TestInterpreter_Stop(t *testing.T) {
	t.Parallel()

	machine, _ := NewRoundMachine()
	interp := NewInterpreter(machine, newTestContext())
	interp.Start()

	if interp.State() != federation.RoundRegistered {
		t.Errorf("Initial state = %s, want registered", interp.State())
	}

	// Stop should not panic
	interp.Stop()

	// After stop, should still report state (interpreter retains last state)
	if interp.State() != federation.RoundRegistered {
		t.Errorf("State after stop = %s, want registered", interp.State())
	}
}
