package statemachine

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/upgrowth/domain/federation"
)

// TransitionPayload carries additional data with a transition event.
type TransitionPayload struct {
	ToState federation.RoundState
	Reason  string
}

// Interpreter wraps the statekit interpreter with round-specific
// functionality.
type Interpreter struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewInterpreter creates a new interpreter for the round state machine.
func NewInterpreter(machine *statekit.MachineConfig[*Context], ctx *Context) *Interpreter {
	interp := statekit.NewInterpreter(machine)
	// Update the context reference in the machine
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Interpreter{
		interp: interp,
		ctx:    ctx,
	}
}

// Start initializes the interpreter and enters the initial state.
func (i *Interpreter) Start() {
	i.interp.Start()
	state := i.interp.State()
	i.ctx.Current = federation.RoundState(state.Value)
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// State returns the current round state.
func (i *Interpreter) State() federation.RoundState {
	state := i.interp.State()
	return federation.RoundState(state.Value)
}

// Transition attempts to transition to the target state.
func (i *Interpreter) Transition(to federation.RoundState, reason string) error {
	if !i.CanTransition(to) {
		return fmt.Errorf("transition from %s to %s not allowed", i.ctx.Current, to)
	}

	event := statekit.Event{
		Type: EventForTransition(to),
		Payload: TransitionPayload{
			ToState: to,
			Reason:  reason,
		},
	}

	i.interp.Send(event)

	newState := i.interp.State()
	i.ctx.Current = federation.RoundState(newState.Value)

	return nil
}

// Fail moves the round to the failed state from anywhere non-terminal.
func (i *Interpreter) Fail(reason string) {
	if i.ctx.Current.IsTerminal() {
		return
	}
	i.interp.Send(statekit.Event{
		Type: "FAIL",
		Payload: TransitionPayload{
			ToState: federation.RoundFailed,
			Reason:  reason,
		},
	})
	i.ctx.Current = federation.RoundState(i.interp.State().Value)
}

// CanTransition checks if a transition to the target state is possible.
func (i *Interpreter) CanTransition(to federation.RoundState) bool {
	if to == federation.RoundFailed {
		return !i.ctx.Current.IsTerminal()
	}
	return i.ctx.Transitions.CanTransition(i.ctx.Current, to)
}

// IsTerminal returns true if the interpreter is in a terminal state.
func (i *Interpreter) IsTerminal() bool {
	return i.interp.Done()
}

// Context returns the interpreter context.
func (i *Interpreter) Context() *Context {
	return i.ctx
}

// History returns the recorded transitions so far.
func (i *Interpreter) History() []federation.TransitionRecord {
	return i.ctx.History
}

// Matches checks if the current state matches the given state ID.
func (i *Interpreter) Matches(stateID string) bool {
	return i.interp.Matches(statekit.StateID(stateID))
}

// ResumeFrom restores the interpreter to a specific state.
// This is used when resuming an interrupted round.
func (i *Interpreter) ResumeFrom(state federation.RoundState) error {
	snapshot := statekit.Snapshot[*Context]{
		MachineID:    "round",
		CurrentState: statekit.StateID(string(state)),
		Context:      i.ctx,
		CreatedAt:    time.Now(),
	}

	if err := i.interp.Restore(snapshot); err != nil {
		return fmt.Errorf("failed to restore state: %w", err)
	}

	i.ctx.Current = state

	return nil
}
