package workflow

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/statekit"
)

// EventAdvance is the single event kind that moves a run forward. The
// workflow is a straight line, so each stage has exactly one outgoing
// transition.
const EventAdvance = "advance"

// init walks a guardless run machine through the full chain at startup and
// verifies it visits the same states as the transition table. The statekit
// wiring and the pure table must stay in sync.
func init() {
	machine, err := NewRunMachine(StateIntake, nil)
	if err != nil {
		panic(fmt.Sprintf("run machine does not build: %v", err))
	}
	current := StateIntake
	for !current.IsTerminal() {
		if err := machine.Advance(); err != nil {
			panic(fmt.Sprintf("run machine cannot advance from %q: %v", current, err))
		}
		expected, _ := current.Next()
		if machine.Current() != expected {
			panic(fmt.Sprintf("run machine moved %q -> %q, transition table says %q", current, machine.Current(), expected))
		}
		current = machine.Current()
	}
}

// RunContext carries run data through the state machine.
type RunContext struct {
	RunID string
	Guard func(state State) bool
}

// RunMachine drives one workflow run through the fixed stage sequence.
// The guard is consulted before every advance; a typical guard runs the
// current stage's gate against the ticket.
type RunMachine struct {
	interpreter *statekit.Interpreter[RunContext]
}

// NewRunMachine builds a run machine starting at initialState. A nil guard
// always allows advancing.
func NewRunMachine(initialState State, guard func(State) bool) (*RunMachine, error) {
	if !initialState.Valid() {
		return nil, fmt.Errorf("invalid initial state: %q", initialState)
	}
	if guard == nil {
		guard = func(State) bool { return true }
	}

	builder := statekit.NewMachine[RunContext]("interlock-run").
		WithInitial(statekit.StateID(initialState)).
		WithContext(RunContext{Guard: guard}).
		WithGuard("gateGuard", func(ctx RunContext, e statekit.Event) bool {
			return ctx.Guard(stageOf(e.Type))
		})

	for _, state := range States() {
		if state.IsTerminal() {
			builder.State(statekit.StateID(state)).Done()
			continue
		}
		next, _ := state.Next()
		builder.State(statekit.StateID(state)).
			On(advanceEvent(state)).Target(statekit.StateID(next)).Guard("gateGuard").
			Done()
	}

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build run machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &RunMachine{interpreter: interpreter}, nil
}

// advanceEvent names the advance event for one stage so the guard can tell
// which gate to consult.
func advanceEvent(s State) statekit.EventType {
	return statekit.EventType(EventAdvance + ":" + string(s))
}

// stageOf recovers the stage encoded in an advance event.
func stageOf(e statekit.EventType) State {
	return State(strings.TrimPrefix(string(e), EventAdvance+":"))
}

// Advance attempts to move the run to the next stage. It fails when the
// current stage is terminal or its guard rejects the advance.
func (m *RunMachine) Advance() error {
	before := m.Current()
	m.interpreter.Send(statekit.Event{Type: advanceEvent(before)})
	after := m.Current()

	if before != after {
		return nil
	}
	if before.IsTerminal() {
		return fmt.Errorf("run is already in terminal state '%s'", before)
	}
	// In statekit, the state stays put when no transition matches or the
	// guard fails.
	return fmt.Errorf("cannot advance from '%s': the stage gate has not passed", before)
}

// Current returns the run's current stage.
func (m *RunMachine) Current() State {
	return State(m.interpreter.State().Value)
}

// IsComplete reports whether the run reached the terminal stage.
func (m *RunMachine) IsComplete() bool {
	return m.Current().IsTerminal()
}
