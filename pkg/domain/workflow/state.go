// Package workflow implements the Interlock finite-state machine and the
// per-state validation gates that govern a ticket's progress.
package workflow

import "fmt"

// State is one stage in the fixed workflow sequence.
type State string

const (
	StateIntake              State = "intake"
	StateExtractRequirements State = "extract_requirements"
	StateScopeContext        State = "scope_context"
	StateGatherEvidence      State = "gather_evidence"
	StateProposePlan         State = "propose_plan"
	StateAct                 State = "act"
	StateFinalize            State = "finalize"
)

// transitions maps each non-terminal state to its single successor.
var transitions = map[State]State{
	StateIntake:              StateExtractRequirements,
	StateExtractRequirements: StateScopeContext,
	StateScopeContext:        StateGatherEvidence,
	StateGatherEvidence:      StateProposePlan,
	StateProposePlan:         StateAct,
	StateAct:                 StateFinalize,
}

// roles is the canonical instruction text for each state. Gates and
// responses must not hand-roll role text elsewhere.
var roles = map[State]string{
	StateIntake:              "Parse the ticket and extract basic information (ticket_id, title, description)",
	StateExtractRequirements: "Extract acceptance criteria, constraints, and unknowns from the ticket",
	StateScopeContext:        "Determine what context to retrieve based on requirements and unknowns",
	StateGatherEvidence:      "Collect minimal supporting snippets with source pointers",
	StateProposePlan:         "Generate a step-by-step plan tied to requirements and grounded in evidence",
	StateAct:                 "Execute the plan using tools, producing candidate outputs with checkpoints",
	StateFinalize:            "Store canonical artifacts and post milestone summary",
}

// requiredArtifacts maps each state to the ticket fields its gate inspects.
var requiredArtifacts = map[State][]string{
	StateExtractRequirements: {"requirements"},
	StateScopeContext:        {"scope"},
	StateGatherEvidence:      {"evidence"},
	StateProposePlan:         {"plan"},
	StateAct:                 {"execution"},
	StateFinalize:            {"finalization"},
}

// Sentinel roles for states outside the registry.
const (
	RoleRunComplete  = "No further action required"
	RoleInvalidState = "Invalid state - cannot proceed"
	RoleFixInput     = "Fix ticket document validation errors and retry"
)

// States returns the workflow states in execution order.
func States() []State {
	return []State{
		StateIntake,
		StateExtractRequirements,
		StateScopeContext,
		StateGatherEvidence,
		StateProposePlan,
		StateAct,
		StateFinalize,
	}
}

// ParseState validates a state token.
func ParseState(token string) (State, error) {
	s := State(token)
	if !s.Valid() {
		return "", fmt.Errorf("invalid state: %q", token)
	}
	return s, nil
}

// Valid reports whether the state is a recognized workflow state.
func (s State) Valid() bool {
	_, ok := roles[s]
	return ok
}

// IsTerminal reports whether the state has no outgoing transition.
func (s State) IsTerminal() bool {
	return s == StateFinalize
}

// Next returns the single successor of a non-terminal state.
func (s State) Next() (State, bool) {
	next, ok := transitions[s]
	return next, ok
}

// RoleFor returns the canonical role instruction for a state. It never
// fails: unknown states return the invalid-state sentinel.
func RoleFor(s State) string {
	if role, ok := roles[s]; ok {
		return role
	}
	return RoleInvalidState
}

// RequiredFieldsFor returns the ticket fields a state's gate requires.
// States without a registry entry return nil.
func RequiredFieldsFor(s State) []string {
	return requiredArtifacts[s]
}
