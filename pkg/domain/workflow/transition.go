package workflow

import "fmt"

// Status is the outcome of a gate or transition.
type Status string

const (
	StatusPass  Status = "pass"
	StatusRetry Status = "retry"
	StatusStop  Status = "stop"
)

// TransitionResult describes the outcome of an FSM transition.
// NextState is empty unless Status is pass.
type TransitionResult struct {
	Status    Status `json:"status"`
	Reason    string `json:"reason"`
	NextState State  `json:"next_state,omitempty"`
	Role      string `json:"role"`
}

// Transition computes the successor of the current state. It returns only
// pass or stop; "retry" is exclusively a gate outcome. Gates own whether a
// stage's output is good enough, Transition owns what comes next given a
// good stage.
func Transition(current State) TransitionResult {
	if current.IsTerminal() {
		return TransitionResult{
			Status: StatusStop,
			Reason: "Already in final state",
			Role:   RoleRunComplete,
		}
	}

	next, ok := current.Next()
	if !ok {
		return TransitionResult{
			Status: StatusStop,
			Reason: fmt.Sprintf("Invalid state: %s", current),
			Role:   RoleInvalidState,
		}
	}

	return TransitionResult{
		Status:    StatusPass,
		Reason:    fmt.Sprintf("Valid transition from %s to %s", current, next),
		NextState: next,
		Role:      RoleFor(next),
	}
}
