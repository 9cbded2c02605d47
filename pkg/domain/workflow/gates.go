package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/felixgeelhaar/interlock/pkg/domain/ticket"
)

// GateResult is the outcome of a validation gate.
// Reasons is non-empty unless Status is pass; Fixes is nil on pass.
type GateResult struct {
	Status  Status   `json:"status"`
	Reasons []string `json:"reasons"`
	Fixes   []string `json:"fixes,omitempty"`
}

// Gate validates the artifacts a ticket has accumulated for one state.
// Gates are pure functions of the ticket and have no side effects.
type Gate func(*ticket.Ticket) GateResult

// gates dispatches each state to its validator. Kept as a plain table
// rather than an interface hierarchy so the full gate set is visible in
// one place.
var gates = map[State]Gate{
	StateIntake:              intakeGate,
	StateExtractRequirements: requirementsGate,
	StateScopeContext:        scopeGate,
	StateGatherEvidence:      evidenceGate,
	StateProposePlan:         planGate,
	StateAct:                 actGate,
	StateFinalize:            finalizeGate,
}

// GateFor returns the validator for a state, falling back to a generic
// gate that always signals retry for unknown states.
func GateFor(s State) Gate {
	if gate, ok := gates[s]; ok {
		return gate
	}
	return genericGate
}

func pass(reason string) GateResult {
	return GateResult{Status: StatusPass, Reasons: []string{reason}}
}

func retry(reason, fix string) GateResult {
	return GateResult{Status: StatusRetry, Reasons: []string{reason}, Fixes: []string{fix}}
}

// wrongState guards against a caller skipping or mislabeling stages.
func wrongState(t *ticket.Ticket, want State) (GateResult, bool) {
	if t.State == string(want) {
		return GateResult{}, false
	}
	return retry(
		fmt.Sprintf("Ticket state must be '%s', got '%s'", want, t.State),
		fmt.Sprintf("Set ticket state to '%s'", want),
	), true
}

// unknownRefs returns the ids in refs that are not declared in known,
// sorted for deterministic output.
func unknownRefs(refs []string, known map[string]bool) []string {
	var missing []string
	seen := make(map[string]bool)
	for _, id := range refs {
		if !known[id] && !seen[id] {
			missing = append(missing, id)
			seen[id] = true
		}
	}
	sort.Strings(missing)
	return missing
}

// uncovered returns the ids in required that are absent from covered, sorted.
func uncovered(required map[string]bool, covered map[string]bool) []string {
	var missing []string
	for id := range required {
		if !covered[id] {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}

func idList(ids []string) string {
	return strings.Join(ids, ", ")
}

func intakeGate(t *ticket.Ticket) GateResult {
	if result, bad := wrongState(t, StateIntake); bad {
		return result
	}
	if !ticket.ValidTicketID(t.TicketID) {
		return retry(
			"ticket_id must be alphanumeric with optional dashes/underscores",
			"Provide ticket_id in format like PROJ-123",
		)
	}
	return pass("Ticket intake validation passed")
}

func requirementsGate(t *ticket.Ticket) GateResult {
	if result, bad := wrongState(t, StateExtractRequirements); bad {
		return result
	}
	if t.Requirements == nil {
		return retry(
			"requirements artifact is missing",
			"Provide requirements.acceptance_criteria, requirements.constraints, and requirements.unknowns",
		)
	}
	if len(t.Requirements.AcceptanceCriteria) == 0 {
		return retry(
			"requirements.acceptance_criteria must include at least one item",
			"Extract at least one concrete acceptance criterion",
		)
	}

	seen := make(map[string]bool)
	all := append(append([]ticket.RequirementItem{}, t.Requirements.AcceptanceCriteria...), t.Requirements.Constraints...)
	for _, item := range all {
		if seen[item.ID] {
			return retry(
				"Requirement IDs must be unique across acceptance_criteria and constraints",
				"Use unique IDs such as AC-1, AC-2, C-1",
			)
		}
		seen[item.ID] = true
	}

	return pass("Requirements are pinned and usable")
}

func scopeGate(t *ticket.Ticket) GateResult {
	if result, bad := wrongState(t, StateScopeContext); bad {
		return result
	}
	if t.Scope == nil || len(t.Scope.Targets) == 0 {
		return retry(
			"scope.targets must include at least one retrieval target",
			"Add scoped targets with source, query, rationale, and requirement/unknown links",
		)
	}

	reqIDs := t.RequirementIDs()
	for _, target := range t.Scope.Targets {
		if len(target.RelatedRequirementIDs) == 0 && len(target.RelatedUnknowns) == 0 {
			return retry(
				fmt.Sprintf("Scope target '%s' must link to at least one requirement or unknown", target.ID),
				"Populate related_requirement_ids or related_unknowns for each target",
			)
		}
		if unknown := unknownRefs(target.RelatedRequirementIDs, reqIDs); len(reqIDs) > 0 && len(unknown) > 0 {
			return retry(
				fmt.Sprintf("Scope target '%s' references unknown requirement ids: %s", target.ID, idList(unknown)),
				"Use requirement ids defined in requirements.acceptance_criteria/constraints",
			)
		}
	}

	return pass("Scoped retrieval targets are explicit and linked")
}

func evidenceGate(t *ticket.Ticket) GateResult {
	if result, bad := wrongState(t, StateGatherEvidence); bad {
		return result
	}
	if t.Evidence == nil || len(t.Evidence.Items) == 0 {
		return retry(
			"evidence.items must include at least one evidence snippet",
			"Add evidence items with source_ref, locator, snippet, and supports",
		)
	}

	reqIDs := t.RequirementIDs()
	for _, item := range t.Evidence.Items {
		if len(item.Supports) == 0 {
			return retry(
				fmt.Sprintf("Evidence item '%s' must support at least one requirement or claim", item.ID),
				"Populate evidence.supports with requirement IDs or claim IDs",
			)
		}
		if unknown := unknownRefs(item.Supports, reqIDs); len(reqIDs) > 0 && len(unknown) > 0 {
			return retry(
				fmt.Sprintf("Evidence item '%s' supports unknown requirement ids: %s", item.ID, idList(unknown)),
				"Link evidence.supports to known requirement IDs",
			)
		}
	}

	return pass("Evidence items are traceable and linked")
}

func planGate(t *ticket.Ticket) GateResult {
	if result, bad := wrongState(t, StateProposePlan); bad {
		return result
	}
	if t.Plan == nil || len(t.Plan.Steps) == 0 {
		return retry(
			"plan.steps must include at least one actionable step",
			"Add plan steps tied to requirements and evidence",
		)
	}

	reqIDs := t.RequirementIDs()
	evIDs := t.EvidenceIDs()
	covered := make(map[string]bool)

	for _, step := range t.Plan.Steps {
		stepType := step.StepType
		if stepType == "" {
			stepType = ticket.StepDelivery
		}
		if stepType == ticket.StepDelivery && len(step.RequirementIDs) == 0 {
			return retry(
				fmt.Sprintf("Delivery step '%s' must map to at least one requirement", step.ID),
				"Populate step.requirement_ids or mark step_type as 'investigation'",
			)
		}
		if len(step.EvidenceIDs) == 0 {
			return retry(
				fmt.Sprintf("Plan step '%s' must cite evidence ids", step.ID),
				"Populate step.evidence_ids using evidence item IDs",
			)
		}
		if unknown := unknownRefs(step.RequirementIDs, reqIDs); len(reqIDs) > 0 && len(unknown) > 0 {
			return retry(
				fmt.Sprintf("Plan step '%s' references unknown requirements: %s", step.ID, idList(unknown)),
				"Use requirement ids declared in requirements artifact",
			)
		}
		if unknown := unknownRefs(step.EvidenceIDs, evIDs); len(evIDs) > 0 && len(unknown) > 0 {
			return retry(
				fmt.Sprintf("Plan step '%s' references unknown evidence ids: %s", step.ID, idList(unknown)),
				"Use evidence ids declared in evidence artifact",
			)
		}
		for _, id := range step.RequirementIDs {
			covered[id] = true
		}
	}

	if missing := uncovered(reqIDs, covered); len(reqIDs) > 0 && len(missing) > 0 {
		return retry(
			fmt.Sprintf("Plan does not cover all requirements; missing: %s", idList(missing)),
			"Add or adjust plan steps so every requirement is covered",
		)
	}

	return pass("Plan is actionable and requirement-linked")
}

func actGate(t *ticket.Ticket) GateResult {
	if result, bad := wrongState(t, StateAct); bad {
		return result
	}
	if t.Execution == nil {
		return retry(
			"execution artifact is missing",
			"Provide execution outputs and checkpoints",
		)
	}
	if len(t.Execution.Outputs) == 0 {
		return retry(
			"execution.outputs must include at least one candidate output",
			"Add candidate outputs with covered requirements and evidence links",
		)
	}
	if len(t.Execution.Checkpoints) == 0 {
		return retry(
			"execution.checkpoints is empty",
			"Record at least one checkpoint before progressing",
		)
	}

	reqIDs := t.RequirementIDs()
	evIDs := t.EvidenceIDs()
	covered := make(map[string]bool)

	for _, output := range t.Execution.Outputs {
		for _, id := range output.CoveredRequirementIDs {
			covered[id] = true
		}
		if unknown := unknownRefs(output.CoveredRequirementIDs, reqIDs); len(reqIDs) > 0 && len(unknown) > 0 {
			return retry(
				fmt.Sprintf("Output '%s' covers unknown requirements: %s", output.ID, idList(unknown)),
				"Use requirement ids declared in requirements artifact",
			)
		}
		if unknown := unknownRefs(output.EvidenceIDs, evIDs); len(evIDs) > 0 && len(unknown) > 0 {
			return retry(
				fmt.Sprintf("Output '%s' cites unknown evidence ids: %s", output.ID, idList(unknown)),
				"Use evidence ids declared in evidence artifact",
			)
		}
	}

	if missing := uncovered(reqIDs, covered); len(reqIDs) > 0 && len(missing) > 0 {
		return retry(
			fmt.Sprintf("Execution outputs do not cover all requirements; missing: %s", idList(missing)),
			"Add outputs or updates that cover missing requirements",
		)
	}

	return pass("Execution outputs are grounded and coverage-complete")
}

func finalizeGate(t *ticket.Ticket) GateResult {
	if result, bad := wrongState(t, StateFinalize); bad {
		return result
	}
	if t.Finalization == nil {
		return retry(
			"finalization artifact is missing",
			"Provide finalization.outcome and finalization.milestone_summary",
		)
	}

	// Claiming "done" without full execution coverage is an integrity
	// violation, not a fixable omission, so it stops the run instead of
	// asking for a retry.
	if t.Finalization.Outcome == ticket.OutcomeDone && t.Execution != nil {
		reqIDs := t.RequirementIDs()
		covered := make(map[string]bool)
		for _, output := range t.Execution.Outputs {
			for _, id := range output.CoveredRequirementIDs {
				covered[id] = true
			}
		}
		if missing := uncovered(reqIDs, covered); len(reqIDs) > 0 && len(missing) > 0 {
			return GateResult{
				Status:  StatusStop,
				Reasons: []string{fmt.Sprintf("Cannot finalize as done; requirements remain uncovered: %s", idList(missing))},
				Fixes:   []string{"Set outcome to blocked/invalidated or provide missing execution coverage"},
			}
		}
	}

	return pass("Finalization summary is present")
}

func genericGate(t *ticket.Ticket) GateResult {
	return retry(
		fmt.Sprintf("No specific gate configured for state '%s'", t.State),
		"Use one of the known workflow states and corresponding artifacts",
	)
}
