package ticket

// RequirementItem is a single acceptance criterion or constraint.
type RequirementItem struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Priority string `json:"priority,omitempty"` // must, should, could
}

// RequirementsArtifact pins the requirements extracted from the ticket.
type RequirementsArtifact struct {
	AcceptanceCriteria []RequirementItem `json:"acceptance_criteria"`
	Constraints        []RequirementItem `json:"constraints,omitempty"`
	Unknowns           []string          `json:"unknowns,omitempty"`
}

// RetrievalTarget is a single scoped target to retrieve context from.
type RetrievalTarget struct {
	ID                    string   `json:"id"`
	Source                string   `json:"source"` // repo, jira, confluence, github, other
	Query                 string   `json:"query"`
	Rationale             string   `json:"rationale"`
	RelatedRequirementIDs []string `json:"related_requirement_ids,omitempty"`
	RelatedUnknowns       []string `json:"related_unknowns,omitempty"`
}

// ScopeArtifact defines the context scope for retrieval.
type ScopeArtifact struct {
	Targets []RetrievalTarget `json:"targets"`
}

// EvidenceItem is a supporting snippet with provenance.
type EvidenceItem struct {
	ID        string   `json:"id"`
	Source    string   `json:"source"` // repo, jira, confluence, github, tool_output, other
	SourceRef string   `json:"source_ref"`
	Locator   string   `json:"locator"`
	Snippet   string   `json:"snippet"`
	Supports  []string `json:"supports"` // requirement or claim ids
}

// EvidenceArtifact collects evidence for the run.
type EvidenceArtifact struct {
	Items []EvidenceItem `json:"items"`
}

// Step types for plan steps.
const (
	StepDelivery      = "delivery"
	StepInvestigation = "investigation"
)

// PlanStep is a single step in a proposed plan.
type PlanStep struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequirementIDs []string `json:"requirement_ids,omitempty"`
	EvidenceIDs    []string `json:"evidence_ids,omitempty"`
	StepType       string   `json:"step_type,omitempty"` // delivery (default) or investigation
}

// PlanArtifact is a structured plan tied to requirements and evidence.
type PlanArtifact struct {
	Steps []PlanStep `json:"steps"`
}

// Candidate output statuses.
const (
	OutputCandidate = "candidate"
	OutputValidated = "validated"
	OutputBlocked   = "blocked"
)

// CandidateOutput is an output produced during execution.
type CandidateOutput struct {
	ID                    string   `json:"id"`
	Summary               string   `json:"summary"`
	CoveredRequirementIDs []string `json:"covered_requirement_ids,omitempty"`
	EvidenceIDs           []string `json:"evidence_ids,omitempty"`
	Status                string   `json:"status,omitempty"` // candidate (default), validated, blocked
}

// ExecutionArtifact captures execution outputs and checkpoints.
type ExecutionArtifact struct {
	Checkpoints []string          `json:"checkpoints"`
	Outputs     []CandidateOutput `json:"outputs"`
}

// Finalization outcomes.
const (
	OutcomeDone        = "done"
	OutcomeBlocked     = "blocked"
	OutcomeInvalidated = "invalidated"
)

// FinalizationArtifact is the milestone summary posted at the end of a run.
type FinalizationArtifact struct {
	Outcome          string   `json:"outcome"` // done, blocked, invalidated
	MilestoneSummary string   `json:"milestone_summary"`
	UnresolvedItems  []string `json:"unresolved_items,omitempty"`
}
