// Package ticket defines the ticket document that moves through the
// Interlock workflow, together with its stage artifacts.
package ticket

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Ticket is a single unit of work progressing through the workflow.
// Callers submit a complete replacement ticket on every call; the engine
// never mutates a submitted ticket in place.
type Ticket struct {
	TicketID    string    `json:"ticket_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	State       string    `json:"state"`
	RunID       string    `json:"run_id"`
	AgentRole   string    `json:"agent_role,omitempty"` // set by the engine on responses
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`

	Requirements *RequirementsArtifact `json:"requirements,omitempty"`
	Scope        *ScopeArtifact        `json:"scope,omitempty"`
	Evidence     *EvidenceArtifact     `json:"evidence,omitempty"`
	Plan         *PlanArtifact         `json:"plan,omitempty"`
	Execution    *ExecutionArtifact    `json:"execution,omitempty"`
	Finalization *FinalizationArtifact `json:"finalization,omitempty"`
}

// Normalize trims required string fields and defaults the timestamps.
func (t *Ticket) Normalize(now time.Time) {
	t.TicketID = strings.TrimSpace(t.TicketID)
	t.Title = strings.TrimSpace(t.Title)
	t.RunID = strings.TrimSpace(t.RunID)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
}

// ValidTicketID reports whether id is alphanumeric with optional dashes
// and underscores.
func ValidTicketID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// Validate checks the ticket for structural integrity.
func (t *Ticket) Validate() []error {
	var errs []error
	if strings.TrimSpace(t.TicketID) == "" {
		errs = append(errs, fmt.Errorf("ticket_id is required"))
	} else if !ValidTicketID(strings.TrimSpace(t.TicketID)) {
		errs = append(errs, fmt.Errorf("ticket_id must be alphanumeric with optional dashes/underscores"))
	}
	if strings.TrimSpace(t.Title) == "" {
		errs = append(errs, fmt.Errorf("title is required"))
	}
	if strings.TrimSpace(t.RunID) == "" {
		errs = append(errs, fmt.Errorf("run_id is required"))
	}
	if t.State == "" {
		errs = append(errs, fmt.Errorf("state is required"))
	}
	return errs
}

// RequirementIDs returns the set of requirement ids declared across
// acceptance criteria and constraints.
func (t *Ticket) RequirementIDs() map[string]bool {
	ids := make(map[string]bool)
	if t.Requirements == nil {
		return ids
	}
	for _, item := range t.Requirements.AcceptanceCriteria {
		ids[item.ID] = true
	}
	for _, item := range t.Requirements.Constraints {
		ids[item.ID] = true
	}
	return ids
}

// EvidenceIDs returns the set of declared evidence ids.
func (t *Ticket) EvidenceIDs() map[string]bool {
	ids := make(map[string]bool)
	if t.Evidence == nil {
		return ids
	}
	for _, item := range t.Evidence.Items {
		ids[item.ID] = true
	}
	return ids
}

// Clone returns a deep copy via JSON round-trip. The engine clones before
// advancing so the caller's document is never mutated.
func (t *Ticket) Clone() *Ticket {
	data, err := json.Marshal(t)
	if err != nil {
		// Ticket contains only JSON-serializable fields; this indicates a bug.
		panic(fmt.Sprintf("clone ticket: %v", err))
	}
	var out Ticket
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("clone ticket: %v", err))
	}
	return &out
}

// FromJSON parses and normalizes a ticket document.
func FromJSON(data []byte) (*Ticket, error) {
	var t Ticket
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ticket: %w", err)
	}
	t.Normalize(time.Now())
	return &t, nil
}

// ToJSON serializes the ticket.
func (t *Ticket) ToJSON() ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ticket: %w", err)
	}
	return data, nil
}
