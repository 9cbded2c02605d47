// Package application composes the gate engine and the transition function
// into the request/response cycle callers drive the workflow with.
package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/interlock/pkg/domain/events"
	"github.com/felixgeelhaar/interlock/pkg/domain/ticket"
	"github.com/felixgeelhaar/interlock/pkg/domain/workflow"
)

// TicketStore persists ticket snapshots.
type TicketStore interface {
	SaveTicket(t *ticket.Ticket) error
	GetTicket(ticketID string) (*ticket.Ticket, error)
	LoadTicketHistory(ticketID string) ([]*ticket.Ticket, error)
}

// NextStepResponse is the single response shape for every workflow call.
// Continue is the only field a caller strictly needs to decide whether to
// call again; everything else is explanatory.
type NextStepResponse struct {
	UpdatedTicket *ticket.Ticket      `json:"updated_ticket,omitempty"`
	Continue      bool                `json:"continue"`
	Reason        string              `json:"reason"`
	NextRole      string              `json:"next_role"`
	NextState     string              `json:"next_state,omitempty"`
	GateResult    workflow.GateResult `json:"gate_result"`
}

// WorkflowService is the workflow orchestrator. It is stateless: each call
// is a pure request/response cycle over the submitted document, safe to
// run concurrently. Persistence happens alongside the decision and never
// affects it.
type WorkflowService struct {
	tickets TicketStore
	events  events.Store
	actor   string
	now     func() time.Time
}

func NewWorkflowService(tickets TicketStore, eventStore events.Store, actor string) *WorkflowService {
	if actor == "" {
		actor = "agent"
	}
	return &WorkflowService{
		tickets: tickets,
		events:  eventStore,
		actor:   actor,
		now:     time.Now,
	}
}

// NextStep validates the submitted ticket document against its declared
// stage's gate and, if the gate passes, advances it to the next stage with
// the canonical role attached. Malformed input never raises: it is
// converted into a structured retry response.
func (s *WorkflowService) NextStep(raw []byte) *NextStepResponse {
	violations, err := ticket.ValidateDocument(raw)
	if err != nil {
		return malformedResponse(
			fmt.Sprintf("Invalid JSON: %v", err),
			[]string{fmt.Sprintf("JSON decode error: %v", err)},
			[]string{"Ensure the ticket document is valid JSON"},
		)
	}
	if len(violations) > 0 {
		return malformedResponse(
			"Ticket validation failed",
			violations,
			[]string{"Check ticket schema: ticket_id, title, state, run_id are required"},
		)
	}

	t, err := ticket.FromJSON(raw)
	if err != nil {
		return malformedResponse(
			fmt.Sprintf("Ticket validation failed: %v", err),
			[]string{err.Error()},
			[]string{"Check ticket schema: ticket_id, title, state, run_id are required"},
		)
	}
	if errs := t.Validate(); len(errs) > 0 {
		reasons := make([]string, 0, len(errs))
		for _, e := range errs {
			reasons = append(reasons, e.Error())
		}
		return malformedResponse("Ticket validation failed", reasons,
			[]string{"Check ticket schema: ticket_id, title, state, run_id are required"})
	}

	state, err := workflow.ParseState(t.State)
	if err != nil {
		return malformedResponse(
			fmt.Sprintf("Ticket validation failed: %v", err),
			[]string{err.Error()},
			[]string{"Use one of the known workflow states"},
		)
	}

	s.persistSnapshot(t)
	s.recordEvent(t, events.TypeTicketReceived, map[string]interface{}{
		"ticket_id": t.TicketID,
	})

	gate := workflow.GateFor(state)
	result := gate(t)

	switch result.Status {
	case workflow.StatusStop:
		s.recordEvent(t, events.TypeGateStopped, map[string]interface{}{
			"reasons": result.Reasons,
		})
		unchanged := t.Clone()
		unchanged.AgentRole = workflow.RoleFor(state)
		return &NextStepResponse{
			UpdatedTicket: unchanged,
			Continue:      false,
			Reason:        fmt.Sprintf("Gate validation failed: %s", strings.Join(result.Reasons, ", ")),
			NextRole:      workflow.RoleFor(state),
			GateResult:    result,
		}

	case workflow.StatusRetry:
		s.recordEvent(t, events.TypeGateRetry, map[string]interface{}{
			"reasons": result.Reasons,
		})
		unchanged := t.Clone()
		unchanged.AgentRole = workflow.RoleFor(state)
		return &NextStepResponse{
			UpdatedTicket: unchanged,
			Continue:      false,
			Reason:        fmt.Sprintf("Gate validation requires fixes: %s", strings.Join(result.Reasons, ", ")),
			NextRole:      workflow.RoleFor(state),
			GateResult:    result,
		}
	}

	s.recordEvent(t, events.TypeGatePassed, map[string]interface{}{
		"gate_status": string(result.Status),
		"reasons":     result.Reasons,
	})

	tr := workflow.Transition(state)
	s.recordEvent(t, events.TypeTransition, map[string]interface{}{
		"transition_status": string(tr.Status),
		"next_state":        string(tr.NextState),
	})

	if tr.Status == workflow.StatusStop {
		unchanged := t.Clone()
		unchanged.AgentRole = tr.Role
		return &NextStepResponse{
			UpdatedTicket: unchanged,
			Continue:      false,
			Reason:        tr.Reason,
			NextRole:      tr.Role,
			GateResult:    result,
		}
	}

	updated := t.Clone()
	updated.State = string(tr.NextState)
	updated.AgentRole = tr.Role
	updated.UpdatedAt = s.now()
	s.persistSnapshot(updated)

	return &NextStepResponse{
		UpdatedTicket: updated,
		Continue:      true,
		Reason:        tr.Reason,
		NextRole:      tr.Role,
		NextState:     string(tr.NextState),
		GateResult:    result,
	}
}

// GetTicket returns the latest persisted snapshot for a ticket id.
func (s *WorkflowService) GetTicket(ticketID string) (*ticket.Ticket, error) {
	return s.tickets.GetTicket(ticketID)
}

// TicketHistory returns every persisted snapshot for a ticket id.
func (s *WorkflowService) TicketHistory(ticketID string) ([]*ticket.Ticket, error) {
	return s.tickets.LoadTicketHistory(ticketID)
}

// RunEvents returns the audit events recorded for a run.
func (s *WorkflowService) RunEvents(runID string) ([]*events.Event, error) {
	return s.events.LoadByRun(runID)
}

// VerifyLog checks the event log hash chain and returns any violations.
func (s *WorkflowService) VerifyLog() ([]string, error) {
	return s.events.VerifyIntegrity()
}

// persistSnapshot appends a ticket snapshot. Persistence failures never
// affect the workflow decision.
func (s *WorkflowService) persistSnapshot(t *ticket.Ticket) {
	_ = s.tickets.SaveTicket(t)
}

func (s *WorkflowService) recordEvent(t *ticket.Ticket, eventType string, details map[string]interface{}) {
	_ = s.events.Append(&events.Event{
		Type:     eventType,
		RunID:    t.RunID,
		TicketID: t.TicketID,
		State:    t.State,
		Actor:    s.actor,
		Details:  details,
	})
}

func malformedResponse(reason string, gateReasons, fixes []string) *NextStepResponse {
	return &NextStepResponse{
		Continue: false,
		Reason:   reason,
		NextRole: workflow.RoleFixInput,
		GateResult: workflow.GateResult{
			Status:  workflow.StatusRetry,
			Reasons: gateReasons,
			Fixes:   fixes,
		},
	}
}
