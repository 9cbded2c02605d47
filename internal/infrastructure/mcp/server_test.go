package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/felixgeelhaar/interlock/pkg/application"
	"github.com/felixgeelhaar/interlock/pkg/domain/ticket"
	"github.com/felixgeelhaar/interlock/pkg/domain/workflow"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	server, err := NewServer(t.TempDir())
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	return server
}

func intakeDoc(t *testing.T) string {
	t.Helper()

	doc := &ticket.Ticket{
		TicketID: "MCP-1",
		Title:    "MCP smoke ticket",
		State:    string(workflow.StateIntake),
		RunID:    "run-mcp",
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal ticket: %v", err)
	}
	return string(data)
}

func TestHandleNextStepAdvancesTicket(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	result, err := server.handleNextStep(ctx, NextStepArgs{Ticket: intakeDoc(t)})
	if err != nil {
		t.Fatalf("handleNextStep failed: %v", err)
	}

	resp, ok := result.(*application.NextStepResponse)
	if !ok {
		t.Fatalf("unexpected result type %T", result)
	}
	if !resp.Continue {
		t.Fatalf("expected continue, got reason %q", resp.Reason)
	}
	if resp.NextState != string(workflow.StateExtractRequirements) {
		t.Errorf("next_state = %q", resp.NextState)
	}
}

func TestHandleNextStepMalformedInput(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	result, err := server.handleNextStep(ctx, NextStepArgs{Ticket: `{"broken":`})
	if err != nil {
		t.Fatalf("malformed input must not be a tool error: %v", err)
	}

	resp := result.(*application.NextStepResponse)
	if resp.Continue {
		t.Error("expected continue=false")
	}
	if resp.GateResult.Status != workflow.StatusRetry {
		t.Errorf("status = %s, want retry", resp.GateResult.Status)
	}
}

func TestHandleNextStepEmptyArgument(t *testing.T) {
	server := newTestServer(t)

	if _, err := server.handleNextStep(context.Background(), NextStepArgs{}); err == nil {
		t.Fatal("expected error for missing ticket argument")
	}
}

func TestHandleGetTicketNotFound(t *testing.T) {
	server := newTestServer(t)

	_, err := server.handleGetTicket(context.Background(), GetTicketArgs{TicketID: "NOPE-1"})
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if !strings.Contains(err.Error(), "NOPE-1") {
		t.Errorf("error should name the ticket id, got %q", err.Error())
	}
}

func TestHandleGetTicketAfterNextStep(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	if _, err := server.handleNextStep(ctx, NextStepArgs{Ticket: intakeDoc(t)}); err != nil {
		t.Fatalf("handleNextStep failed: %v", err)
	}

	result, err := server.handleGetTicket(ctx, GetTicketArgs{TicketID: "MCP-1"})
	if err != nil {
		t.Fatalf("handleGetTicket failed: %v", err)
	}
	stored := result.(*ticket.Ticket)
	if stored.State != string(workflow.StateExtractRequirements) {
		t.Errorf("stored state = %q", stored.State)
	}
}

func TestHandleRunEventsAndVerifyLog(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	if _, err := server.handleNextStep(ctx, NextStepArgs{Ticket: intakeDoc(t)}); err != nil {
		t.Fatalf("handleNextStep failed: %v", err)
	}

	result, err := server.handleRunEvents(ctx, RunEventsArgs{RunID: "run-mcp"})
	if err != nil {
		t.Fatalf("handleRunEvents failed: %v", err)
	}
	if result == nil {
		t.Fatal("expected events")
	}

	verify, err := server.handleVerifyLog(ctx, struct{}{})
	if err != nil {
		t.Fatalf("handleVerifyLog failed: %v", err)
	}
	report := verify.(map[string]any)
	if intact, ok := report["intact"].(bool); !ok || !intact {
		t.Errorf("expected intact log, got %v", report)
	}
}

func TestHandleStatesListsWorkflowOrder(t *testing.T) {
	server := newTestServer(t)

	result, err := server.handleStates(context.Background(), struct{}{})
	if err != nil {
		t.Fatalf("handleStates failed: %v", err)
	}
	infos := result.([]stateInfo)
	if len(infos) != len(workflow.States()) {
		t.Fatalf("state count = %d", len(infos))
	}
	if infos[0].State != string(workflow.StateIntake) {
		t.Errorf("first state = %q", infos[0].State)
	}
	last := infos[len(infos)-1]
	if !last.Terminal || last.State != string(workflow.StateFinalize) {
		t.Errorf("last state = %+v", last)
	}
}

func TestHandleInit(t *testing.T) {
	server := newTestServer(t)

	msg, err := server.handleInit(context.Background(), struct{}{})
	if err != nil {
		t.Fatalf("handleInit failed: %v", err)
	}
	if !strings.Contains(msg, ".interlock") {
		t.Errorf("message should name the data directory, got %q", msg)
	}
}
