package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/interlock/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/interlock/pkg/domain/ticket"
	"github.com/felixgeelhaar/interlock/pkg/domain/workflow"
)

func runCommand(t *testing.T, args ...string) error {
	t.Helper()

	prev := projectPath
	t.Cleanup(func() { projectPath = prev })

	RootCmd.SetArgs(args)
	return RootCmd.Execute()
}

func writeTicketFile(t *testing.T, dir string, doc *ticket.Ticket) string {
	t.Helper()

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal ticket: %v", err)
	}
	path := filepath.Join(dir, "ticket.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write ticket file: %v", err)
	}
	return path
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	if err := runCommand(t, "init", "--project", dir); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".interlock")); err != nil {
		t.Errorf("data directory not created: %v", err)
	}

	// Idempotent on an initialized workspace.
	if err := runCommand(t, "init", "--project", dir); err != nil {
		t.Errorf("second init failed: %v", err)
	}
}

func TestNextCommandAdvancesTicket(t *testing.T) {
	dir := t.TempDir()
	path := writeTicketFile(t, dir, &ticket.Ticket{
		TicketID: "CLI-1",
		Title:    "CLI smoke ticket",
		State:    string(workflow.StateIntake),
		RunID:    "run-cli",
	})

	if err := runCommand(t, "next", path, "--project", dir); err != nil {
		t.Fatalf("next failed: %v", err)
	}

	services, err := wiring.BuildAppServices(dir)
	if err != nil {
		t.Fatalf("build services: %v", err)
	}
	stored, err := services.Workflow.GetTicket("CLI-1")
	if err != nil {
		t.Fatalf("get ticket: %v", err)
	}
	if stored.State != string(workflow.StateExtractRequirements) {
		t.Errorf("stored state = %q", stored.State)
	}
}

func TestStatusCommandUnknownTicket(t *testing.T) {
	dir := t.TempDir()

	if err := runCommand(t, "status", "GHOST-1", "--project", dir); err == nil {
		t.Fatal("expected error for unknown ticket")
	}
}

func TestVerifyCommandOnEmptyLog(t *testing.T) {
	dir := t.TempDir()

	if err := runCommand(t, "verify", "--project", dir); err != nil {
		t.Errorf("verify on empty log failed: %v", err)
	}
}

func TestSimulateCommandReportsBlockingStage(t *testing.T) {
	dir := t.TempDir()
	path := writeTicketFile(t, dir, &ticket.Ticket{
		TicketID: "CLI-2",
		Title:    "Simulation ticket",
		State:    string(workflow.StateIntake),
		RunID:    "run-sim",
	})

	// No artifacts beyond intake: the simulation should stop at the
	// requirements gate without error.
	if err := runCommand(t, "simulate", path, "--project", dir); err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
}

func TestGetProjectRootRejectsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	prev := projectPath
	projectPath = file
	t.Cleanup(func() { projectPath = prev })

	if _, err := getProjectRoot(); err == nil {
		t.Fatal("expected error for file project path")
	}
}

func TestArtifactChecklist(t *testing.T) {
	doc := &ticket.Ticket{
		Requirements: &ticket.RequirementsArtifact{},
		Finalization: &ticket.FinalizationArtifact{Outcome: ticket.OutcomeBlocked},
	}

	lines := artifactChecklist(doc)
	if len(lines) != 7 {
		t.Fatalf("line count = %d", len(lines))
	}
}
