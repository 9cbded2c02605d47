package ticket

import (
	"testing"
	"time"
)

func TestValidTicketID(t *testing.T) {
	valid := []string{"PROJ-123", "abc_1", "A", "a-b_c-9"}
	for _, id := range valid {
		if !ValidTicketID(id) {
			t.Errorf("ValidTicketID(%q) = false", id)
		}
	}
	invalid := []string{"", "PROJ 123", "a/b", "tick!", "Ü-1"}
	for _, id := range invalid {
		if ValidTicketID(id) {
			t.Errorf("ValidTicketID(%q) = true", id)
		}
	}
}

func TestValidateReportsAllMissingFields(t *testing.T) {
	doc := &Ticket{}
	errs := doc.Validate()
	if len(errs) != 4 {
		t.Fatalf("error count = %d: %v", len(errs), errs)
	}
}

func TestValidateAcceptsMinimalTicket(t *testing.T) {
	doc := &Ticket{TicketID: "T-1", Title: "t", State: "intake", RunID: "r-1"}
	if errs := doc.Validate(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestNormalizeDefaultsTimestamps(t *testing.T) {
	doc := &Ticket{TicketID: "  T-1 ", Title: " t ", RunID: " r "}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	doc.Normalize(now)

	if doc.TicketID != "T-1" || doc.Title != "t" || doc.RunID != "r" {
		t.Errorf("fields not trimmed: %+v", doc)
	}
	if !doc.CreatedAt.Equal(now) || !doc.UpdatedAt.Equal(now) {
		t.Errorf("timestamps not defaulted: %v %v", doc.CreatedAt, doc.UpdatedAt)
	}
}

func TestRequirementIDsSpanCriteriaAndConstraints(t *testing.T) {
	doc := &Ticket{
		Requirements: &RequirementsArtifact{
			AcceptanceCriteria: []RequirementItem{{ID: "AC-1"}},
			Constraints:        []RequirementItem{{ID: "C-1"}},
		},
	}
	ids := doc.RequirementIDs()
	if !ids["AC-1"] || !ids["C-1"] || len(ids) != 2 {
		t.Errorf("ids = %v", ids)
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc := &Ticket{
		TicketID: "T-1",
		Title:    "t",
		State:    "propose_plan",
		RunID:    "r",
		Plan: &PlanArtifact{
			Steps: []PlanStep{{ID: "S-1", Title: "step"}},
		},
	}

	clone := doc.Clone()
	clone.Plan.Steps[0].Title = "changed"
	clone.State = "act"

	if doc.Plan.Steps[0].Title != "step" {
		t.Error("clone shares plan steps with the original")
	}
	if doc.State != "propose_plan" {
		t.Error("clone shares scalar state with the original")
	}
}

func TestFromJSONRejectsGarbage(t *testing.T) {
	if _, err := FromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error")
	}
}

func TestJSONRoundTripKeepsArtifacts(t *testing.T) {
	doc := &Ticket{
		TicketID: "T-1",
		Title:    "t",
		State:    "gather_evidence",
		RunID:    "r",
		Evidence: &EvidenceArtifact{
			Items: []EvidenceItem{{ID: "E-1", Source: "repo", SourceRef: "f.go", Locator: "L1", Snippet: "x", Supports: []string{"AC-1"}}},
		},
	}

	data, err := doc.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := FromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Evidence == nil || len(back.Evidence.Items) != 1 || back.Evidence.Items[0].ID != "E-1" {
		t.Errorf("evidence lost in round trip: %+v", back.Evidence)
	}
}
