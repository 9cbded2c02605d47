package ticket

import (
	"strings"
	"testing"
)

func TestValidateDocumentAcceptsMinimalTicket(t *testing.T) {
	doc := []byte(`{"ticket_id":"T-1","title":"t","state":"intake","run_id":"r-1"}`)
	violations, err := ValidateDocument(doc)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(violations) != 0 {
		t.Errorf("violations = %v", violations)
	}
}

func TestValidateDocumentReportsMissingFields(t *testing.T) {
	violations, err := ValidateDocument([]byte(`{"title":"t"}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(violations) == 0 {
		t.Fatal("expected violations")
	}
	joined := strings.Join(violations, "; ")
	if !strings.Contains(joined, "ticket_id") {
		t.Errorf("violations should mention ticket_id: %v", violations)
	}
}

func TestValidateDocumentRejectsInvalidJSON(t *testing.T) {
	if _, err := ValidateDocument([]byte(`{"ticket_id":`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestValidateDocumentDoesNotCheckStateTokens(t *testing.T) {
	// State-token validity belongs to the workflow package. The schema
	// only requires a non-empty string.
	doc := []byte(`{"ticket_id":"T-1","title":"t","state":"whatever","run_id":"r-1"}`)
	violations, err := ValidateDocument(doc)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(violations) != 0 {
		t.Errorf("violations = %v", violations)
	}
}

func TestSchemaJSONIsStable(t *testing.T) {
	if SchemaJSON() == "" {
		t.Fatal("schema is empty")
	}
	if !strings.Contains(SchemaJSON(), `"required"`) {
		t.Error("schema has no required fields")
	}
}
