package mcp

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/felixgeelhaar/mcp-go/testutil"
)

func TestSchemaVersionIsSemver(t *testing.T) {
	re := regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	if !re.MatchString(SchemaVersion) {
		t.Fatalf("SchemaVersion %q is not valid semver", SchemaVersion)
	}
}

func TestSchemaResourceServesTicketSchema(t *testing.T) {
	server := newTestServer(t)
	client := testutil.NewTestClient(t, server.mcpServer)

	content, err := client.ReadResource("interlock://schema")
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}

	var resp schemaResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		t.Fatalf("unmarshal schema response: %v", err)
	}
	if resp.SchemaVersion != SchemaVersion {
		t.Errorf("schema_version = %q", resp.SchemaVersion)
	}
	if len(resp.TicketSchema) == 0 {
		t.Error("ticket_schema is empty")
	}
}
