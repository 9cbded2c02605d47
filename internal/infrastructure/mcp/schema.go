package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/interlock/pkg/domain/ticket"
)

// SchemaVersion is the current MCP tool schema version (semver).
const SchemaVersion = "1.0.0"

type schemaResponse struct {
	SchemaVersion string          `json:"schema_version"`
	ServerVersion string          `json:"server_version"`
	TicketSchema  json.RawMessage `json:"ticket_schema"`
}

func (s *Server) registerSchemaResource() {
	s.mcpServer.Resource("interlock://schema").
		Name("interlock://schema").
		Description("MCP tool schema version and the ticket document JSON schema").
		MimeType("application/json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			resp := schemaResponse{
				SchemaVersion: SchemaVersion,
				ServerVersion: Version,
				TicketSchema:  json.RawMessage(ticket.SchemaJSON()),
			}
			data, err := json.Marshal(resp)
			if err != nil {
				return nil, err
			}
			return &mcplib.ResourceContent{
				URI:      "interlock://schema",
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		})
}
