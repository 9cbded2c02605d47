// Package mcp exposes the workflow engine to MCP clients over stdio, HTTP,
// or WebSocket transports.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/interlock/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/interlock/pkg/application"
	"github.com/felixgeelhaar/interlock/pkg/domain/workflow"
	"github.com/felixgeelhaar/interlock/pkg/storage"
	"github.com/felixgeelhaar/mcp-go"
)

type Server struct {
	mcpServer   *mcp.Server
	workflowSvc *application.WorkflowService
	notifySvc   *application.NotifyService
	root        string
}

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

// mcpErr returns a user-friendly error for MCP clients.
// Internal details are omitted — only the friendly message is returned.
func mcpErr(friendly string) error {
	return fmt.Errorf("%s", friendly)
}

func NewServer(root string) (*Server, error) {
	services, err := wiring.BuildAppServices(root)
	if err != nil {
		return nil, fmt.Errorf("build services: %w", err)
	}

	info := mcp.ServerInfo{
		Name:    "interlock",
		Version: Version,
	}

	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("Interlock MCP Server"),
			mcp.WithDescription("Interlock gates an agent's ticket workflow through deterministic per-stage validation."),
			mcp.WithWebsiteURL("https://github.com/felixgeelhaar/interlock"),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("Submit the full ticket document to interlock_next_step after each stage; follow next_role until continue is false."),
		),
		workflowSvc: services.Workflow,
		notifySvc:   services.Notify,
		root:        root,
	}

	s.registerTools()
	s.registerSchemaResource()
	return s, nil
}

type NextStepArgs struct {
	Ticket string `json:"ticket" jsonschema:"description=The full ticket document as a JSON string"`
}

type GetTicketArgs struct {
	TicketID string `json:"ticket_id" jsonschema:"description=The ticket identifier"`
}

type RunEventsArgs struct {
	RunID string `json:"run_id" jsonschema:"description=The run identifier"`
}

func (s *Server) registerTools() {
	// Tool: interlock_next_step
	s.mcpServer.Tool("interlock_next_step").
		Description("Validate the submitted ticket against its stage gate and, if it passes, advance it to the next stage with the role instruction for that stage").
		Handler(s.handleNextStep)

	// Tool: interlock_get_ticket
	s.mcpServer.Tool("interlock_get_ticket").
		Description("Retrieve the latest persisted snapshot of a ticket").
		Handler(s.handleGetTicket)

	// Tool: interlock_ticket_history
	s.mcpServer.Tool("interlock_ticket_history").
		Description("Retrieve every persisted snapshot of a ticket in order").
		Handler(s.handleTicketHistory)

	// Tool: interlock_run_events
	s.mcpServer.Tool("interlock_run_events").
		Description("Retrieve the audit events recorded for a run").
		Handler(s.handleRunEvents)

	// Tool: interlock_verify_log
	s.mcpServer.Tool("interlock_verify_log").
		Description("Verify the event log hash chain and report any tampering").
		Handler(s.handleVerifyLog)

	// Tool: interlock_states
	s.mcpServer.Tool("interlock_states").
		Description("List the workflow states in order with their role instructions and required artifacts").
		Handler(s.handleStates)

	// Tool: interlock_init
	s.mcpServer.Tool("interlock_init").
		Description("Initialize the workspace data directory").
		Handler(s.handleInit)
}

func (s *Server) handleNextStep(ctx context.Context, args NextStepArgs) (any, error) {
	if args.Ticket == "" {
		return nil, mcpErr("Provide the ticket document as a JSON string in the 'ticket' argument.")
	}
	return s.workflowSvc.NextStep([]byte(args.Ticket)), nil
}

func (s *Server) handleGetTicket(ctx context.Context, args GetTicketArgs) (any, error) {
	t, err := s.workflowSvc.GetTicket(args.TicketID)
	if err != nil {
		if errors.Is(err, storage.ErrTicketNotFound) {
			return nil, mcpErr(fmt.Sprintf("No ticket found with id '%s'.", args.TicketID))
		}
		return nil, mcpErr("Failed to load the ticket. Check workspace permissions.")
	}
	return t, nil
}

func (s *Server) handleTicketHistory(ctx context.Context, args GetTicketArgs) (any, error) {
	history, err := s.workflowSvc.TicketHistory(args.TicketID)
	if err != nil {
		return nil, mcpErr("Failed to load the ticket history. Check workspace permissions.")
	}
	return history, nil
}

func (s *Server) handleRunEvents(ctx context.Context, args RunEventsArgs) (any, error) {
	evts, err := s.workflowSvc.RunEvents(args.RunID)
	if err != nil {
		return nil, mcpErr("Failed to load run events. Check workspace permissions.")
	}
	return evts, nil
}

func (s *Server) handleVerifyLog(ctx context.Context, args struct{}) (any, error) {
	violations, err := s.workflowSvc.VerifyLog()
	if err != nil {
		return nil, mcpErr("Failed to verify the event log. Check workspace permissions.")
	}
	return map[string]any{
		"intact":     len(violations) == 0,
		"violations": violations,
	}, nil
}

type stateInfo struct {
	State             string   `json:"state"`
	Role              string   `json:"role"`
	RequiredArtifacts []string `json:"required_artifacts,omitempty"`
	Terminal          bool     `json:"terminal,omitempty"`
}

func (s *Server) handleStates(ctx context.Context, args struct{}) (any, error) {
	states := workflow.States()
	result := make([]stateInfo, 0, len(states))
	for _, state := range states {
		result = append(result, stateInfo{
			State:             string(state),
			Role:              workflow.RoleFor(state),
			RequiredArtifacts: workflow.RequiredFieldsFor(state),
			Terminal:          state.IsTerminal(),
		})
	}
	return result, nil
}

func (s *Server) handleInit(ctx context.Context, args struct{}) (string, error) {
	repo := storage.NewFilesystemRepository(s.root)
	if err := repo.Initialize(); err != nil {
		return "", mcpErr("Failed to initialize the workspace. Check directory permissions.")
	}
	return fmt.Sprintf("Workspace initialized at %s", repo.DataDir()), nil
}

func (s *Server) Start() error {
	return s.StartStdio()
}

func (s *Server) StartStdio() error {
	return s.ServeStdio(context.Background())
}

func (s *Server) StartHTTP(addr string) error {
	return s.ServeHTTP(context.Background(), addr)
}

func (s *Server) StartWebSocket(addr string) error {
	return s.ServeWebSocket(context.Background(), addr)
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}

func (s *Server) ServeWebSocket(ctx context.Context, addr string) error {
	return mcp.ServeWebSocket(ctx, s.mcpServer, addr)
}
