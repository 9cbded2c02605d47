// Package wiring assembles the application services for a workspace root.
package wiring

import (
	"github.com/felixgeelhaar/interlock/internal/infrastructure/config"
	"github.com/felixgeelhaar/interlock/pkg/application"
	"github.com/felixgeelhaar/interlock/pkg/plugin"
	"github.com/felixgeelhaar/interlock/pkg/storage"
)

// Workspace bundles core infrastructure dependencies.
type Workspace struct {
	Repo    *storage.FilesystemRepository
	Tickets *storage.FileTicketStore
	Events  *storage.FileEventStore
	Config  *config.Config
}

// NewWorkspace opens the stores under root/.interlock. A missing or
// unreadable config file degrades to defaults.
func NewWorkspace(root string) (*Workspace, error) {
	repo := storage.NewFilesystemRepository(root)

	events, err := storage.NewFileEventStore(repo.DataDir())
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(root)
	if err != nil {
		cfg = nil
	}

	return &Workspace{
		Repo:    repo,
		Tickets: storage.NewFileTicketStore(repo.DataDir()),
		Events:  events,
		Config:  cfg,
	}, nil
}

// AppServices exposes the application layer services wired together with a workspace.
type AppServices struct {
	Workspace *Workspace
	Workflow  *application.WorkflowService
	Notify    *application.NotifyService
}

// BuildAppServices constructs the service set for a repo root.
func BuildAppServices(root string) (*AppServices, error) {
	workspace, err := NewWorkspace(root)
	if err != nil {
		return nil, err
	}

	actor := ""
	if workspace.Config != nil {
		actor = workspace.Config.Actor
	}

	return &AppServices{
		Workspace: workspace,
		Workflow:  application.NewWorkflowService(workspace.Tickets, workspace.Events, actor),
		Notify:    application.NewNotifyService(workspace.Tickets, plugin.NewLoader()),
	}, nil
}
