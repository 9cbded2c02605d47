// Package plugin defines the notifier contract external plugins implement
// to receive milestone summaries when a run finalizes.
package plugin

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// Milestone is the payload delivered to notifiers at the end of a run.
type Milestone struct {
	TicketID        string   `json:"ticket_id"`
	RunID           string   `json:"run_id"`
	Outcome         string   `json:"outcome"`
	Summary         string   `json:"summary"`
	UnresolvedItems []string `json:"unresolved_items,omitempty"`
}

// Notifier is the interface that plugins must implement.
type Notifier interface {
	// Init ensures the plugin can connect (auth check)
	Init(config map[string]string) error

	// PostMilestone delivers a milestone summary to the external system
	PostMilestone(m *Milestone) error
}

// NotifierPlugin is the implementation of plugin.Plugin so we can serve/consume this.
type NotifierPlugin struct {
	Impl Notifier
}

func (p *NotifierPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &NotifierRPCServer{Impl: p.Impl}, nil
}

func (p *NotifierPlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &NotifierRPCClient{Client: c}, nil
}

// RPC Client/Server wrappers

type NotifierRPCClient struct{ Client *rpc.Client }

func (g *NotifierRPCClient) Init(config map[string]string) error {
	var resp interface{}
	return g.Client.Call("Plugin.Init", config, &resp)
}

func (g *NotifierRPCClient) PostMilestone(m *Milestone) error {
	var resp interface{}
	return g.Client.Call("Plugin.PostMilestone", m, &resp)
}

type NotifierRPCServer struct{ Impl Notifier }

func (s *NotifierRPCServer) Init(config map[string]string, resp *interface{}) error {
	return s.Impl.Init(config)
}

func (s *NotifierRPCServer) PostMilestone(m *Milestone, resp *interface{}) error {
	return s.Impl.PostMilestone(m)
}
