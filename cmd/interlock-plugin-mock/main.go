package main

import (
	"log"

	"github.com/hashicorp/go-plugin"

	domainPlugin "github.com/felixgeelhaar/interlock/pkg/domain/plugin"
	infraPlugin "github.com/felixgeelhaar/interlock/pkg/plugin"
)

// MockNotifier logs milestones instead of delivering them anywhere. Useful
// for exercising the plugin wiring end to end.
type MockNotifier struct{}

func (m *MockNotifier) Init(config map[string]string) error {
	log.Printf("Mock notifier initialized with %d settings", len(config))
	return nil
}

func (m *MockNotifier) PostMilestone(milestone *domainPlugin.Milestone) error {
	log.Printf("Milestone for %s (run %s): outcome=%s summary=%q", milestone.TicketID, milestone.RunID, milestone.Outcome, milestone.Summary)
	for _, item := range milestone.UnresolvedItems {
		log.Printf("  unresolved: %s", item)
	}
	return nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: infraPlugin.HandshakeConfig,
		Plugins: map[string]plugin.Plugin{
			"notifier": &domainPlugin.NotifierPlugin{Impl: &MockNotifier{}},
		},
	})
}
