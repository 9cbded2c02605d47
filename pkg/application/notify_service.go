package application

import (
	"fmt"

	"github.com/felixgeelhaar/interlock/pkg/domain/plugin"
)

// NotifierLoader loads notifier plugins by executable path.
type NotifierLoader interface {
	Load(path string) (plugin.Notifier, error)
	Cleanup()
}

// NotifyService posts milestone summaries for finalized tickets through
// notifier plugins.
type NotifyService struct {
	tickets TicketStore
	loader  NotifierLoader
}

func NewNotifyService(tickets TicketStore, loader NotifierLoader) *NotifyService {
	return &NotifyService{tickets: tickets, loader: loader}
}

// PostMilestone loads the notifier at pluginPath and delivers the milestone
// summary of the ticket's latest snapshot. The ticket must be finalized.
func (s *NotifyService) PostMilestone(ticketID, pluginPath string, config map[string]string) (*plugin.Milestone, error) {
	t, err := s.tickets.GetTicket(ticketID)
	if err != nil {
		return nil, fmt.Errorf("load ticket: %w", err)
	}
	if t.Finalization == nil {
		return nil, fmt.Errorf("ticket %s has no finalization summary yet", ticketID)
	}

	milestone := &plugin.Milestone{
		TicketID:        t.TicketID,
		RunID:           t.RunID,
		Outcome:         t.Finalization.Outcome,
		Summary:         t.Finalization.MilestoneSummary,
		UnresolvedItems: t.Finalization.UnresolvedItems,
	}

	notifier, err := s.loader.Load(pluginPath)
	if err != nil {
		return nil, err
	}
	defer s.loader.Cleanup()

	if err := notifier.Init(config); err != nil {
		return nil, fmt.Errorf("initialize notifier: %w", err)
	}
	if err := notifier.PostMilestone(milestone); err != nil {
		return nil, fmt.Errorf("post milestone: %w", err)
	}
	return milestone, nil
}
