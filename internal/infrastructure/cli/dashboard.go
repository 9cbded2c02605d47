package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/interlock/pkg/domain/workflow"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <ticket-id>",
	Short: "Interactive TUI showing a ticket's progression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("INTERLOCK_SKIP_DASHBOARD_RUN") == "true" {
			return nil
		}
		m, err := initialModel(args[0])
		if err != nil {
			return err
		}
		p := tea.NewProgram(m)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard run failed: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dashboardCmd)
}

// Styles
var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var logOK = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
var logBad = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

type model struct {
	table      table.Model
	ticketID   string
	title      string
	state      string
	role       string
	eventCount int
	violations []string
}

func initialModel(ticketID string) (model, error) {
	services, err := loadServicesForCurrentDir()
	if err != nil {
		return model{}, err
	}

	history, err := services.Workflow.TicketHistory(ticketID)
	if err != nil {
		return model{}, err
	}
	if len(history) == 0 {
		return model{}, fmt.Errorf("no snapshots found for ticket %s", ticketID)
	}
	latest := history[len(history)-1]

	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "State", Width: 22},
		{Title: "Updated", Width: 20},
		{Title: "Outcome", Width: 12},
	}

	rows := []table.Row{}
	for i, snap := range history {
		outcome := "-"
		if snap.Finalization != nil {
			outcome = snap.Finalization.Outcome
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			snap.State,
			snap.UpdatedAt.Format("2006-01-02 15:04:05"),
			outcome,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))
	t.SetStyles(s)

	role := ""
	if state, err := workflow.ParseState(latest.State); err == nil {
		role = workflow.RoleFor(state)
	}

	evts, _ := services.Workflow.RunEvents(latest.RunID)
	violations, _ := services.Workflow.VerifyLog()

	return model{
		table:      t,
		ticketID:   latest.TicketID,
		title:      latest.Title,
		state:      latest.State,
		role:       role,
		eventCount: len(evts),
		violations: violations,
	}, nil
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) View() string {
	header := headerStyle.Render(fmt.Sprintf("%s  %s", m.ticketID, m.title))

	logView := logOK.Render(fmt.Sprintf("\nEvent log: %d events, chain intact", m.eventCount))
	if len(m.violations) > 0 {
		logView = logBad.Render(fmt.Sprintf("\nEvent log: %d integrity violation(s)", len(m.violations)))
	}

	return baseStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			fmt.Sprintf("State: %s", m.state),
			fmt.Sprintf("Role:  %s", m.role),
			"\nSnapshots:",
			m.table.View(),
			logView,
			"\nPress q to quit.",
		),
	)
}
