package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/interlock/pkg/domain/ticket"
	"github.com/felixgeelhaar/interlock/pkg/domain/workflow"
)

var statusJSON bool

var stateStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
var presentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
var missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
var terminalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))

var statusCmd = &cobra.Command{
	Use:   "status <ticket-id>",
	Short: "Show the latest snapshot of a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		t, err := services.Workflow.GetTicket(args[0])
		if err != nil {
			return err
		}

		if statusJSON {
			out, err := json.MarshalIndent(t, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		printTicketStatus(t)
		return nil
	},
}

func printTicketStatus(t *ticket.Ticket) {
	fmt.Printf("%s  %s\n", stateStyle.Render(t.TicketID), t.Title)

	state, err := workflow.ParseState(t.State)
	if err != nil {
		fmt.Printf("State: %s (unrecognized)\n", t.State)
		return
	}

	stateLine := stateStyle.Render(t.State)
	if state.IsTerminal() {
		stateLine += terminalStyle.Render("  (terminal)")
	}
	fmt.Printf("State: %s\n", stateLine)
	fmt.Printf("Run:   %s\n", t.RunID)
	fmt.Printf("Role:  %s\n", workflow.RoleFor(state))

	fmt.Println("\nArtifacts:")
	for _, line := range artifactChecklist(t) {
		fmt.Println(line)
	}
}

func artifactChecklist(t *ticket.Ticket) []string {
	entries := []struct {
		name    string
		present bool
	}{
		{"requirements", t.Requirements != nil},
		{"scope", t.Scope != nil},
		{"evidence", t.Evidence != nil},
		{"plan", t.Plan != nil},
		{"execution", t.Execution != nil},
		{"finalization", t.Finalization != nil},
	}

	var lines []string
	for _, e := range entries {
		mark := missingStyle.Render("[ ]")
		if e.present {
			mark = presentStyle.Render("[x]")
		}
		lines = append(lines, fmt.Sprintf("  %s %s", mark, e.name))
	}
	if t.Finalization != nil {
		lines = append(lines, fmt.Sprintf("\nOutcome: %s", strings.ToUpper(t.Finalization.Outcome)))
	}
	return lines
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	RootCmd.AddCommand(statusCmd)
}
