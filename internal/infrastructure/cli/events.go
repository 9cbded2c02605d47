package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var eventsJSON bool

var eventsCmd = &cobra.Command{
	Use:   "events <run-id>",
	Short: "List the audit events recorded for a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		evts, err := services.Workflow.RunEvents(args[0])
		if err != nil {
			return err
		}

		if eventsJSON {
			out, err := json.MarshalIndent(evts, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		if len(evts) == 0 {
			fmt.Printf("No events recorded for run %s\n", args[0])
			return nil
		}
		for _, e := range evts {
			fmt.Printf("%s  %-16s %-22s %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Type, e.State, e.TicketID)
		}
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the event log hash chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		violations, err := services.Workflow.VerifyLog()
		if err != nil {
			return err
		}
		if len(violations) == 0 {
			fmt.Println("Event log intact")
			return nil
		}
		for _, v := range violations {
			fmt.Println(v)
		}
		return fmt.Errorf("event log has %d integrity violation(s)", len(violations))
	},
}

func init() {
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "Output in JSON format")
	RootCmd.AddCommand(eventsCmd)
	RootCmd.AddCommand(verifyCmd)
}
