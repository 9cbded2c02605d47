package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:   "next [ticket.json]",
	Short: "Run the workflow cycle on a ticket document",
	Long: `Run the workflow cycle on a ticket document.

Reads the full ticket document from the given file (or stdin when the
argument is omitted or '-'), validates it against its current stage's
gate, and prints the engine's decision as JSON. A non-advancing decision
is still a successful run; the 'continue' field tells you whether to
call again.

Examples:
  interlock next ticket.json
  cat ticket.json | interlock next`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		var err error
		if len(args) == 0 || args[0] == "-" {
			raw, err = io.ReadAll(os.Stdin)
		} else {
			raw, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("read ticket document: %w", err)
		}

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		resp := services.Workflow.NextStep(raw)
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(nextCmd)
}
