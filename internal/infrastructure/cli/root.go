package cli

import (
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var projectPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "interlock",
	Version: Version,
	Short:   "A deterministic workflow gate for agent-driven ticket resolution",
	Long: `Interlock governs an agent's ticket workflow with a fixed state machine.
Each stage has a validation gate; a ticket only advances when its current
stage's artifacts hold up. Every decision is recorded in a tamper-evident
event log.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&projectPath, "project", "", "Workspace root (defaults to the current directory)")
}
