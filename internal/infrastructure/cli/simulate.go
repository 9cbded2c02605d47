package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/interlock/pkg/domain/ticket"
	"github.com/felixgeelhaar/interlock/pkg/domain/workflow"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <ticket.json>",
	Short: "Dry-run a ticket through the remaining workflow stages",
	Long: `Dry-run a ticket through the remaining workflow stages.

Drives a state machine from the ticket's current state, consulting each
stage's gate against the artifacts already on the ticket. Nothing is
persisted; the output shows how far the ticket would get as-is and what
blocks it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read ticket document: %w", err)
		}
		t, err := ticket.FromJSON(raw)
		if err != nil {
			return err
		}
		start, err := workflow.ParseState(t.State)
		if err != nil {
			return err
		}

		var lastResult workflow.GateResult
		guard := func(s workflow.State) bool {
			staged := t.Clone()
			staged.State = string(s)
			lastResult = workflow.GateFor(s)(staged)
			return lastResult.Status == workflow.StatusPass
		}

		machine, err := workflow.NewRunMachine(start, guard)
		if err != nil {
			return err
		}

		fmt.Printf("Simulating from state '%s'\n\n", start)
		for !machine.IsComplete() {
			current := machine.Current()
			if err := machine.Advance(); err != nil {
				fmt.Printf("  %-22s BLOCKED (%s)\n", current, lastResult.Status)
				for _, reason := range lastResult.Reasons {
					fmt.Printf("    - %s\n", reason)
				}
				for _, fix := range lastResult.Fixes {
					fmt.Printf("    fix: %s\n", fix)
				}
				return nil
			}
			fmt.Printf("  %-22s pass -> %s\n", current, machine.Current())
		}

		// The terminal stage still has a gate even though there is no
		// further transition.
		if guard(machine.Current()) {
			fmt.Printf("  %-22s pass (terminal)\n", machine.Current())
			fmt.Println("\nTicket would complete the workflow as-is.")
		} else {
			fmt.Printf("  %-22s BLOCKED (%s)\n", machine.Current(), lastResult.Status)
			for _, reason := range lastResult.Reasons {
				fmt.Printf("    - %s\n", reason)
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(simulateCmd)
}
