package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var notifyPlugin string

var notifyCmd = &cobra.Command{
	Use:   "notify <ticket-id>",
	Short: "Post a finalized ticket's milestone summary through a notifier plugin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		pluginPath := notifyPlugin
		settings := map[string]string{}
		if cfg := services.Workspace.Config; cfg != nil && cfg.Notifier != nil {
			if pluginPath == "" {
				pluginPath = cfg.Notifier.Plugin
			}
			settings = cfg.Notifier.Settings
		}
		if pluginPath == "" {
			return fmt.Errorf("no notifier plugin configured; pass --plugin or set notifier.plugin in %s", "config.yaml")
		}

		milestone, err := services.Notify.PostMilestone(args[0], pluginPath, settings)
		if err != nil {
			return err
		}
		fmt.Printf("Milestone posted for %s (outcome: %s)\n", milestone.TicketID, milestone.Outcome)
		return nil
	},
}

func init() {
	notifyCmd.Flags().StringVar(&notifyPlugin, "plugin", "", "Path to the notifier plugin binary")
	RootCmd.AddCommand(notifyCmd)
}
