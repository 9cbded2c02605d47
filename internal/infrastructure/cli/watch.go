package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/interlock/internal/infrastructure/watch"
	"github.com/felixgeelhaar/interlock/pkg/storage"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the workspace data files and report changes",
	Long: `Watch the workspace data files and report changes.

Reports every debounced write to the ticket or event log, which is
useful while an agent is driving the workflow from another process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		repo := storage.NewFilesystemRepository(root)
		if !repo.IsInitialized() {
			return fmt.Errorf("workspace not initialized; run 'interlock init' first")
		}

		watcher, err := watch.NewDataWatcher(repo.DataDir(), watchDebounce, func(e watch.ChangeEvent) {
			fmt.Printf("%s  %s %s (%s)\n", time.Now().Format("15:04:05"), e.File, e.ChangeType, e.Path)
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Watching %s for changes... (Ctrl+C to stop)\n", repo.DataDir())
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Debounce window for change events")
	RootCmd.AddCommand(watchCmd)
}
