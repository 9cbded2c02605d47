package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/interlock/pkg/storage"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the workspace data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		repo := storage.NewFilesystemRepository(root)
		if repo.IsInitialized() {
			fmt.Printf("Workspace already initialized at %s\n", repo.DataDir())
			return nil
		}
		if err := repo.Initialize(); err != nil {
			return err
		}
		fmt.Printf("Workspace initialized at %s\n", repo.DataDir())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}
