package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or attach the shadow snapshot store for this workspace",
	Long: `Initialize the isolated snapshot store for the current workspace and
open a task lane. The store lives under the application storage root,
never inside the workspace.`,
	Run: func(cmd *cobra.Command, args []string) {
		tracker := openTracker(cmd)

		fmt.Println("Snapshot store ready.")
		fmt.Println("  workspace:", tracker.Workspace)
		fmt.Println("  identity: ", tracker.Identity)
		fmt.Println("  store:    ", tracker.StorePath)
		fmt.Println("  task:     ", tracker.TaskID)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
