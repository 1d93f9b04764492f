package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var saveMsg string

// saveCmd represents the save command
var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Capture the current workspace state as a checkpoint",
	Long: `Record the workspace's current state on the task lane. Empty
checkpoints are valid and act as markers in history.`,
	Run: func(cmd *cobra.Command, args []string) {
		tracker := openTracker(cmd)

		id := tracker.Commit(cmd.Context(), saveMsg)
		if id == "" {
			fmt.Fprintln(os.Stderr, "No checkpoint was recorded (see log for details).")
			os.Exit(1)
		}

		fmt.Println("Checkpoint", shortID(id), "recorded on task", tracker.TaskID)
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(saveCmd)
	saveCmd.Flags().StringVarP(&saveMsg, "message", "m", "", "Checkpoint message")
}
