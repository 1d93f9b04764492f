package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listLimit int

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List checkpoints on the task lane",
	Run: func(cmd *cobra.Command, args []string) {
		tracker := openTracker(cmd)

		checkpoints, err := tracker.Checkpoints(cmd.Context(), listLimit)
		if err != nil {
			fatal("Failed to list checkpoints", err)
		}

		if len(checkpoints) == 0 {
			fmt.Println("No checkpoints on task", tracker.TaskID)
			return
		}

		for _, cp := range checkpoints {
			fmt.Printf("%s  %s  %s\n", shortID(cp.ID), cp.CreatedAt.Format("2006-01-02 15:04:05"), cp.Message)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "Maximum checkpoints to show (0 = all)")
}
