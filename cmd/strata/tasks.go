package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// tasksCmd represents the tasks command
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List task lanes in this workspace's snapshot store",
	Run: func(cmd *cobra.Command, args []string) {
		tracker := openTracker(cmd)

		tasks, err := tracker.Tasks(cmd.Context())
		if err != nil {
			fatal("Failed to list tasks", err)
		}

		for _, task := range tasks {
			marker := " "
			if task == tracker.TaskID {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, task)
		}
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
