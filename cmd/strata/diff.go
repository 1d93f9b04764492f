package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var diffNamesOnly bool

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff [from] [to]",
	Short: "Show file differences between two workspace states",
	Long: `Compare two checkpoints, or a checkpoint against the live working
tree when "to" is omitted. With no arguments, compares the very first
checkpoint against the live tree.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		tracker := openTracker(cmd)

		var from, to string
		if len(args) > 0 {
			from = args[0]
		}
		if len(args) > 1 {
			to = args[1]
		}

		entries, err := tracker.Diff(cmd.Context(), from, to)
		if err != nil {
			fatal("Failed to compute diff", err)
		}

		if len(entries) == 0 {
			fmt.Println("No differences.")
			return
		}

		for _, entry := range entries {
			switch {
			case diffNamesOnly:
				fmt.Println(entry.RelPath)
			case entry.Before == "":
				fmt.Printf("A  %s (+%d bytes)\n", entry.RelPath, len(entry.After))
			case entry.After == "":
				fmt.Printf("D  %s (-%d bytes)\n", entry.RelPath, len(entry.Before))
			default:
				fmt.Printf("M  %s (%d -> %d bytes)\n", entry.RelPath, len(entry.Before), len(entry.After))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().BoolVar(&diffNamesOnly, "name-only", false, "Print changed paths only")
}
