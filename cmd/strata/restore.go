package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var restoreForce bool

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore <checkpoint>",
	Short: "Roll the workspace back to a checkpoint",
	Long: `Rewrite the task lane's tip to the given checkpoint, discarding all
uncommitted and later-committed changes on that lane. Destructive and
irreversible: requires --force.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !restoreForce {
			fmt.Fprintln(os.Stderr, "restore discards changes permanently; re-run with --force to confirm")
			os.Exit(1)
		}

		tracker := openTracker(cmd)

		if err := tracker.Reset(cmd.Context(), args[0]); err != nil {
			fatal("Failed to restore checkpoint", err)
		}

		fmt.Println("Workspace restored to", shortID(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().BoolVarP(&restoreForce, "force", "f", false, "Confirm the destructive rollback")
}
