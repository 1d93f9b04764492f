package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/strata/pkg/strata"
)

var (
	watchDebounce time.Duration
	watchInterval time.Duration
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Take automatic checkpoints whenever edits settle",
	Long: `Observe the workspace and record a checkpoint after each burst of
edits. Runs until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		tracker := openTracker(cmd)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Println("Watching", tracker.Workspace, "on task", tracker.TaskID, "(Ctrl+C to stop)")

		cfg := strata.WatchConfig{
			Debounce:    watchDebounce,
			MinInterval: watchInterval,
		}
		if err := tracker.Watch(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
			fatal("Watch failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	defaults := strata.DefaultWatchConfig()
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", defaults.Debounce, "Quiet period before an automatic checkpoint")
	watchCmd.Flags().DurationVar(&watchInterval, "min-interval", defaults.MinInterval, "Floor between automatic checkpoints")
}
