package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/strata/internal/platform"
	"github.com/aretw0/strata/pkg/strata"
)

var (
	verbose   bool
	taskID    string
	workspace string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Shadow checkpoints for agent workspaces, invisible to your own Git",
	Long: `Strata keeps lightweight snapshots of a workspace in an isolated shadow
repository, outside the workspace and outside your own version control.
Capture state, diff any two states, and roll the tree back - per task,
per workspace.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&taskID, "task", "t", "", "Task lane to operate on (new lane when omitted)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (discovered from CWD when omitted)")
}

// openTracker wires config, workspace discovery and tracker construction
// for the subcommands. Exits with a friendly message when checkpoints are
// disabled.
func openTracker(cmd *cobra.Command) *strata.Tracker {
	cfg, err := platform.LoadConfig()
	if err != nil {
		fatal("Failed to load configuration", err)
	}

	root := workspace
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}
		root, err = platform.FindWorkspaceRoot(cwd)
		if err != nil {
			fatal("Failed to locate workspace root", err)
		}
	}

	tracker, err := platform.NewTracker(cmd.Context(), cfg, root, taskID, slog.Default())
	if err != nil {
		if errors.Is(err, platform.ErrDisabled) {
			fmt.Println("Checkpoints are disabled (checkpoints.enabled: false).")
			os.Exit(0)
		}
		fatal("Failed to open checkpoint tracker", err)
	}
	return tracker
}
