package strata

import (
	"context"
	"log/slog"

	_ "embed"

	"github.com/aretw0/strata/pkg/core"
	checkpoint "github.com/aretw0/strata/pkg/strata"
)

// Version exposes the version of the library.
//
//go:embed VERSION
var Version string

// --- Types ---

// Tracker is a public alias for the checkpoint tracker.
type Tracker = checkpoint.Tracker

// Checkpoint is a public alias for the checkpoint record.
type Checkpoint = core.Checkpoint

// DiffEntry is a public alias for a per-file difference.
type DiffEntry = core.DiffEntry

// ExclusionDecision is a public alias for the exclusion predicate verdict.
type ExclusionDecision = core.ExclusionDecision

// Excluder is a public alias for the exclusion predicate contract.
type Excluder = core.Excluder

// WatchConfig is a public alias for the auto-checkpoint tuning.
type WatchConfig = checkpoint.WatchConfig

// --- Configuration ---

// Option defines a functional option for configuring a Tracker.
type Option = checkpoint.Option

// WithStorageRoot sets the application storage root under which snapshot
// stores are namespaced.
func WithStorageRoot(root string) Option {
	return checkpoint.WithStorageRoot(root)
}

// WithExcluder injects a custom exclusion predicate.
func WithExcluder(e Excluder) Option {
	return checkpoint.WithExcluder(e)
}

// WithLogger sets the logger for the tracker.
func WithLogger(logger *slog.Logger) Option {
	return checkpoint.WithLogger(logger)
}

// WithSelfHeal toggles the startup recovery of interrupted isolation.
func WithSelfHeal(enabled bool) Option {
	return checkpoint.WithSelfHeal(enabled)
}

// --- Entry point ---

// New opens (or creates) the shadow snapshot store for a workspace and
// returns a tracker bound to the given task lane.
//
//	tracker, err := strata.New(ctx, "/path/to/workspace", "my-task")
func New(ctx context.Context, workspace, taskID string, opts ...Option) (*Tracker, error) {
	return checkpoint.NewTracker(ctx, workspace, taskID, opts...)
}
