// Package strata implements a shadow snapshot engine for workspace
// directories: per-workspace, per-task checkpoints kept in an isolated
// git store whose metadata lives outside the workspace, invisible to the
// user's own version control.
package strata

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/strata/pkg/core"
	"github.com/aretw0/strata/pkg/exclusions"
	"github.com/aretw0/strata/pkg/git"
)

// Tracker composes the guard, locator, isolator, staging filter and
// snapshot engine into the public checkpoint operations for one workspace
// and one task. Construct with NewTracker.
//
// A tracker assumes at most one in-flight mutating operation at a time;
// callers serialize Commit/Reset/Diff themselves.
type Tracker struct {
	Workspace string
	TaskID    string
	Identity  string
	StorePath string

	engine *engine
	logger *slog.Logger
}

// NewTracker validates the workspace, locates or creates its snapshot
// store, initializes the shadow engine and switches to the task's lane.
//
// Construction failures (core.ErrInvalidWorkspace, core.ErrEngineUnavailable,
// core.ErrForeignWorkspace) are fatal for checkpointing: callers disable
// the feature for the session rather than crash.
func NewTracker(ctx context.Context, root, taskID string, opts ...Option) (*Tracker, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if taskID == "" {
		return nil, fmt.Errorf("task id cannot be empty")
	}

	workspace, err := ValidateWorkspace(root)
	if err != nil {
		return nil, err
	}

	if !git.IsInstalled() {
		return nil, fmt.Errorf("%w: git executable not found", core.ErrEngineUnavailable)
	}

	storageRoot := o.storageRoot
	if storageRoot == "" {
		storageRoot, err = DefaultStorageRoot()
		if err != nil {
			return nil, err
		}
	}

	identity := WorkspaceID(workspace)
	storePath, err := StorePath(storageRoot, identity)
	if err != nil {
		return nil, err
	}

	excluder := o.excluder
	if excluder == nil {
		excluder = exclusions.NewMatcher(workspace,
			exclusions.LoadLargeFilePatterns(workspace, o.logger), o.logger)
	}

	eng := newEngine(storePath, workspace, excluder, o.logger)

	if o.selfHeal {
		eng.isolator.Recover()
	}

	if err := eng.initialize(ctx); err != nil {
		return nil, err
	}
	if err := eng.switchTask(ctx, taskID); err != nil {
		return nil, err
	}

	t := &Tracker{
		Workspace: workspace,
		TaskID:    taskID,
		Identity:  identity,
		StorePath: storePath,
		engine:    eng,
		logger:    o.logger,
	}

	if t.logger != nil {
		t.logger.Debug("checkpoint tracker ready",
			"workspace", workspace, "task", taskID, "store", storePath)
	}
	return t, nil
}

// Commit captures the current workspace state as a checkpoint on the
// task's lane and returns its id. Empty checkpoints are valid markers.
//
// A failed commit must never take down the calling session: failures are
// logged and reported as an empty id, which callers read as "no new
// checkpoint was recorded".
func (t *Tracker) Commit(ctx context.Context, message string) string {
	if message == "" {
		message = "checkpoint"
	}

	id, err := t.engine.commit(ctx, t.TaskID, message)
	if err != nil {
		if t.logger != nil {
			t.logger.Error("checkpoint commit failed", "task", t.TaskID, "error", err)
		}
		return ""
	}

	if t.logger != nil {
		t.logger.Info("checkpoint recorded", "task", t.TaskID, "checkpoint", id)
	}
	return id
}

// Reset rolls the workspace back to a prior checkpoint, discarding all
// uncommitted and later-committed changes on the task's lane. Destructive
// and irreversible; the caller must have confirmed intent. Failures
// surface as core.ErrResetFailed, never silently.
func (t *Tracker) Reset(ctx context.Context, checkpoint string) error {
	if checkpoint == "" {
		return fmt.Errorf("%w: no checkpoint given", core.ErrResetFailed)
	}

	if err := t.engine.reset(ctx, t.TaskID, checkpoint); err != nil {
		return err
	}

	if t.logger != nil {
		t.logger.Info("workspace restored", "task", t.TaskID, "checkpoint", checkpoint)
	}
	return nil
}

// Diff returns the per-file differences between two checkpoints, or
// between a checkpoint and the live working tree when to is empty. An
// empty from anchors at the store's first checkpoint, so a bare
// Diff(ctx, "", "") answers "what changed since history began".
func (t *Tracker) Diff(ctx context.Context, from, to string) ([]core.DiffEntry, error) {
	return t.engine.diff(ctx, t.TaskID, from, to)
}

// Checkpoints lists the task lane's history, most recent first. A limit
// of 0 means no limit.
func (t *Tracker) Checkpoints(ctx context.Context, limit int) ([]core.Checkpoint, error) {
	return t.engine.checkpoints(ctx, t.TaskID, limit)
}

// Tasks lists every task id with a lane in this workspace's store.
func (t *Tracker) Tasks(ctx context.Context) ([]string, error) {
	return t.engine.lanes(ctx)
}
