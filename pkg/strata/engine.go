package strata

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/strata/pkg/core"
	"github.com/aretw0/strata/pkg/git"
)

// Commit author recorded on every checkpoint. Fixed and synthetic: the
// shadow history must never leak the user's git identity.
const (
	authorName  = "strata"
	authorEmail = "checkpoints@strata.local"
)

// workTreeKey is the config key binding a store to its workspace root.
const workTreeKey = "core.worktree"

// baselineMessage is the subject of the empty root checkpoint every store
// starts with, so every lane can diff against a well-defined origin.
const baselineMessage = "baseline"

// engine owns the shadow repository handle and exposes the snapshot
// primitives the tracker composes: initialize, per-task lanes, commit,
// reset and diff. Mutating calls must be serialized by the caller.
type engine struct {
	git       *git.Client
	storePath string
	workspace string
	isolator  *Isolator
	excluder  core.Excluder
	logger    *slog.Logger

	// Cached core.worktree value. Revalidated on initialize, never
	// trusted across tracker instances.
	binding string
}

func newEngine(storePath, workspace string, excluder core.Excluder, logger *slog.Logger) *engine {
	return &engine{
		git:       git.NewClient(filepath.Join(storePath, ".git"), workspace, logger),
		storePath: storePath,
		workspace: workspace,
		isolator:  NewIsolator(workspace, storePath, logger),
		excluder:  excluder,
		logger:    logger,
	}
}

// initialize creates the shadow repository on first use, or verifies an
// existing one is bound to this workspace. A store bound elsewhere fails
// with core.ErrForeignWorkspace: reusing it would corrupt both histories.
func (e *engine) initialize(ctx context.Context) error {
	if e.git.IsRepo() {
		binding, err := e.git.ConfigGet(ctx, workTreeKey)
		if err != nil {
			return fmt.Errorf("failed to read working-tree binding: %w", err)
		}
		if filepath.Clean(binding) != e.workspace {
			return fmt.Errorf("%w: store bound to %s, requested %s",
				core.ErrForeignWorkspace, binding, e.workspace)
		}
		e.binding = filepath.Clean(binding)
		return nil
	}

	if err := e.git.Init(ctx); err != nil {
		return err
	}

	settings := map[string]string{
		workTreeKey:      e.workspace,
		"commit.gpgsign": "false",
		"user.name":      authorName,
		"user.email":     authorEmail,
	}
	for key, value := range settings {
		if err := e.git.ConfigSet(ctx, key, value); err != nil {
			return fmt.Errorf("failed to configure store: %w", err)
		}
	}

	if err := e.writeBaselineExcludes(); err != nil {
		return err
	}

	if _, err := e.git.Commit(ctx, baselineMessage); err != nil {
		return fmt.Errorf("failed to create baseline checkpoint: %w", err)
	}

	e.binding = e.workspace
	if e.logger != nil {
		e.logger.Info("initialized snapshot store", "store", e.storePath, "workspace", e.workspace)
	}
	return nil
}

// writeBaselineExcludes seeds the store's private exclude file with the
// known large-binary patterns so they never even enter the candidate set.
func (e *engine) writeBaselineExcludes() error {
	infoDir := filepath.Join(e.storePath, ".git", "info")
	if err := os.MkdirAll(infoDir, 0755); err != nil {
		return fmt.Errorf("failed to create exclude directory: %w", err)
	}

	content := strings.Join(baselineExcludes(), "\n") + "\n"
	if err := os.WriteFile(filepath.Join(infoDir, "exclude"), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write baseline excludes: %w", err)
	}
	return nil
}

// switchTask points the store at the lane for taskID, creating it at the
// current position on first use. Called at the start of every commit,
// reset and diff; the active lane is never assumed sticky.
func (e *engine) switchTask(ctx context.Context, taskID string) error {
	lane := laneName(taskID)

	exists, err := e.git.BranchExists(ctx, lane)
	if err != nil {
		return fmt.Errorf("failed to inspect task lane: %w", err)
	}
	if !exists {
		if err := e.git.CreateBranch(ctx, lane); err != nil {
			return fmt.Errorf("failed to create task lane: %w", err)
		}
		if e.logger != nil {
			e.logger.Debug("created task lane", "lane", lane)
		}
	}

	if err := e.git.SwitchBranch(ctx, lane); err != nil {
		return fmt.Errorf("failed to switch task lane: %w", err)
	}
	return nil
}

// lanePrefix namespaces task lanes among the store's branches.
const lanePrefix = "task-"

// laneName maps a task id onto its branch name.
func laneName(taskID string) string {
	return lanePrefix + taskID
}

// stage makes the live tree visible to the engine: nested repositories
// are hidden, the candidate set is partitioned through the exclusion
// predicate, and the surviving paths are staged in one batch. Nested
// repositories are always restored, even when staging fails.
func (e *engine) stage(ctx context.Context) error {
	if err := e.isolator.Disable(); err != nil {
		return err
	}
	defer func() {
		if err := e.isolator.Enable(); err != nil && e.logger != nil {
			e.logger.Error("failed to restore nested repositories", "error", err)
		}
	}()

	candidates, err := e.git.LsFiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list candidate files: %w", err)
	}

	included, excluded := partition(e.workspace, candidates, e.excluder, e.logger)
	if e.logger != nil && len(excluded) > 0 {
		e.logger.Debug("held files back from staging", "count", len(excluded))
	}

	// An empty include set is a valid, common state, not an error.
	if err := e.git.Add(ctx, included...); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}
	return nil
}

// commit stages the working tree and records a checkpoint on the active
// lane. Empty checkpoints are valid; they act as markers in history.
func (e *engine) commit(ctx context.Context, taskID, message string) (string, error) {
	if err := e.switchTask(ctx, taskID); err != nil {
		return "", err
	}
	if err := e.stage(ctx); err != nil {
		return "", err
	}

	id, err := e.git.Commit(ctx, message)
	if err != nil {
		return "", fmt.Errorf("failed to record checkpoint: %w", err)
	}
	return id, nil
}

// reset rewrites the lane's tip to the target checkpoint, discarding all
// uncommitted and later-committed changes on that lane. Destructive by
// design; callers confirm intent before getting here.
func (e *engine) reset(ctx context.Context, taskID, checkpoint string) error {
	if err := e.switchTask(ctx, taskID); err != nil {
		return err
	}
	if err := e.git.ResetHard(ctx, checkpoint); err != nil {
		return fmt.Errorf("%w: %v", core.ErrResetFailed, err)
	}
	return nil
}

// diff computes the per-file differences between two states of the lane.
// An empty from anchors at the store's very first checkpoint; an empty to
// compares against the live tree, staged first so untracked files become
// visible. A path unreadable on either side resolves to empty content.
func (e *engine) diff(ctx context.Context, taskID, from, to string) ([]core.DiffEntry, error) {
	if err := e.switchTask(ctx, taskID); err != nil {
		return nil, err
	}

	if from == "" {
		root, err := e.git.RootCommit(ctx, "HEAD")
		if err != nil {
			return nil, fmt.Errorf("failed to resolve history start: %w", err)
		}
		from = root
	}

	// Stage without committing so uncommitted edits and new files show up.
	if err := e.stage(ctx); err != nil {
		return nil, err
	}

	names, err := e.git.DiffNames(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list changed paths: %w", err)
	}

	entries := make([]core.DiffEntry, 0, len(names))
	for _, rel := range names {
		if rel == "" {
			continue
		}
		abs := filepath.Join(e.workspace, filepath.FromSlash(rel))

		// Modified excluded files can still surface from the index of an
		// older checkpoint; the predicate has the final word.
		if decision := e.excluder.ShouldExclude(abs); decision.Excluded {
			continue
		}

		before, err := e.git.ShowFile(ctx, from, rel)
		if err != nil {
			before = ""
		}

		var after string
		if to != "" {
			after, err = e.git.ShowFile(ctx, to, rel)
			if err != nil {
				after = ""
			}
		} else {
			data, err := os.ReadFile(abs)
			if err != nil {
				// Deleted or unreadable on disk; absence is data.
				data = nil
			}
			after = string(data)
		}

		entries = append(entries, core.DiffEntry{
			RelPath: rel,
			AbsPath: abs,
			Before:  before,
			After:   after,
		})
	}

	return entries, nil
}

// checkpoints lists the lane's history, most recent first.
func (e *engine) checkpoints(ctx context.Context, taskID string, limit int) ([]core.Checkpoint, error) {
	if err := e.switchTask(ctx, taskID); err != nil {
		return nil, err
	}

	lines, err := e.git.Log(ctx, "HEAD", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read lane history: %w", err)
	}

	return parseCheckpoints(taskID, lines), nil
}

// lanes lists the task ids that have lanes in this store.
func (e *engine) lanes(ctx context.Context) ([]string, error) {
	branches, err := e.git.Branches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list task lanes: %w", err)
	}

	var tasks []string
	for _, branch := range branches {
		if task, ok := strings.CutPrefix(branch, lanePrefix); ok {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}
