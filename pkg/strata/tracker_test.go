package strata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/strata/pkg/core"
	"github.com/aretw0/strata/pkg/git"
)

// binExcluder excludes *.bin files, standing in for the external
// exclusion predicate in scenarios.
type binExcluder struct{}

func (binExcluder) ShouldExclude(absPath string) core.ExclusionDecision {
	if strings.HasSuffix(absPath, ".bin") {
		return core.ExclusionDecision{Path: absPath, Excluded: true, Reason: "binary payload"}
	}
	return core.ExclusionDecision{Path: absPath}
}

func setupTracker(t *testing.T, taskID string) (*Tracker, string) {
	t.Helper()
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}

	workspace := t.TempDir()
	storageRoot := t.TempDir()

	tracker, err := NewTracker(context.Background(), workspace, taskID,
		WithStorageRoot(storageRoot),
		WithExcluder(binExcluder{}),
	)
	if err != nil {
		t.Fatalf("Failed to create tracker: %v", err)
	}
	return tracker, workspace
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dirs for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func TestTracker_CommitReturnsCheckpoint(t *testing.T) {
	tracker, workspace := setupTracker(t, "alpha")
	ctx := context.Background()

	writeFile(t, workspace, "a.txt", "v1")

	id := tracker.Commit(ctx, "first")
	if id == "" {
		t.Fatal("Commit returned no checkpoint id")
	}

	// Empty checkpoints are valid markers.
	second := tracker.Commit(ctx, "marker")
	if second == "" {
		t.Fatal("empty commit rejected; markers must be allowed")
	}
	if second == id {
		t.Error("marker checkpoint reused the previous id")
	}
}

func TestTracker_InitializeIdempotent(t *testing.T) {
	tracker, workspace := setupTracker(t, "alpha")
	ctx := context.Background()

	writeFile(t, workspace, "a.txt", "v1")
	id := tracker.Commit(ctx, "first")
	if id == "" {
		t.Fatal("Commit failed")
	}

	// Re-attaching to the same store must not recreate or reset history.
	again, err := NewTracker(ctx, workspace, "alpha",
		WithStorageRoot(filepath.Dir(filepath.Dir(tracker.StorePath))),
		WithExcluder(binExcluder{}),
	)
	if err != nil {
		t.Fatalf("Failed to re-attach tracker: %v", err)
	}

	checkpoints, err := again.Checkpoints(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to list checkpoints: %v", err)
	}

	var found bool
	for _, cp := range checkpoints {
		if cp.ID == id {
			found = true
		}
	}
	if !found {
		t.Errorf("existing checkpoint %s lost after re-attach", id)
	}
}

func TestTracker_ForeignWorkspace(t *testing.T) {
	tracker, _ := setupTracker(t, "alpha")
	ctx := context.Background()

	// Tamper with the recorded binding, as if the store belonged to a
	// different directory.
	client := git.NewClient(filepath.Join(tracker.StorePath, ".git"), tracker.Workspace, nil)
	if err := client.ConfigSet(ctx, "core.worktree", "/somewhere/else"); err != nil {
		t.Fatalf("Failed to tamper with binding: %v", err)
	}

	eng := newEngine(tracker.StorePath, tracker.Workspace, binExcluder{}, nil)
	err := eng.initialize(ctx)
	if !errors.Is(err, core.ErrForeignWorkspace) {
		t.Errorf("initialize error = %v; want core.ErrForeignWorkspace", err)
	}
}

func TestTracker_DiffScenario(t *testing.T) {
	tracker, workspace := setupTracker(t, "alpha")
	ctx := context.Background()

	writeFile(t, workspace, "a.txt", "v1")
	writeFile(t, workspace, "b.bin", "blob-1")

	c1 := tracker.Commit(ctx, "baseline state")
	if c1 == "" {
		t.Fatal("Commit failed")
	}

	writeFile(t, workspace, "a.txt", "v2")
	writeFile(t, workspace, "c.txt", "new")
	writeFile(t, workspace, "b.bin", "blob-2")

	entries, err := tracker.Diff(ctx, c1, "")
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}

	byPath := make(map[string]core.DiffEntry, len(entries))
	for _, e := range entries {
		byPath[e.RelPath] = e
	}

	if len(entries) != 2 {
		t.Fatalf("Diff returned %d entries (%v); want 2", len(entries), byPath)
	}

	a, ok := byPath["a.txt"]
	if !ok {
		t.Fatal("a.txt missing from diff")
	}
	if a.Before != "v1" || a.After != "v2" {
		t.Errorf("a.txt diff = %q -> %q; want v1 -> v2", a.Before, a.After)
	}

	c, ok := byPath["c.txt"]
	if !ok {
		t.Fatal("c.txt missing from diff")
	}
	if c.Before != "" || c.After != "new" {
		t.Errorf("c.txt diff = %q -> %q; want \"\" -> new", c.Before, c.After)
	}

	if _, ok := byPath["b.bin"]; ok {
		t.Error("excluded b.bin surfaced in diff")
	}
}

func TestTracker_DiffCleanTreeIsEmpty(t *testing.T) {
	tracker, workspace := setupTracker(t, "alpha")
	ctx := context.Background()

	writeFile(t, workspace, "a.txt", "v1")
	if id := tracker.Commit(ctx, "state"); id == "" {
		t.Fatal("Commit failed")
	}

	entries, err := tracker.Diff(ctx, "", "")
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	// From defaults to history start; the only change since then is a.txt.
	if len(entries) != 1 || entries[0].RelPath != "a.txt" {
		t.Fatalf("Diff from history start = %v; want exactly a.txt", entries)
	}

	latest := tracker.Commit(ctx, "marker")
	entries, err = tracker.Diff(ctx, latest, "")
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Diff on unmodified tree = %v; want empty", entries)
	}
}

func TestTracker_DiffBetweenCheckpoints(t *testing.T) {
	tracker, workspace := setupTracker(t, "alpha")
	ctx := context.Background()

	writeFile(t, workspace, "a.txt", "v1")
	c1 := tracker.Commit(ctx, "v1")

	writeFile(t, workspace, "a.txt", "v2")
	c2 := tracker.Commit(ctx, "v2")

	if c1 == "" || c2 == "" {
		t.Fatal("Commit failed")
	}

	entries, err := tracker.Diff(ctx, c1, c2)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Diff(c1, c2) = %v; want one entry", entries)
	}
	if entries[0].Before != "v1" || entries[0].After != "v2" {
		t.Errorf("a.txt diff = %q -> %q; want v1 -> v2", entries[0].Before, entries[0].After)
	}
}

func TestTracker_ResetRoundTrip(t *testing.T) {
	tracker, workspace := setupTracker(t, "alpha")
	ctx := context.Background()

	writeFile(t, workspace, "a.txt", "v1")
	id := tracker.Commit(ctx, "state")
	if id == "" {
		t.Fatal("Commit failed")
	}

	// Immediate round trip: nothing changed, nothing lost.
	if err := tracker.Reset(ctx, id); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(workspace, "a.txt"))
	if err != nil || string(content) != "v1" {
		t.Fatalf("a.txt after no-op round trip = %q, err %v; want v1", content, err)
	}

	// Destructive rollback: later edits are discarded.
	writeFile(t, workspace, "a.txt", "v2")
	if second := tracker.Commit(ctx, "second"); second == "" {
		t.Fatal("Commit failed")
	}
	writeFile(t, workspace, "a.txt", "v3 uncommitted")

	if err := tracker.Reset(ctx, id); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	content, err = os.ReadFile(filepath.Join(workspace, "a.txt"))
	if err != nil || string(content) != "v1" {
		t.Errorf("a.txt after rollback = %q, err %v; want v1", content, err)
	}
}

func TestTracker_ResetUnknownCheckpoint(t *testing.T) {
	tracker, _ := setupTracker(t, "alpha")
	ctx := context.Background()

	err := tracker.Reset(ctx, "0000000000000000000000000000000000000000")
	if !errors.Is(err, core.ErrResetFailed) {
		t.Errorf("Reset error = %v; want core.ErrResetFailed", err)
	}

	if err := tracker.Reset(ctx, ""); !errors.Is(err, core.ErrResetFailed) {
		t.Errorf("Reset(\"\") error = %v; want core.ErrResetFailed", err)
	}
}

func TestTracker_TaskLanesAreIsolated(t *testing.T) {
	tracker, workspace := setupTracker(t, "alpha")
	ctx := context.Background()

	writeFile(t, workspace, "a.txt", "from alpha")
	alphaCp := tracker.Commit(ctx, "alpha work")
	if alphaCp == "" {
		t.Fatal("Commit failed")
	}

	// Second lane in the same store.
	beta, err := NewTracker(ctx, workspace, "beta",
		WithStorageRoot(filepath.Dir(filepath.Dir(tracker.StorePath))),
		WithExcluder(binExcluder{}),
	)
	if err != nil {
		t.Fatalf("Failed to open beta lane: %v", err)
	}

	writeFile(t, workspace, "a.txt", "from beta")
	betaCp := beta.Commit(ctx, "beta work")
	if betaCp == "" {
		t.Fatal("Commit failed")
	}

	alphaHistory, err := tracker.Checkpoints(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to list alpha history: %v", err)
	}
	for _, cp := range alphaHistory {
		if cp.ID == betaCp {
			t.Error("beta checkpoint leaked into alpha lane")
		}
	}

	tasks, err := tracker.Tasks(ctx)
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}
	var haveAlpha, haveBeta bool
	for _, task := range tasks {
		haveAlpha = haveAlpha || task == "alpha"
		haveBeta = haveBeta || task == "beta"
	}
	if !haveAlpha || !haveBeta {
		t.Errorf("Tasks() = %v; want both alpha and beta", tasks)
	}
}

func TestTracker_ExcludedNeverStaged(t *testing.T) {
	tracker, workspace := setupTracker(t, "alpha")
	ctx := context.Background()

	writeFile(t, workspace, "keep.txt", "ok")
	writeFile(t, workspace, "drop.bin", "secret blob")

	id := tracker.Commit(ctx, "state")
	if id == "" {
		t.Fatal("Commit failed")
	}

	// The excluded file must not exist at the checkpoint.
	client := git.NewClient(filepath.Join(tracker.StorePath, ".git"), workspace, nil)
	content, err := client.ShowFile(ctx, id, "drop.bin")
	if err != nil {
		t.Fatalf("ShowFile failed: %v", err)
	}
	if content != "" {
		t.Errorf("excluded file was captured: %q", content)
	}

	kept, err := client.ShowFile(ctx, id, "keep.txt")
	if err != nil || kept != "ok" {
		t.Errorf("included file missing from checkpoint: %q, err %v", kept, err)
	}
}

func TestTracker_NestedRepoIsolatedDuringCommit(t *testing.T) {
	tracker, workspace := setupTracker(t, "alpha")
	ctx := context.Background()

	nested := filepath.Join(workspace, "third-party", "dep")
	writeFile(t, workspace, "third-party/dep/inner.txt", "inside nested repo")
	if err := os.MkdirAll(filepath.Join(nested, ".git"), 0755); err != nil {
		t.Fatalf("Failed to create nested .git: %v", err)
	}
	writeFile(t, workspace, "third-party/dep/.git/HEAD", "ref: refs/heads/main\n")

	id := tracker.Commit(ctx, "with nested repo")
	if id == "" {
		t.Fatal("Commit failed")
	}

	// Nested metadata restored after the pass.
	if _, err := os.Stat(filepath.Join(nested, ".git")); err != nil {
		t.Errorf("nested .git not restored after commit: %v", err)
	}

	// The nested repo's files were captured; its metadata was not.
	client := git.NewClient(filepath.Join(tracker.StorePath, ".git"), workspace, nil)
	inner, err := client.ShowFile(ctx, id, "third-party/dep/inner.txt")
	if err != nil || inner != "inside nested repo" {
		t.Errorf("nested file not captured: %q, err %v", inner, err)
	}
	head, err := client.ShowFile(ctx, id, "third-party/dep/.git/HEAD")
	if err != nil {
		t.Fatalf("ShowFile failed: %v", err)
	}
	if head != "" {
		t.Error("nested metadata leaked into checkpoint")
	}
}

func TestLaneName(t *testing.T) {
	if got := laneName("abc"); got != "task-abc" {
		t.Errorf("laneName = %q; want task-abc", got)
	}
	if got := laneName("abc"); !strings.HasPrefix(got, lanePrefix) {
		t.Errorf("laneName %q does not carry the lane prefix %q", got, lanePrefix)
	}
}

func TestTracker_TasksIgnoresForeignBranches(t *testing.T) {
	tracker, workspace := setupTracker(t, "alpha")
	ctx := context.Background()

	writeFile(t, workspace, "a.txt", "v1")
	if id := tracker.Commit(ctx, "state"); id == "" {
		t.Fatal("Commit failed")
	}

	// A branch outside the lane namespace must not surface as a task.
	client := git.NewClient(filepath.Join(tracker.StorePath, ".git"), workspace, nil)
	if err := client.CreateBranch(ctx, "scratch"); err != nil {
		t.Fatalf("Failed to create branch: %v", err)
	}

	tasks, err := tracker.Tasks(ctx)
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}
	for _, task := range tasks {
		if task == "scratch" {
			t.Error("non-lane branch reported as a task")
		}
	}
}
