// Package strata is the Composition Root for the strata library.
//
// It connects the checkpoint domain (pkg/core, pkg/strata) with its
// collaborators (pkg/git, pkg/exclusions) behind one constructor.
//
// Philosophy:
//
// Strata gives interactive coding tools an independent undo/diff
// mechanism: a sequence of lightweight snapshots of a workspace, taken in
// a shadow Git repository whose metadata lives outside the workspace.
// The user's own version control never sees it, and it never sees the
// user's version control - nested repositories are temporarily hidden
// while a snapshot is taken.
//
// Features:
//
//   - **Shadow store**: one isolated snapshot store per workspace, keyed by
//     a stable identity derived from the workspace path.
//   - **Task lanes**: isolated history lines per logical task; commits and
//     rollbacks on one lane never disturb another.
//   - **Safety guard**: home, desktop, documents and downloads are never
//     accepted as snapshot roots.
//   - **Exclusion predicate**: large binaries and build artifacts stay out
//     of checkpoints; workspaces can extend the pattern set.
//   - **Crash recovery**: interrupted nested-repository isolation is
//     detected via a marker file and healed on the next start.
//
// Usage:
//
//	tracker, err := strata.New(ctx, "/path/to/workspace", "task-id",
//		strata.WithLogger(logger),
//	)
//
//	// Capture current state
//	id := tracker.Commit(ctx, "before refactor")
//
//	// What changed since then?
//	entries, err := tracker.Diff(ctx, id, "")
//
//	// Roll everything back
//	err = tracker.Reset(ctx, id)
package strata
