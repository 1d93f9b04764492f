// Checkpoint is the central entity of the domain.
package core

import "time"

// Checkpoint is an immutable point in a task's shadow history.
// The ID is the underlying engine's commit id and is treated as opaque.
type Checkpoint struct {
	ID        string
	TaskID    string
	Message   string
	CreatedAt time.Time
}

// DiffEntry describes one file that differs between two workspace states.
// Before or After may be empty when the file did not exist on that side
// of the comparison; absence is data, not an error.
type DiffEntry struct {
	RelPath string
	AbsPath string
	Before  string
	After   string
}

// ExclusionDecision is the per-file verdict of the exclusion predicate.
// Decisions are derived fresh on every staging pass; they are never cached
// across checkpoints because workspace contents change between passes.
type ExclusionDecision struct {
	Path     string
	Excluded bool
	Reason   string
}

// Excluder is the external exclusion predicate consumed by the staging
// filter. Implementations receive absolute paths and decide whether the
// file may enter a checkpoint.
type Excluder interface {
	ShouldExclude(absPath string) ExclusionDecision
}
