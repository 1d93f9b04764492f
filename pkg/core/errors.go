package core

import "errors"

// Common errors.
var (
	// ErrInvalidWorkspace means the candidate root is missing or is a
	// sensitive well-known directory (home, desktop, documents, downloads).
	ErrInvalidWorkspace = errors.New("workspace root is invalid for snapshotting")

	// ErrEngineUnavailable means the underlying version-control engine
	// cannot be invoked at all.
	ErrEngineUnavailable = errors.New("snapshot engine is unavailable")

	// ErrForeignWorkspace means an existing snapshot store is bound to a
	// different workspace root. The store is never reused across roots.
	ErrForeignWorkspace = errors.New("snapshot store is bound to a different workspace")

	// ErrResetFailed means a rollback to a prior checkpoint did not
	// complete. Reset is destructive and never fails silently.
	ErrResetFailed = errors.New("reset to checkpoint failed")
)
