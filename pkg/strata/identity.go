package strata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"
)

// idWidth is the fixed decimal width of a workspace identity.
const idWidth = 13

// WorkspaceID derives the stable identity used to namespace a workspace's
// snapshot store. It is a pure function of the cleaned path string: the
// same path always yields the same identity across restarts.
//
// The 64-bit hash is folded into a fixed-width decimal string. Collisions
// across distinct paths are astronomically unlikely but not impossible;
// a collision would silently share a store between two workspaces, which
// the engine's working-tree binding check then rejects as foreign.
func WorkspaceID(root string) string {
	sum := xxh3.HashString(filepath.Clean(root))
	return fmt.Sprintf("%0*d", idWidth, sum%1e13)
}

// StorePath resolves the on-disk location of a workspace's snapshot store
// under the application storage root, creating intermediate directories
// as needed. Idempotent: an existing store is left untouched.
func StorePath(storageRoot, identity string) (string, error) {
	path := filepath.Join(storageRoot, "checkpoints", identity)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot store directory: %w", err)
	}
	return path, nil
}
