package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindWorkspaceRoot looks upwards from startDir for a workspace root
// indicator: a .strata.yaml file or a .git directory. If neither is found
// before the filesystem root, startDir itself is the workspace.
func FindWorkspaceRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}

	dir := abs
	for {
		if hasFile(dir, ".strata.yaml") || hasFile(dir, ".git") {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root; treat the start directory itself
			// as the workspace.
			return abs, nil
		}
		dir = parent
	}
}

func hasFile(dir, name string) bool {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return err == nil
}
