package strata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/strata/pkg/core"
)

// sensitiveDirNames are the well-known folders under the user's home that
// must never become a snapshot root. Subdirectories of these are fine;
// the guard matches path-exact, not prefix.
var sensitiveDirNames = []string{"Desktop", "Documents", "Downloads"}

// sensitiveRoots returns the resolved set of forbidden roots for the
// current user. Home resolution failures simply shrink the set.
func sensitiveRoots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	roots := []string{filepath.Clean(home)}
	for _, name := range sensitiveDirNames {
		roots = append(roots, filepath.Join(home, name))
	}
	return roots
}

// ValidateWorkspace checks that a candidate root is safe and well-defined
// for snapshotting. It returns the cleaned absolute path, or
// core.ErrInvalidWorkspace when the root is empty, missing, not a
// directory, or exactly one of the sensitive well-known folders.
func ValidateWorkspace(root string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("%w: no workspace root given", core.ErrInvalidWorkspace)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrInvalidWorkspace, err)
	}
	abs = filepath.Clean(abs)

	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s does not exist", core.ErrInvalidWorkspace, abs)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrInvalidWorkspace, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", core.ErrInvalidWorkspace, abs)
	}

	for _, forbidden := range sensitiveRoots() {
		if abs == forbidden {
			return "", fmt.Errorf("%w: %s is a protected directory", core.ErrInvalidWorkspace, abs)
		}
	}

	return abs, nil
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
// It relies on the fact that these commands build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	tempDir := os.TempDir()
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(tempDir)) {
		return true
	}

	if strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe") {
		return true
	}

	return false
}

// DefaultStorageRoot resolves where snapshot stores live when the caller
// does not supply a storage root. Dev runs (go run / go test) are
// re-rooted into a namespaced temp directory so test checkpoints never
// land in the user's real application storage.
func DefaultStorageRoot() (string, error) {
	if IsDevRun() {
		return filepath.Join(os.TempDir(), "strata-dev"), nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve application storage root: %w", err)
	}
	return filepath.Join(base, "strata"), nil
}
