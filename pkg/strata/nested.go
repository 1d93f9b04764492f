package strata

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// disabledSuffix is appended to nested .git directories to hide them from
// the shadow engine's file discovery. The rename is reversed after every
// staging pass.
const disabledSuffix = "_strata_disabled"

// markerFile lives inside the snapshot store while nested repositories
// are disabled. If the process dies mid-operation the marker survives,
// and Recover restores the repositories on the next tracker construction.
const markerFile = "isolation.yaml"

// isolationMarker is the on-disk marker payload.
type isolationMarker struct {
	Workspace string    `yaml:"workspace"`
	PID       int       `yaml:"pid"`
	StartedAt time.Time `yaml:"started_at"`
}

// Isolator temporarily hides version-control metadata directories nested
// inside a workspace so the flat shadow engine can traverse the whole
// tree. Disable/Enable must always run as a pair around staging.
type Isolator struct {
	Root   string
	Logger *slog.Logger

	markerPath string
}

// NewIsolator creates an isolator for the given workspace root whose
// marker lives inside storePath.
func NewIsolator(root, storePath string, logger *slog.Logger) *Isolator {
	return &Isolator{
		Root:       root,
		Logger:     logger,
		markerPath: filepath.Join(storePath, markerFile),
	}
}

// Disable renames every nested .git directory strictly below the root.
// The root's own .git is left alone. Individual rename failures are
// logged and skipped; one locked directory must not block the rest.
func (i *Isolator) Disable() error {
	if err := i.writeMarker(); err != nil && i.Logger != nil {
		i.Logger.Warn("failed to write isolation marker", "error", err)
	}

	for _, dir := range i.findNested(".git") {
		target := dir + disabledSuffix
		if err := os.Rename(dir, target); err != nil {
			if i.Logger != nil {
				i.Logger.Warn("failed to disable nested repository", "path", dir, "error", err)
			}
			continue
		}
		if i.Logger != nil {
			i.Logger.Debug("disabled nested repository", "path", dir)
		}
	}
	return nil
}

// Enable reverses every rename Disable performed that it can still find,
// then removes the marker. Safe to call when nothing is disabled.
func (i *Isolator) Enable() error {
	for _, dir := range i.findNested(".git" + disabledSuffix) {
		target := dir[:len(dir)-len(disabledSuffix)]
		if err := os.Rename(dir, target); err != nil {
			if i.Logger != nil {
				i.Logger.Warn("failed to re-enable nested repository", "path", dir, "error", err)
			}
			continue
		}
		if i.Logger != nil {
			i.Logger.Debug("re-enabled nested repository", "path", target)
		}
	}

	if err := os.Remove(i.markerPath); err != nil && !os.IsNotExist(err) {
		if i.Logger != nil {
			i.Logger.Warn("failed to remove isolation marker", "error", err)
		}
	}
	return nil
}

// Recover restores repositories left disabled by an interrupted run. It
// only acts when the marker file is present, so a clean workspace costs
// one stat call.
func (i *Isolator) Recover() {
	if _, err := os.Stat(i.markerPath); err != nil {
		return
	}

	var marker isolationMarker
	if data, err := os.ReadFile(i.markerPath); err == nil {
		_ = yaml.Unmarshal(data, &marker)
	}
	if i.Logger != nil {
		i.Logger.Warn("recovering from interrupted isolation",
			"workspace", i.Root, "pid", marker.PID, "started_at", marker.StartedAt)
	}

	_ = i.Enable()
}

func (i *Isolator) writeMarker() error {
	data, err := yaml.Marshal(isolationMarker{
		Workspace: i.Root,
		PID:       os.Getpid(),
		StartedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return os.WriteFile(i.markerPath, data, 0644)
}

// findNested collects directories with the given name strictly below the
// root. It does not descend into matches, and it never returns the
// root's own entry.
func (i *Isolator) findNested(name string) []string {
	var found []string

	err := filepath.WalkDir(i.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree; skip it rather than aborting the scan.
			if i.Logger != nil {
				i.Logger.Debug("skipping unreadable path during scan", "path", path, "error", err)
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() != name {
			// Never walk into live metadata directories.
			if d.Name() == ".git" || d.Name() == ".git"+disabledSuffix {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Dir(path) == i.Root && name == ".git" {
			// The workspace's own repository is not nested.
			return filepath.SkipDir
		}
		found = append(found, path)
		return filepath.SkipDir
	})
	if err != nil && i.Logger != nil {
		i.Logger.Warn("nested repository scan incomplete", "error", err)
	}

	return found
}
