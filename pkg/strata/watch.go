package strata

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// WatchConfig tunes the auto-checkpoint loop.
type WatchConfig struct {
	// Debounce is how long the workspace must stay quiet after an edit
	// before a checkpoint is taken.
	Debounce time.Duration

	// MinInterval is the floor between two automatic checkpoints, so a
	// steady stream of edits cannot flood the lane.
	MinInterval time.Duration
}

// DefaultWatchConfig returns the standard watch tuning.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		Debounce:    2 * time.Second,
		MinInterval: 30 * time.Second,
	}
}

// Watch observes the workspace and records a checkpoint whenever edits
// settle. It blocks until ctx is cancelled. Commits stay serialized: if
// one is still running when the next window fires, the window is skipped
// and retried after the following event.
func (t *Tracker) Watch(ctx context.Context, cfg WatchConfig) error {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultWatchConfig().Debounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := t.addRecursive(watcher); err != nil {
		return err
	}

	var (
		committing atomic.Bool
		lastCommit time.Time
		timer      = time.NewTimer(cfg.Debounce)
	)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if t.ignoreEvent(event) {
				continue
			}
			// New directories must join the watch set.
			if event.Has(fsnotify.Create) {
				t.addIfDir(watcher, event.Name)
			}
			if t.logger != nil {
				t.logger.Debug("workspace event", "name", event.Name, "op", event.Op.String())
			}
			pending = true
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(cfg.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if t.logger != nil {
				t.logger.Error("watcher error", "error", err)
			}

		case <-timer.C:
			if !pending {
				continue
			}
			if time.Since(lastCommit) < cfg.MinInterval {
				timer.Reset(cfg.MinInterval - time.Since(lastCommit))
				continue
			}
			if !committing.CompareAndSwap(false, true) {
				// Previous commit still running; try again next window.
				timer.Reset(cfg.Debounce)
				continue
			}
			pending = false
			lastCommit = time.Now()

			lifecycle.Go(ctx, func(ctx context.Context) error {
				defer committing.Store(false)
				t.Commit(ctx, "auto checkpoint")
				return nil
			}, lifecycle.WithErrorHandler(func(err error) {
				if t.logger != nil {
					t.logger.Error("auto checkpoint panic", "error", err)
				}
			}))
		}
	}
}

// ignoreEvent filters events from the shadow store, nested metadata and
// chmod-only noise.
func (t *Tracker) ignoreEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return true
	}
	name := filepath.ToSlash(event.Name)
	return strings.Contains(name, "/.git/") ||
		strings.Contains(name, "/.git"+disabledSuffix+"/") ||
		strings.HasSuffix(name, "/.git")
}

// addRecursive registers the workspace tree with the watcher, skipping
// version-control metadata.
func (t *Tracker) addRecursive(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(t.Workspace, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" || d.Name() == ".git"+disabledSuffix {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil && t.logger != nil {
			t.logger.Debug("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// addIfDir adds a newly created directory (and its children) to the
// watch set.
func (t *Tracker) addIfDir(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	base := filepath.Base(path)
	if base == ".git" || base == ".git"+disabledSuffix {
		return
	}
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" || d.Name() == ".git"+disabledSuffix {
			return filepath.SkipDir
		}
		_ = watcher.Add(p)
		return nil
	})
}
