// Package exclusions implements the exclusion predicate for checkpoint
// staging: given an absolute path inside a workspace, decide whether the
// file may be captured, and why not when it may not.
package exclusions

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/strata/pkg/core"
)

// ConfigFile is the optional per-workspace config read by
// LoadLargeFilePatterns. Only the exclude list is consumed here.
const ConfigFile = ".strata.yaml"

// workspaceConfig mirrors the subset of .strata.yaml this package reads.
type workspaceConfig struct {
	Exclude []string `yaml:"exclude"`
}

// LoadLargeFilePatterns returns the effective exclusion globs for a
// workspace: the builtin set plus any patterns from .strata.yaml at the
// root. A missing or malformed config falls back to the builtin set.
func LoadLargeFilePatterns(root string, logger *slog.Logger) []string {
	patterns := make([]string, len(LargeBinaryPatterns))
	copy(patterns, LargeBinaryPatterns)

	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if err != nil {
		return patterns
	}

	var cfg workspaceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		if logger != nil {
			logger.Warn("ignoring malformed workspace config", "file", ConfigFile, "error", err)
		}
		return patterns
	}

	return append(patterns, cfg.Exclude...)
}

// Matcher is the default core.Excluder. It matches workspace-relative
// paths against a glob set.
type Matcher struct {
	Root     string
	patterns []string
	logger   *slog.Logger
}

// NewMatcher builds a Matcher for the workspace rooted at root using the
// given patterns. Pass the result of LoadLargeFilePatterns for the
// standard behavior.
func NewMatcher(root string, patterns []string, logger *slog.Logger) *Matcher {
	return &Matcher{
		Root:     root,
		patterns: patterns,
		logger:   logger,
	}
}

// ShouldExclude implements core.Excluder. Paths outside the workspace
// root are excluded outright; everything else is matched relative to the
// root, with forward slashes, against each pattern in order.
func (m *Matcher) ShouldExclude(absPath string) core.ExclusionDecision {
	rel, err := filepath.Rel(m.Root, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return core.ExclusionDecision{
			Path:     absPath,
			Excluded: true,
			Reason:   "outside workspace root",
		}
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range m.patterns {
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			if m.logger != nil {
				m.logger.Warn("invalid exclusion pattern", "pattern", pattern, "error", err)
			}
			continue
		}
		if ok {
			return core.ExclusionDecision{
				Path:     absPath,
				Excluded: true,
				Reason:   fmt.Sprintf("matches pattern %q", pattern),
			}
		}
	}

	return core.ExclusionDecision{Path: absPath}
}

var _ core.Excluder = (*Matcher)(nil)
