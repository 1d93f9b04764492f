package strata

import (
	"log/slog"
	"path/filepath"

	"github.com/aretw0/strata/pkg/core"
)

// partition splits the engine's candidate paths (workspace-relative) into
// the set to stage and the set to hold back. Every verdict is computed
// fresh; nothing is remembered between staging passes.
func partition(root string, candidates []string, excluder core.Excluder, logger *slog.Logger) (included []string, excluded []core.ExclusionDecision) {
	for _, rel := range candidates {
		if rel == "" {
			continue
		}
		abs := filepath.Join(root, filepath.FromSlash(rel))
		decision := excluder.ShouldExclude(abs)
		if decision.Excluded {
			excluded = append(excluded, decision)
			if logger != nil {
				logger.Debug("excluding file from checkpoint", "path", rel, "reason", decision.Reason)
			}
			continue
		}
		included = append(included, rel)
	}
	return included, excluded
}
