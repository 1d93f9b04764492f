package platform

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aretw0/strata/pkg/strata"
)

// ErrDisabled means checkpoints are switched off in configuration.
// "Tracker absent" is a legitimate state, not a failure: commands report
// the feature as off and carry on.
var ErrDisabled = errors.New("checkpoints are disabled in configuration")

// NewTracker builds a checkpoint tracker for the CLI according to the
// loaded configuration. An empty taskID gets a fresh generated id; the
// caller is expected to surface it so the lane can be reused later.
func NewTracker(ctx context.Context, cfg Config, workspace, taskID string, logger *slog.Logger) (*strata.Tracker, error) {
	if !cfg.Checkpoints.Enabled {
		return nil, ErrDisabled
	}

	if taskID == "" {
		taskID = uuid.NewString()
		if logger != nil {
			logger.Info("no task id given, starting a new lane", "task", taskID)
		}
	}

	opts := []strata.Option{strata.WithLogger(logger)}
	if cfg.StorageRoot != "" {
		opts = append(opts, strata.WithStorageRoot(cfg.StorageRoot))
	}

	return strata.NewTracker(ctx, workspace, taskID, opts...)
}
