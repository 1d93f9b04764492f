package strata

import (
	"log/slog"

	"github.com/aretw0/strata/pkg/core"
)

// options holds the internal configuration for a Tracker.
type options struct {
	storageRoot string
	excluder    core.Excluder
	logger      *slog.Logger
	selfHeal    bool
}

// Option defines a functional option for configuring a Tracker.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		storageRoot: "", // resolved via DefaultStorageRoot
		excluder:    nil,
		logger:      nil,
		selfHeal:    true,
	}
}

// WithStorageRoot sets the application storage root under which snapshot
// stores are namespaced. Defaults to DefaultStorageRoot().
func WithStorageRoot(root string) Option {
	return func(o *options) {
		o.storageRoot = root
	}
}

// WithExcluder injects a custom exclusion predicate. Defaults to the
// workspace-aware matcher from pkg/exclusions.
func WithExcluder(e core.Excluder) Option {
	return func(o *options) {
		o.excluder = e
	}
}

// WithLogger sets the logger for the tracker.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSelfHeal toggles the startup scan that restores nested repositories
// left disabled by an interrupted run. Enabled by default.
func WithSelfHeal(enabled bool) Option {
	return func(o *options) {
		o.selfHeal = enabled
	}
}
