package strata

import (
	"github.com/aretw0/introspection"
)

// TrackerState exposes internal state for observability.
type TrackerState struct {
	Workspace string `json:"workspace"`
	TaskID    string `json:"task_id"`
	Identity  string `json:"identity"`
	StorePath string `json:"store_path"`
	Binding   string `json:"working_tree_binding"`
}

// State implements introspection.Introspectable.
func (t *Tracker) State() any {
	return TrackerState{
		Workspace: t.Workspace,
		TaskID:    t.TaskID,
		Identity:  t.Identity,
		StorePath: t.StorePath,
		Binding:   t.engine.binding,
	}
}

// ComponentType implements introspection.Component.
func (t *Tracker) ComponentType() string {
	return "checkpoint-tracker"
}

var _ introspection.Introspectable = (*Tracker)(nil)
var _ introspection.Component = (*Tracker)(nil)
