// Package reconcile computes the true relationship between the central
// repository and a set of targets, and plans which filesystem mutations
// are safe for install and uninstall.
//
// Planning is pure: it takes observed states and a confirmation signal
// and returns actions. It never touches the filesystem itself, and it
// never plans a destructive action without the confirmation signal.
package reconcile

import (
	"github.com/arthur-debert/skillsync/pkg/linkstate"
)

// Action is one planned mutation for a single target
type Action string

const (
	// CreateLink creates a fresh symlink (target absent or broken)
	CreateLink Action = "create-link"
	// ReplaceForeignLink removes a link pointing elsewhere and relinks.
	// Requires confirmation.
	ReplaceForeignLink Action = "replace-foreign-link"
	// SkipShadowed leaves a real directory or file untouched. Planned
	// when a shadowed target has no confirmation to replace it.
	SkipShadowed Action = "skip-shadowed"
	// ReplaceShadowed removes a real directory or file and relinks.
	// Requires confirmation; deleting real content is irreversible.
	ReplaceShadowed Action = "replace-shadowed"
	// AlreadySynced is a no-op: the target already points at the source
	AlreadySynced Action = "already-synced"
	// SkipForeign leaves a foreign link untouched for lack of confirmation
	SkipForeign Action = "skip-foreign"

	// RemoveLink unlinks a symlink (synced, foreign or broken)
	RemoveLink Action = "remove-link"
	// RemoveDirectory deletes a real directory or file. Distinct from
	// RemoveLink because it destroys content, not just a pointer.
	RemoveDirectory Action = "remove-directory"
	// NoopAbsent is a no-op: nothing exists at the target
	NoopAbsent Action = "noop-absent"
)

// Destructive reports whether executing the action would destroy
// something skillsync did not create
func (a Action) Destructive() bool {
	switch a {
	case ReplaceForeignLink, ReplaceShadowed, RemoveDirectory:
		return true
	}
	return false
}

// Report classifies every target against the skill's source path. The
// result is derived fresh from the filesystem on every call.
func Report(sourcePath string, targets []string) (map[string]linkstate.State, error) {
	states := make(map[string]linkstate.State, len(targets))
	for _, target := range targets {
		state, err := linkstate.Classify(target, sourcePath)
		if err != nil {
			return nil, err
		}
		states[target] = state
	}
	return states, nil
}

// PlanInstall decides, per target, what install may do given the
// observed states. Absent and broken targets are always safe to
// (re)link. Foreign links and shadowed directories are conflicts: they
// are only replaced when confirmOverwrite is set, otherwise the plan
// records a skip that the orchestrator surfaces as ConflictingTarget.
func PlanInstall(states map[string]linkstate.State, confirmOverwrite bool) map[string]Action {
	plan := make(map[string]Action, len(states))
	for target, state := range states {
		switch state {
		case linkstate.Synced:
			plan[target] = AlreadySynced
		case linkstate.Absent, linkstate.Broken:
			plan[target] = CreateLink
		case linkstate.ForeignLink:
			if confirmOverwrite {
				plan[target] = ReplaceForeignLink
			} else {
				plan[target] = SkipForeign
			}
		case linkstate.ShadowedDirectory:
			if confirmOverwrite {
				plan[target] = ReplaceShadowed
			} else {
				plan[target] = SkipShadowed
			}
		}
	}
	return plan
}

// PlanUninstall decides, per selected target, what uninstall may do.
// Synced and broken links belong to skillsync and are always removable.
// A foreign link or a shadowed directory was not created by skillsync:
// both stay untouched unless confirmRemove is set, and a shadowed
// directory removal is planned as the distinct RemoveDirectory action
// since deleting real content is irreversible.
func PlanUninstall(states map[string]linkstate.State, confirmRemove bool) map[string]Action {
	plan := make(map[string]Action, len(states))
	for target, state := range states {
		switch state {
		case linkstate.Synced, linkstate.Broken:
			plan[target] = RemoveLink
		case linkstate.ForeignLink:
			if confirmRemove {
				plan[target] = RemoveLink
			} else {
				plan[target] = SkipForeign
			}
		case linkstate.ShadowedDirectory:
			if confirmRemove {
				plan[target] = RemoveDirectory
			} else {
				plan[target] = SkipShadowed
			}
		case linkstate.Absent:
			plan[target] = NoopAbsent
		}
	}
	return plan
}
