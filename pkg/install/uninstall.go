package install

import (
	"os"
	"sort"

	"github.com/arthur-debert/skillsync/pkg/errors"
	"github.com/arthur-debert/skillsync/pkg/logging"
	"github.com/arthur-debert/skillsync/pkg/platform"
	"github.com/arthur-debert/skillsync/pkg/reconcile"
	"github.com/arthur-debert/skillsync/pkg/skill"
)

// UninstallResult aggregates an uninstall run
type UninstallResult struct {
	Skill       string
	Targets     []TargetResult
	RepoRemoved bool
	// EntryRemoved is set when the skill's metadata entry was dropped
	EntryRemoved bool
}

// Uninstall removes the selected targets of a skill and, when
// removeFromRepo says so, the repository copy. The metadata entry
// disappears only when every recorded target is gone and the
// repository copy was removed too; otherwise the entry is pruned.
func (o *Orchestrator) Uninstall(name string, selectedTargets []string, removeFromRepo bool, opts Options) (UninstallResult, error) {
	logger := logging.GetLogger("uninstall")

	if err := skill.ValidateName(name); err != nil {
		return UninstallResult{}, err
	}

	repoPath := o.Repo.SkillPath(name)
	result := UninstallResult{Skill: name}

	states, err := reconcile.Report(repoPath, selectedTargets)
	if err != nil {
		return UninstallResult{}, err
	}
	plan := reconcile.PlanUninstall(states, opts.Overwrite)

	// Deterministic execution order for error attribution
	ordered := make([]string, 0, len(plan))
	for target := range plan {
		ordered = append(ordered, target)
	}
	sort.Strings(ordered)

	for _, target := range ordered {
		outcome := TargetResult{Path: target, State: states[target], Action: plan[target]}
		if !opts.DryRun {
			outcome = o.executeUninstallTarget(name, outcome)
		}
		result.Targets = append(result.Targets, outcome)
	}

	if opts.DryRun {
		return result, nil
	}

	if removeFromRepo {
		if err := o.Repo.Remove(name); err != nil {
			return result, err
		}
		result.RepoRemoved = true
		logger.Info().Str("skill", name).Msg("Repository copy removed")
	}

	if removeFromRepo && o.allTargetsGone(name) {
		if err := o.Store.Remove(name); err != nil {
			logger.Warn().Err(err).Str("skill", name).Msg("Targets removed but metadata entry not dropped")
		} else {
			result.EntryRemoved = true
		}
	}

	return result, nil
}

// executeUninstallTarget performs one planned removal and records it
func (o *Orchestrator) executeUninstallTarget(name string, outcome TargetResult) TargetResult {
	logger := logging.GetLogger("uninstall")

	switch outcome.Action {
	case reconcile.NoopAbsent:
		outcome.Executed = true
	case reconcile.SkipForeign, reconcile.SkipShadowed:
		outcome.Err = errors.Newf(errors.ErrConflictingTarget, "target %s is a %s, refusing without confirmation", outcome.Path, outcome.State)
	case reconcile.RemoveLink:
		if err := os.Remove(outcome.Path); err != nil {
			outcome.Err = errors.Wrapf(err, errors.ErrLinkRemove, "cannot remove link %s", outcome.Path)
			return outcome
		}
		outcome.Executed = true
	case reconcile.RemoveDirectory:
		if err := os.RemoveAll(outcome.Path); err != nil {
			outcome.Err = errors.Wrapf(err, errors.ErrLinkRemove, "cannot remove %s", outcome.Path)
			return outcome
		}
		outcome.Executed = true
	}

	if outcome.Executed && outcome.Action != reconcile.NoopAbsent {
		if err := o.Store.RecordUnlink(name, outcome.Path, false); err != nil {
			logger.Warn().Err(err).Str("target", outcome.Path).Msg("Target removed but not recorded in metadata")
		}
	}
	return outcome
}

// allTargetsGone reports whether no recorded target for the skill still
// exists on disk. Metadata is a hint; the filesystem decides.
func (o *Orchestrator) allTargetsGone(name string) bool {
	record, err := o.Store.Load()
	if err != nil {
		// Unreadable metadata never blocks: live state is authoritative
		return true
	}
	entry, ok := record[name]
	if !ok {
		return true
	}
	for _, target := range entry.Targets {
		if _, err := os.Lstat(target); err == nil {
			return false
		}
	}
	return true
}

// KnownTargets returns the candidate target set for a skill: the
// targets recorded in metadata plus every catalog location for the
// given scope, deduplicated. Reconciliation classifies each candidate
// fresh, so over-approximating is safe.
func (o *Orchestrator) KnownTargets(name string, scope platform.Scope) ([]string, error) {
	seen := make(map[string]bool)
	var targets []string

	record, err := o.Store.Load()
	if err == nil {
		if entry, ok := record[name]; ok {
			for _, target := range entry.Targets {
				if !seen[target] {
					seen[target] = true
					targets = append(targets, target)
				}
			}
		}
	} else if !errors.IsErrorCode(err, errors.ErrMetadataCorrupt) {
		return nil, err
	}

	for _, id := range o.Catalog.IDs() {
		path, err := o.Catalog.SkillTarget(id, scope, o.Home, o.Cwd, name)
		if err != nil {
			return nil, err
		}
		if !seen[path] {
			seen[path] = true
			targets = append(targets, path)
		}
	}
	return targets, nil
}
