// Package install composes the platform catalog, the reconciliation
// engine and the metadata store into the install and uninstall
// operations.
//
// Mutations execute before they are recorded, and each target's outcome
// is isolated: one failing target never aborts the batch. A crash
// between execution and recording leaves a harmless discrepancy that
// the next reconciliation recomputes away.
package install

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/skillsync/pkg/errors"
	"github.com/arthur-debert/skillsync/pkg/linkstate"
	"github.com/arthur-debert/skillsync/pkg/logging"
	"github.com/arthur-debert/skillsync/pkg/metadata"
	"github.com/arthur-debert/skillsync/pkg/platform"
	"github.com/arthur-debert/skillsync/pkg/reconcile"
	"github.com/arthur-debert/skillsync/pkg/repository"
	"github.com/arthur-debert/skillsync/pkg/skill"
)

// Orchestrator wires the repository, catalog and metadata store
// together. Home and cwd are injected so nothing below the CLI reads
// ambient process state.
type Orchestrator struct {
	Repo    *repository.Repository
	Store   *metadata.Store
	Catalog *platform.Catalog
	Home    string
	Cwd     string
}

// Options carries the per-invocation policy signals
type Options struct {
	// Overwrite is the explicit confirmation to replace foreign links
	// and shadowed directories, and to overwrite a repository copy on
	// name conflict. Without it conflicts are reported, never resolved.
	Overwrite bool
	// DryRun plans and reports without mutating anything
	DryRun bool
}

// TargetResult is the outcome for one target path
type TargetResult struct {
	Platform string
	Path     string
	State    linkstate.State
	Action   reconcile.Action
	Executed bool
	Err      error
}

// Failed reports whether the target ended in an error
func (t TargetResult) Failed() bool {
	return t.Err != nil
}

// Conflicted reports whether the target was skipped for lack of confirmation
func (t TargetResult) Conflicted() bool {
	return errors.IsErrorCode(t.Err, errors.ErrConflictingTarget)
}

// InstallResult aggregates an install run
type InstallResult struct {
	Skill    string
	RepoPath string
	Targets  []TargetResult
}

// Conflicts returns the targets skipped for lack of confirmation
func (r InstallResult) Conflicts() []TargetResult {
	var out []TargetResult
	for _, target := range r.Targets {
		if target.Conflicted() {
			out = append(out, target)
		}
	}
	return out
}

// Install materializes source into the repository and links it into the
// selected platforms at the given scope.
func (o *Orchestrator) Install(ctx context.Context, source string, scope platform.Scope, platformIDs []string, opts Options) (InstallResult, error) {
	logger := logging.GetLogger("install")

	// Resolver-level failures are fatal before anything mutates
	targets, err := o.resolveTargets(platformIDs, scope)
	if err != nil {
		return InstallResult{}, err
	}

	if opts.DryRun {
		return o.planOnly(source, targets, opts)
	}

	materialized, err := o.Repo.Materialize(ctx, source, opts.Overwrite)
	if err != nil {
		return InstallResult{}, err
	}

	result := InstallResult{Skill: materialized.Name, RepoPath: materialized.Path}

	for _, target := range targets {
		path := filepath.Join(target.dir, materialized.Name)
		outcome := o.executeInstallTarget(materialized, target.platformID, path, opts)
		result.Targets = append(result.Targets, outcome)

		// AlreadySynced is recorded too: the link provably exists, and
		// re-recording heals a record lost between linking and saving
		if outcome.Executed && outcome.Err == nil {
			if err := o.Store.RecordLink(materialized.Name, materialized.Path, path); err != nil {
				logger.Warn().Err(err).Str("target", path).Msg("Link created but not recorded in metadata")
			}
		}
	}

	return result, nil
}

// executeInstallTarget classifies, plans and executes one target
func (o *Orchestrator) executeInstallTarget(m repository.Materialized, platformID, path string, opts Options) TargetResult {
	logger := logging.GetLogger("install")
	result := TargetResult{Platform: platformID, Path: path}

	state, err := linkstate.Classify(path, m.Path)
	if err != nil {
		result.Err = err
		return result
	}
	result.State = state

	plan := reconcile.PlanInstall(map[string]linkstate.State{path: state}, opts.Overwrite)
	action := plan[path]
	result.Action = action

	switch action {
	case reconcile.AlreadySynced:
		result.Executed = true
	case reconcile.SkipForeign, reconcile.SkipShadowed:
		result.Err = errors.Newf(errors.ErrConflictingTarget, "target %s is a %s, refusing without confirmation", path, state)
	case reconcile.CreateLink, reconcile.ReplaceForeignLink, reconcile.ReplaceShadowed:
		if err := o.createLink(m.Path, path, state); err != nil {
			result.Err = err
			return result
		}
		result.Executed = true
		logger.Info().Str("skill", m.Name).Str("target", path).Str("action", string(action)).Msg("Target linked")
	}
	return result
}

// createLink clears whatever the plan authorized clearing, ensures the
// parent directory and creates the symlink
func (o *Orchestrator) createLink(source, path string, prior linkstate.State) error {
	switch prior {
	case linkstate.ForeignLink, linkstate.Broken:
		if err := os.Remove(path); err != nil {
			return errors.Wrapf(err, errors.ErrLinkCreate, "cannot remove old link %s", path)
		}
	case linkstate.ShadowedDirectory:
		if err := os.RemoveAll(path); err != nil {
			return errors.Wrapf(err, errors.ErrLinkCreate, "cannot remove %s", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(path))
	}
	if err := os.Symlink(source, path); err != nil {
		return errors.Wrapf(err, errors.ErrLinkCreate, "cannot link %s", path)
	}
	return nil
}

// planOnly reports what install would do without mutating anything
func (o *Orchestrator) planOnly(source string, targets []resolvedTarget, opts Options) (InstallResult, error) {
	name, err := skill.NameFromSource(source)
	if err != nil {
		return InstallResult{}, err
	}
	repoPath := o.Repo.SkillPath(name)
	result := InstallResult{Skill: name, RepoPath: repoPath}

	for _, target := range targets {
		path := filepath.Join(target.dir, name)
		state, err := linkstate.Classify(path, repoPath)
		outcome := TargetResult{Platform: target.platformID, Path: path, State: state, Err: err}
		if err == nil {
			plan := reconcile.PlanInstall(map[string]linkstate.State{path: state}, opts.Overwrite)
			outcome.Action = plan[path]
		}
		result.Targets = append(result.Targets, outcome)
	}
	return result, nil
}

type resolvedTarget struct {
	platformID string
	dir        string
}

// resolveTargets maps the platform selection to target directories,
// deduplicated and in catalog order
func (o *Orchestrator) resolveTargets(platformIDs []string, scope platform.Scope) ([]resolvedTarget, error) {
	seen := make(map[string]bool)
	var targets []resolvedTarget
	for _, id := range platformIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		dir, err := o.Catalog.Resolve(id, scope, o.Home, o.Cwd)
		if err != nil {
			return nil, err
		}
		targets = append(targets, resolvedTarget{platformID: id, dir: dir})
	}
	sort.SliceStable(targets, func(i, j int) bool {
		return catalogIndex(o.Catalog, targets[i].platformID) < catalogIndex(o.Catalog, targets[j].platformID)
	})
	return targets, nil
}

func catalogIndex(c *platform.Catalog, id string) int {
	for i, known := range c.IDs() {
		if known == id {
			return i
		}
	}
	return len(c.IDs())
}
