package install

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/skillsync/pkg/errors"
	"github.com/arthur-debert/skillsync/pkg/linkstate"
	"github.com/arthur-debert/skillsync/pkg/logging"
	"github.com/arthur-debert/skillsync/pkg/platform"
	"github.com/arthur-debert/skillsync/pkg/reconcile"
	"github.com/arthur-debert/skillsync/pkg/skill"
)

// PlatformStatus is one skill's state on one platform
type PlatformStatus struct {
	Platform platform.Platform
	Path     string
	State    linkstate.State
}

// SkillStatus is the full picture for one skill across the repository
// and every inspected platform
type SkillStatus struct {
	Name      string
	InRepo    bool
	RepoPath  string
	Manifest  skill.Manifest
	Platforms []PlatformStatus
}

// SyncedCount returns how many platforms are synced to the repository copy
func (s SkillStatus) SyncedCount() int {
	count := 0
	for _, p := range s.Platforms {
		if p.State == linkstate.Synced {
			count++
		}
	}
	return count
}

// List reports every known skill, the union of the repository contents
// and whatever sits in the inspected platforms' skill directories,
// with a freshly classified state per platform. Metadata plays no part
// here: the listing is pure filesystem truth.
func (o *Orchestrator) List(platforms []platform.Platform, scope platform.Scope) ([]SkillStatus, error) {
	logger := logging.GetLogger("list")

	names, err := o.discoverSkills(platforms, scope)
	if err != nil {
		return nil, err
	}

	var statuses []SkillStatus
	for _, name := range names {
		status := SkillStatus{
			Name:     name,
			RepoPath: o.Repo.SkillPath(name),
			InRepo:   o.Repo.Has(name),
		}

		if status.InRepo {
			manifest, err := skill.ReadManifest(status.RepoPath)
			if err != nil {
				logger.Debug().Err(err).Str("skill", name).Msg("Unreadable skill manifest")
			} else {
				status.Manifest = manifest
			}
		}

		for _, p := range platforms {
			path, err := o.Catalog.SkillTarget(p.ID, scope, o.Home, o.Cwd, name)
			if err != nil {
				return nil, err
			}
			state, err := linkstate.Classify(path, status.RepoPath)
			if err != nil {
				return nil, err
			}
			status.Platforms = append(status.Platforms, PlatformStatus{Platform: p, Path: path, State: state})
		}

		statuses = append(statuses, status)
	}
	return statuses, nil
}

// Status reports one skill across the given platforms, reusing the
// reconciliation report
func (o *Orchestrator) Status(name string, platforms []platform.Platform, scope platform.Scope) (SkillStatus, error) {
	if err := skill.ValidateName(name); err != nil {
		return SkillStatus{}, err
	}

	repoPath := o.Repo.SkillPath(name)
	status := SkillStatus{Name: name, RepoPath: repoPath, InRepo: o.Repo.Has(name)}

	var targets []string
	byPath := make(map[string]platform.Platform)
	for _, p := range platforms {
		path, err := o.Catalog.SkillTarget(p.ID, scope, o.Home, o.Cwd, name)
		if err != nil {
			return SkillStatus{}, err
		}
		targets = append(targets, path)
		byPath[path] = p
	}

	states, err := reconcile.Report(repoPath, targets)
	if err != nil {
		return SkillStatus{}, err
	}
	for _, path := range targets {
		status.Platforms = append(status.Platforms, PlatformStatus{Platform: byPath[path], Path: path, State: states[path]})
	}
	return status, nil
}

// discoverSkills unions the repository listing with the entries of each
// platform's skill directory
func (o *Orchestrator) discoverSkills(platforms []platform.Platform, scope platform.Scope) ([]string, error) {
	seen := make(map[string]bool)

	fromRepo, err := o.Repo.List()
	if err != nil {
		return nil, err
	}
	for _, name := range fromRepo {
		seen[name] = true
	}

	for _, p := range platforms {
		dir, err := o.Catalog.Resolve(p.ID, scope, o.Home, o.Cwd)
		if err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", dir)
		}
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			// Symlinks (ours or foreign) and real directories both count
			info, err := os.Lstat(filepath.Join(dir, name))
			if err != nil {
				continue
			}
			if info.IsDir() || info.Mode()&os.ModeSymlink != 0 {
				seen[name] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
