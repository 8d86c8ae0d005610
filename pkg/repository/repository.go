// Package repository manages the central skill repository: the one
// directory tree that owns every skill's authoritative copy. Each
// immediate child directory is one skill; dotted entries belong to
// skillsync itself.
package repository

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/skillsync/pkg/errors"
	"github.com/arthur-debert/skillsync/pkg/gitcli"
	"github.com/arthur-debert/skillsync/pkg/logging"
	"github.com/arthur-debert/skillsync/pkg/skill"
)

// Repository is the central skill store rooted at one directory
type Repository struct {
	root string
	git  gitcli.Client
}

// New returns a repository rooted at root, cloning remote sources
// through git
func New(root string, git gitcli.Client) *Repository {
	return &Repository{root: root, git: git}
}

// Root returns the repository root directory
func (r *Repository) Root() string {
	return r.root
}

// SkillPath returns the authoritative path for a skill name
func (r *Repository) SkillPath(name string) string {
	return filepath.Join(r.root, name)
}

// Has reports whether the repository holds a copy of the skill
func (r *Repository) Has(name string) bool {
	info, err := os.Stat(r.SkillPath(name))
	return err == nil && info.IsDir()
}

// List returns the names of all skills in the repository, sorted.
// Dotted entries and plain files are not skills.
func (r *Repository) List() ([]string, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read repository %s", r.root)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// SourceKind describes what an install source turned out to be
type SourceKind string

const (
	// SourceDirectory is a local skill directory
	SourceDirectory SourceKind = "directory"
	// SourceArchive is a local .skill or .zip archive
	SourceArchive SourceKind = "archive"
	// SourceRemote is a git URL cloned into the repository
	SourceRemote SourceKind = "remote"
)

// Materialized reports where a skill ended up after materialization
type Materialized struct {
	Name string
	Path string
	Kind SourceKind
}

// Materialize places the skill described by source into the repository
// and returns its name and repository path. The skill name is derived
// from the source; an existing copy under that name is a NameConflict
// unless overwrite is authorized, in which case the old copy is
// replaced. Installing a source that already is the repository subtree
// is a reinstall and skips the copy.
func (r *Repository) Materialize(ctx context.Context, source string, overwrite bool) (Materialized, error) {
	logger := logging.GetLogger("repository")

	name, err := skill.NameFromSource(source)
	if err != nil {
		return Materialized{}, err
	}
	dest := r.SkillPath(name)

	kind, err := classifySource(source)
	if err != nil {
		return Materialized{}, err
	}

	if kind == SourceDirectory {
		same, err := samePath(source, dest)
		if err == nil && same {
			logger.Debug().Str("skill", name).Msg("Source is the repository copy, skipping materialization")
			return Materialized{Name: name, Path: dest, Kind: kind}, nil
		}
	}

	if r.Has(name) {
		if !overwrite {
			return Materialized{}, errors.Newf(errors.ErrNameConflict, "skill %q already exists in the repository", name).
				WithDetail("path", dest)
		}
		logger.Info().Str("skill", name).Msg("Replacing existing repository copy")
		if err := os.RemoveAll(dest); err != nil {
			return Materialized{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot remove existing copy of %q", name)
		}
	}

	if err := os.MkdirAll(r.root, 0755); err != nil {
		return Materialized{}, errors.Wrapf(err, errors.ErrDirCreate, "cannot create repository %s", r.root)
	}

	switch kind {
	case SourceRemote:
		if err := r.git.Clone(ctx, source, dest); err != nil {
			return Materialized{}, err
		}
	case SourceArchive:
		if err := extractArchive(source, dest); err != nil {
			return Materialized{}, err
		}
	case SourceDirectory:
		if err := copyTree(source, dest); err != nil {
			return Materialized{}, err
		}
	}

	logger.Info().Str("skill", name).Str("path", dest).Str("kind", string(kind)).Msg("Skill materialized")
	return Materialized{Name: name, Path: dest, Kind: kind}, nil
}

// Remove deletes the repository copy of a skill
func (r *Repository) Remove(name string) error {
	if err := skill.ValidateName(name); err != nil {
		return err
	}
	path := r.SkillPath(name)
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", path)
	}
	if err := os.RemoveAll(path); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot remove %s", path)
	}
	return nil
}

// classifySource decides how a source string should be materialized
func classifySource(source string) (SourceKind, error) {
	if skill.LooksLikeRemote(source) {
		return SourceRemote, nil
	}

	info, err := os.Stat(source)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrSourceInvalid, "source %s does not exist", source)
	}
	if info.IsDir() {
		return SourceDirectory, nil
	}
	if skill.IsArchive(source) {
		return SourceArchive, nil
	}
	return "", errors.Newf(errors.ErrSourceInvalid, "source %s is neither a directory, an archive nor a git URL", source)
}

// samePath reports whether two paths resolve to the same location
func samePath(a, b string) (bool, error) {
	resolvedA, err := filepath.EvalSymlinks(a)
	if err != nil {
		return false, err
	}
	resolvedB, err := filepath.EvalSymlinks(b)
	if err != nil {
		return false, err
	}
	return resolvedA == resolvedB, nil
}
