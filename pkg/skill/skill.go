// Package skill holds the naming rules for skills and reads the
// optional SKILL.md manifest that describes one.
package skill

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/skillsync/pkg/errors"
)

// ArchiveExtensions are the archive suffixes accepted as skill sources
var ArchiveExtensions = []string{".skill", ".zip"}

var validName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateName checks that a skill name is a non-empty filesystem-safe
// token. Names never contain path separators and never start with a dot
// (dotted entries in the repository are skillsync's own files).
func ValidateName(name string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "skill name cannot be empty")
	}
	if !validName.MatchString(name) {
		return errors.Newf(errors.ErrInvalidInput, "skill name %q contains unsafe characters", name)
	}
	return nil
}

// IsArchive reports whether path looks like a skill archive
func IsArchive(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range ArchiveExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// NameFromSource derives the skill name from an install source: the
// basename for a directory, the basename minus extension for an
// archive, and the repository segment for a git URL.
func NameFromSource(source string) (string, error) {
	if LooksLikeRemote(source) {
		return NameFromURL(source)
	}

	base := filepath.Base(filepath.Clean(source))
	if IsArchive(base) {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := ValidateName(base); err != nil {
		return "", err
	}
	return base, nil
}

// NameFromURL parses the repository name out of a git remote URL,
// handling https, ssh scp-like syntax and a trailing ".git".
func NameFromURL(url string) (string, error) {
	trimmed := strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	trimmed = strings.TrimSuffix(trimmed, "/")

	// scp-like git@host:org/repo
	if idx := strings.LastIndex(trimmed, ":"); idx >= 0 && !strings.Contains(trimmed[idx:], "/") {
		trimmed = trimmed[idx+1:]
	}

	name := trimmed
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		name = trimmed[idx+1:]
	}
	if err := ValidateName(name); err != nil {
		return "", errors.Wrapf(err, errors.ErrSourceInvalid, "cannot derive skill name from %q", url)
	}
	return name, nil
}

// LooksLikeRemote reports whether source should be treated as a git
// remote: a URL scheme git understands, or scp-like user@host:path.
func LooksLikeRemote(source string) bool {
	for _, prefix := range []string{"http://", "https://", "git://", "ssh://"} {
		if strings.HasPrefix(source, prefix) {
			return true
		}
	}
	// scp-like syntax: user@host:path
	if at := strings.Index(source, "@"); at > 0 {
		rest := source[at+1:]
		if colon := strings.Index(rest, ":"); colon > 0 && !strings.Contains(rest[:colon], "/") {
			return true
		}
	}
	return false
}
