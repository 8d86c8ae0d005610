// Package linkstate classifies the on-disk relationship between a
// target path and the skill source it is expected to link to.
//
// Classification is always computed fresh from the live filesystem.
// Nothing here is cached: a stale answer is exactly what turns a safe
// unlink into a destructive one.
package linkstate

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"

	syncerr "github.com/arthur-debert/skillsync/pkg/errors"
)

// State is the observed relationship between a target path and an
// expected source. Exactly one state holds per observation.
type State string

const (
	// Synced means the target is a symlink resolving to the expected source
	Synced State = "synced"
	// ForeignLink means the target is a symlink resolving elsewhere
	ForeignLink State = "foreign-link"
	// ShadowedDirectory means the target is a real directory or file, not a link
	ShadowedDirectory State = "shadowed"
	// Absent means the target path does not exist
	Absent State = "absent"
	// Broken means the target is a symlink whose destination is gone
	Broken State = "broken"
)

// Classify determines the state of targetPath relative to expectedSource.
//
// The check is Lstat-first so broken links are seen before anything
// tries to follow them. Link destinations are compared after
// canonicalizing both sides: naive string comparison reports false
// foreign links when paths differ only by trailing separators or
// relative components. An absent target is a valid state, not an error.
func Classify(targetPath, expectedSource string) (State, error) {
	info, err := os.Lstat(targetPath)
	if err != nil {
		if notExist(err) {
			return Absent, nil
		}
		return "", syncerr.Wrapf(err, syncerr.ErrFileAccess, "cannot inspect %s", targetPath)
	}

	if info.Mode()&os.ModeSymlink == 0 {
		return ShadowedDirectory, nil
	}

	// EvalSymlinks fails when the link destination does not exist
	resolved, err := filepath.EvalSymlinks(targetPath)
	if err != nil {
		if notExist(err) {
			return Broken, nil
		}
		return "", syncerr.Wrapf(err, syncerr.ErrFileAccess, "cannot resolve link %s", targetPath)
	}

	canonical, err := canonicalize(expectedSource)
	if err != nil {
		// Source gone: the link can only be broken or foreign from
		// its perspective. EvalSymlinks succeeded above, so the link
		// itself is intact and points somewhere else.
		if notExist(err) {
			return ForeignLink, nil
		}
		return "", syncerr.Wrapf(err, syncerr.ErrFileAccess, "cannot resolve source %s", expectedSource)
	}

	if resolved == canonical {
		return Synced, nil
	}
	return ForeignLink, nil
}

// notExist reports whether err means the path does not exist. ENOTDIR
// counts: a regular file occupying a parent component means the target
// itself is not there, and the blocking file surfaces when linking.
func notExist(err error) bool {
	return os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR)
}

// canonicalize returns the absolute, symlink- and dot-resolved form of path
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
