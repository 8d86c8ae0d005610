// Package gitcli implements the version-control capability skillsync
// needs (clone, upstream status, fast-forward pull) by shelling out
// to the git binary. No transport or protocol logic lives in-process.
package gitcli

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arthur-debert/skillsync/pkg/errors"
	"github.com/arthur-debert/skillsync/pkg/logging"
)

// BranchStatus describes a clone's relationship to its upstream
type BranchStatus struct {
	// IsClone is false when the path is not a git work tree
	IsClone bool
	// Ahead counts local commits the upstream does not have
	Ahead int
	// Behind counts upstream commits the local branch does not have
	Behind int
}

// Client is the version-control collaborator. The production
// implementation shells out to git; tests substitute fakes.
type Client interface {
	// Clone clones url into dest, which must not exist yet
	Clone(ctx context.Context, url, dest string) error
	// Fetch updates remote-tracking refs without touching local history
	Fetch(ctx context.Context, path string) error
	// Status reports the ahead/behind counts against the upstream.
	// It does not fetch; pair with Fetch for fresh numbers.
	Status(ctx context.Context, path string) (BranchStatus, error)
	// FastForwardPull fast-forwards the current branch. A pull that
	// would need a merge fails with MergeConflict rather than merging.
	FastForwardPull(ctx context.Context, path string) error
}

// CLI runs the git binary found on PATH
type CLI struct {
	// GitPath overrides the binary location; empty means "git"
	GitPath string
}

// New returns a Client backed by the git binary
func New() *CLI {
	return &CLI{}
}

func (c *CLI) git(ctx context.Context, dir string, args ...string) (string, string, error) {
	bin := c.GitPath
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger := logging.GetLogger("gitcli")
	logger.Debug().Str("dir", dir).Strs("args", args).Msg("Running git")

	err := cmd.Run()
	return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), err
}

// Clone clones url into dest
func (c *CLI) Clone(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(dest))
	}
	_, stderr, err := c.git(ctx, "", "clone", "--", url, dest)
	if err != nil {
		return errors.Wrapf(err, errors.ErrGitCommand, "git clone %s failed: %s", url, stderr)
	}
	return nil
}

// IsClone reports whether path is a git work tree
func IsClone(path string) bool {
	info, err := os.Stat(filepath.Join(path, ".git"))
	if err != nil {
		return false
	}
	// .git can also be a file for work trees and submodules
	return info.IsDir() || info.Mode().IsRegular()
}

// Fetch updates remote-tracking refs
func (c *CLI) Fetch(ctx context.Context, path string) error {
	_, stderr, err := c.git(ctx, path, "fetch", "--quiet")
	if err != nil {
		return errors.Wrapf(err, errors.ErrGitCommand, "git fetch failed: %s", stderr)
	}
	return nil
}

// Status reports ahead/behind counts via rev-list
func (c *CLI) Status(ctx context.Context, path string) (BranchStatus, error) {
	if !IsClone(path) {
		return BranchStatus{IsClone: false}, nil
	}

	out, stderr, err := c.git(ctx, path, "rev-list", "--left-right", "--count", "@{upstream}...HEAD")
	if err != nil {
		// No upstream configured is a check failure, not a crash
		return BranchStatus{IsClone: true}, errors.Wrapf(err, errors.ErrCheckFailed, "cannot compare with upstream: %s", stderr)
	}

	fields := strings.Fields(out)
	if len(fields) != 2 {
		return BranchStatus{IsClone: true}, errors.Newf(errors.ErrCheckFailed, "unexpected rev-list output %q", out)
	}
	behind, err := strconv.Atoi(fields[0])
	if err != nil {
		return BranchStatus{IsClone: true}, errors.Wrapf(err, errors.ErrCheckFailed, "unexpected rev-list output %q", out)
	}
	ahead, err := strconv.Atoi(fields[1])
	if err != nil {
		return BranchStatus{IsClone: true}, errors.Wrapf(err, errors.ErrCheckFailed, "unexpected rev-list output %q", out)
	}

	return BranchStatus{IsClone: true, Ahead: ahead, Behind: behind}, nil
}

// FastForwardPull pulls with --ff-only so a diverged branch fails
// instead of merging
func (c *CLI) FastForwardPull(ctx context.Context, path string) error {
	_, stderr, err := c.git(ctx, path, "pull", "--ff-only", "--quiet")
	if err != nil {
		lowered := strings.ToLower(stderr)
		if strings.Contains(lowered, "not possible to fast-forward") ||
			strings.Contains(lowered, "divergent") ||
			strings.Contains(lowered, "diverging") {
			return errors.Newf(errors.ErrMergeConflict, "branch has diverged from upstream: %s", stderr)
		}
		return errors.Wrapf(err, errors.ErrGitCommand, "git pull failed: %s", stderr)
	}
	return nil
}

var _ Client = (*CLI)(nil)
