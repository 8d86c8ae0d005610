// Package update queries the upstream state of repository-backed
// skills in parallel and applies fast-forward updates to selected ones.
//
// Check results are ephemeral and per-skill: one skill's network
// failure or diverged branch is collected into the report, never
// propagated to its neighbors.
package update

import (
	"context"
	"sync"

	"github.com/arthur-debert/skillsync/pkg/errors"
	"github.com/arthur-debert/skillsync/pkg/gitcli"
	"github.com/arthur-debert/skillsync/pkg/logging"
	"github.com/arthur-debert/skillsync/pkg/repository"
)

// DefaultConcurrency bounds the parallel read-only upstream queries
const DefaultConcurrency = 8

// StatusKind classifies one skill's upstream state
type StatusKind string

const (
	// UpToDate means local and upstream agree
	UpToDate StatusKind = "up-to-date"
	// Behind means the upstream has commits the local copy lacks
	Behind StatusKind = "behind"
	// Diverged means both sides have commits the other lacks
	Diverged StatusKind = "diverged"
	// NotAClone means the skill directory is not a git work tree
	NotAClone StatusKind = "not-a-clone"
	// CheckFailed means the upstream query itself failed
	CheckFailed StatusKind = "check-failed"
)

// Status is the computed upstream state of one skill
type Status struct {
	Kind   StatusKind
	Ahead  int
	Behind int
	Err    error
}

// OutcomeKind classifies the result of one skill's apply phase
type OutcomeKind string

const (
	// Updated means the fast-forward pull brought in new commits
	Updated OutcomeKind = "updated"
	// AlreadyCurrent means there was nothing to pull
	AlreadyCurrent OutcomeKind = "already-current"
	// UpdateDiverged means the branch cannot fast-forward; it is
	// reported, never force-resolved
	UpdateDiverged OutcomeKind = "diverged"
	// UpdateSkipped means the skill is not a clone
	UpdateSkipped OutcomeKind = "skipped"
	// UpdateFailed means the pull failed for this skill alone
	UpdateFailed OutcomeKind = "failed"
)

// Outcome is the result of applying an update to one skill
type Outcome struct {
	Kind OutcomeKind
	Err  error
}

// Checker runs upstream checks and updates against the repository
type Checker struct {
	Git gitcli.Client
	// Concurrency bounds the parallel checks; zero means DefaultConcurrency
	Concurrency int
}

// CheckAll queries the upstream state of every selected skill in
// parallel. A nil or empty selection means every skill in the
// repository. Results are keyed by skill name; callers sort for
// deterministic display.
func (c *Checker) CheckAll(ctx context.Context, repo *repository.Repository, selection []string) (map[string]Status, error) {
	names, err := c.resolveSelection(repo, selection)
	if err != nil {
		return nil, err
	}

	limit := c.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]Status, len(names))
		sem     = make(chan struct{}, limit)
	)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return results, err
		}
		select {
		case <-ctx.Done():
			// Abandoning read-only checks midway is safe; report what
			// we have alongside the cancellation
			wg.Wait()
			return results, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer func() { <-sem }()

			status := c.check(ctx, repo.SkillPath(name))
			mu.Lock()
			results[name] = status
			mu.Unlock()
		}(name)
	}

	wg.Wait()
	return results, nil
}

// check computes the status of a single skill directory
func (c *Checker) check(ctx context.Context, path string) Status {
	if !gitcli.IsClone(path) {
		return Status{Kind: NotAClone}
	}

	if err := c.Git.Fetch(ctx, path); err != nil {
		return Status{Kind: CheckFailed, Err: err}
	}

	branch, err := c.Git.Status(ctx, path)
	if err != nil {
		return Status{Kind: CheckFailed, Err: err}
	}
	if !branch.IsClone {
		return Status{Kind: NotAClone}
	}

	switch {
	case branch.Ahead > 0 && branch.Behind > 0:
		return Status{Kind: Diverged, Ahead: branch.Ahead, Behind: branch.Behind}
	case branch.Behind > 0:
		return Status{Kind: Behind, Behind: branch.Behind}
	default:
		return Status{Kind: UpToDate, Ahead: branch.Ahead}
	}
}

// ApplyUpdates fast-forwards the selected skills one at a time, so a
// failure is attributable to exactly one skill. Each skill is its own
// cancellation boundary: aborting before skill N+1 never re-touches
// skill N.
func (c *Checker) ApplyUpdates(ctx context.Context, repo *repository.Repository, selection []string) (map[string]Outcome, error) {
	logger := logging.GetLogger("update")

	names, err := c.resolveSelection(repo, selection)
	if err != nil {
		return nil, err
	}

	outcomes := make(map[string]Outcome, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcome := c.apply(ctx, repo.SkillPath(name))
		outcomes[name] = outcome
		logger.Info().Str("skill", name).Str("outcome", string(outcome.Kind)).Msg("Update applied")
	}
	return outcomes, nil
}

// apply updates a single skill directory
func (c *Checker) apply(ctx context.Context, path string) Outcome {
	if !gitcli.IsClone(path) {
		return Outcome{Kind: UpdateSkipped}
	}

	if err := c.Git.Fetch(ctx, path); err != nil {
		return Outcome{Kind: UpdateFailed, Err: err}
	}
	branch, err := c.Git.Status(ctx, path)
	if err != nil {
		return Outcome{Kind: UpdateFailed, Err: err}
	}

	switch {
	case branch.Ahead > 0 && branch.Behind > 0:
		return Outcome{Kind: UpdateDiverged, Err: errors.New(errors.ErrMergeConflict, "local and upstream history have diverged")}
	case branch.Behind == 0:
		return Outcome{Kind: AlreadyCurrent}
	}

	if err := c.Git.FastForwardPull(ctx, path); err != nil {
		if errors.IsErrorCode(err, errors.ErrMergeConflict) {
			return Outcome{Kind: UpdateDiverged, Err: err}
		}
		return Outcome{Kind: UpdateFailed, Err: err}
	}
	return Outcome{Kind: Updated}
}

// resolveSelection expands a nil selection to the whole repository and
// validates an explicit one against it
func (c *Checker) resolveSelection(repo *repository.Repository, selection []string) ([]string, error) {
	all, err := repo.List()
	if err != nil {
		return nil, err
	}
	if len(selection) == 0 {
		return all, nil
	}

	known := make(map[string]bool, len(all))
	for _, name := range all {
		known[name] = true
	}
	for _, name := range selection {
		if !known[name] {
			return nil, errors.Newf(errors.ErrSkillNotFound, "skill %q is not in the repository", name)
		}
	}
	return selection, nil
}
