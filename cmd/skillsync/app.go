package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/skillsync/pkg/config"
	"github.com/arthur-debert/skillsync/pkg/errors"
	"github.com/arthur-debert/skillsync/pkg/gitcli"
	"github.com/arthur-debert/skillsync/pkg/install"
	"github.com/arthur-debert/skillsync/pkg/metadata"
	"github.com/arthur-debert/skillsync/pkg/output"
	"github.com/arthur-debert/skillsync/pkg/platform"
	"github.com/arthur-debert/skillsync/pkg/repository"
	"github.com/arthur-debert/skillsync/pkg/update"
)

// app bundles the wired-up components every command needs
type app struct {
	cfg     config.Config
	catalog *platform.Catalog
	repo    *repository.Repository
	store   *metadata.Store
	orch    *install.Orchestrator
	checker *update.Checker
	home    string
	cwd     string
}

// newApp loads configuration and wires the component graph. Commands
// call this at run time, not at construction time, so completion and
// help never touch the filesystem.
func newApp() (*app, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot determine home directory")
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot determine working directory")
	}

	cfg, err := config.Load(config.Path(), home)
	if err != nil {
		return nil, err
	}

	git := gitcli.New()
	catalog := cfg.Catalog()
	repo := repository.New(cfg.RepoRoot, git)
	store := metadata.NewStore(cfg.RepoRoot)

	return &app{
		cfg:     cfg,
		catalog: catalog,
		repo:    repo,
		store:   store,
		orch: &install.Orchestrator{
			Repo:    repo,
			Store:   store,
			Catalog: catalog,
			Home:    home,
			Cwd:     cwd,
		},
		checker: &update.Checker{
			Git:         git,
			Concurrency: cfg.UpdateConcurrency,
		},
		home: home,
		cwd:  cwd,
	}, nil
}

// scope resolves the --local/--global flags against the configured default
func (a *app) scope(local, global bool) platform.Scope {
	switch {
	case local:
		return platform.ScopeLocal
	case global:
		return platform.ScopeGlobal
	default:
		return a.cfg.Scope()
	}
}

// platforms resolves the --platform selection, falling back to the
// detected ones, then to the whole catalog when nothing is detected
func (a *app) platforms(selected []string) []string {
	if len(selected) > 0 {
		return selected
	}
	if detected := a.catalog.DetectIDs(a.home); len(detected) > 0 {
		return detected
	}
	return a.catalog.IDs()
}

// renderer builds the output renderer from the root --format flag
func renderer(cmd *cobra.Command) *output.Renderer {
	name, _ := cmd.Root().PersistentFlags().GetString("format")
	format, err := output.ParseFormat(name)
	if err != nil {
		format = output.FormatAuto
	}
	return output.NewRenderer(format.Resolve(os.Stdout))
}

// rootFlags reads the shared policy flags off the root command
func rootFlags(cmd *cobra.Command) (dryRun, force bool) {
	dryRun, _ = cmd.Root().PersistentFlags().GetBool("dry-run")
	force, _ = cmd.Root().PersistentFlags().GetBool("force")
	return dryRun, force
}

// skillNamesCompletion completes skill names from the repository
func skillNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	a, err := newApp()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names, err := a.repo.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
