package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/skillsync/pkg/install"
	"github.com/arthur-debert/skillsync/pkg/platform"
)

func newUninstallCmd() *cobra.Command {
	var (
		platforms []string
		local     bool
		global    bool
		fromRepo  bool
	)

	cmd := &cobra.Command{
		Use:               "uninstall <skill>...",
		Short:             MsgUninstallShort,
		Long:              MsgUninstallLong,
		GroupID:           "core",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: skillNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			dryRun, force := rootFlags(cmd)
			scope := a.scope(local, global)
			r := renderer(cmd)

			log.Info().
				Strs("skills", args).
				Str("scope", string(scope)).
				Bool("from_repo", fromRepo).
				Msg("Uninstalling skills")

			opts := install.Options{Overwrite: force, DryRun: dryRun}
			var failed error
			for i, name := range args {
				targets, err := a.targetsFor(name, platforms, scope)
				if err != nil {
					failed = err
					cmd.PrintErrf("Error: %s: %v\n", name, err)
					continue
				}
				result, err := a.orch.Uninstall(name, targets, fromRepo, opts)
				if err != nil {
					failed = err
					cmd.PrintErrf("Error: %s: %v\n", name, err)
					continue
				}
				if i > 0 {
					cmd.Println()
				}
				cmd.Print(r.RenderUninstall(result, dryRun))
			}
			return failed
		},
	}

	cmd.Flags().StringSliceVarP(&platforms, "platform", "p", nil, MsgFlagPlatform)
	cmd.Flags().BoolVar(&local, "local", false, MsgFlagLocal)
	cmd.Flags().BoolVar(&global, "global", false, MsgFlagGlobal)
	cmd.Flags().BoolVar(&fromRepo, "from-repo", false, MsgFlagRemove)
	cmd.MarkFlagsMutuallyExclusive("local", "global")

	return cmd
}

// targetsFor computes the target paths an uninstall should consider.
// An explicit platform selection restricts the set; otherwise every
// recorded and catalog location for the scope is considered.
func (a *app) targetsFor(name string, platformIDs []string, scope platform.Scope) ([]string, error) {
	if len(platformIDs) == 0 {
		return a.orch.KnownTargets(name, scope)
	}
	targets := make([]string, 0, len(platformIDs))
	for _, id := range platformIDs {
		path, err := a.catalog.SkillTarget(id, scope, a.home, a.cwd, name)
		if err != nil {
			return nil, err
		}
		targets = append(targets, path)
	}
	return targets, nil
}
