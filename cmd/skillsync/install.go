package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/skillsync/pkg/install"
)

func newInstallCmd() *cobra.Command {
	var (
		platforms []string
		local     bool
		global    bool
	)

	cmd := &cobra.Command{
		Use:     "install <source>...",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgExampleInstall,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			dryRun, force := rootFlags(cmd)
			scope := a.scope(local, global)
			ids := a.platforms(platforms)
			r := renderer(cmd)

			log.Info().
				Strs("sources", args).
				Str("scope", string(scope)).
				Strs("platforms", ids).
				Bool("dry_run", dryRun).
				Msg("Installing skills")

			opts := install.Options{Overwrite: force, DryRun: dryRun}
			var failed error
			for i, source := range args {
				result, err := a.orch.Install(cmd.Context(), source, scope, ids, opts)
				if err != nil {
					failed = err
					cmd.PrintErrf("Error: %s: %v\n", source, err)
					continue
				}
				if i > 0 {
					cmd.Println()
				}
				cmd.Print(r.RenderInstall(result, dryRun))
			}
			return failed
		},
	}

	cmd.Flags().StringSliceVarP(&platforms, "platform", "p", nil, MsgFlagPlatform)
	cmd.Flags().BoolVar(&local, "local", false, MsgFlagLocal)
	cmd.Flags().BoolVar(&global, "global", false, MsgFlagGlobal)
	cmd.MarkFlagsMutuallyExclusive("local", "global")

	return cmd
}
