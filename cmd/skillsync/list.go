package main

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/skillsync/pkg/platform"
)

func newListCmd() *cobra.Command {
	var (
		platforms []string
		local     bool
		global    bool
	)

	cmd := &cobra.Command{
		Use:               "list [skill]",
		Short:             MsgListShort,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: skillNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			scope := a.scope(local, global)
			selected, err := a.resolvePlatforms(platforms)
			if err != nil {
				return err
			}
			r := renderer(cmd)

			if len(args) == 1 {
				status, err := a.orch.Status(args[0], selected, scope)
				if err != nil {
					return err
				}
				cmd.Print(r.RenderStatus(status))
				return nil
			}

			statuses, err := a.orch.List(selected, scope)
			if err != nil {
				return err
			}
			cmd.Print(r.RenderList(statuses))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&platforms, "platform", "p", nil, MsgFlagPlatform)
	cmd.Flags().BoolVar(&local, "local", false, MsgFlagLocal)
	cmd.Flags().BoolVar(&global, "global", false, MsgFlagGlobal)
	cmd.MarkFlagsMutuallyExclusive("local", "global")

	return cmd
}

// resolvePlatforms maps the --platform selection (or the detected
// default) to catalog entries. Unknown IDs are an input error.
func (a *app) resolvePlatforms(selected []string) ([]platform.Platform, error) {
	ids := a.platforms(selected)
	out := make([]platform.Platform, 0, len(ids))
	for _, id := range ids {
		p, err := a.catalog.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
