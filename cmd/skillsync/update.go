package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newUpdateCmd() *cobra.Command {
	var checkOnly bool

	cmd := &cobra.Command{
		Use:               "update [skill]...",
		Short:             MsgUpdateShort,
		Long:              MsgUpdateLong,
		GroupID:           "core",
		ValidArgsFunction: skillNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			dryRun, _ := rootFlags(cmd)
			r := renderer(cmd)

			log.Info().Strs("skills", args).Bool("check_only", checkOnly).Msg("Checking for updates")

			statuses, err := a.checker.CheckAll(cmd.Context(), a.repo, args)
			if err != nil {
				return err
			}
			cmd.Print(r.RenderCheck(statuses))

			if checkOnly || dryRun {
				return nil
			}

			outcomes, err := a.checker.ApplyUpdates(cmd.Context(), a.repo, args)
			if err != nil {
				return err
			}
			cmd.Println()
			cmd.Print(r.RenderApply(outcomes))
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, MsgFlagCheck)

	return cmd
}
