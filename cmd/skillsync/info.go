package main

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/skillsync/pkg/errors"
	"github.com/arthur-debert/skillsync/pkg/output"
	"github.com/arthur-debert/skillsync/pkg/skill"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "info <skill>",
		Short:             MsgInfoShort,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: skillNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			name := args[0]
			if !a.repo.Has(name) {
				return errors.Newf(errors.ErrSkillNotFound, "skill %q is not in the repository", name)
			}

			path, ok := skill.ManifestPath(a.repo.SkillPath(name))
			if !ok {
				cmd.Printf("%s has no %s\n", name, skill.ManifestFileName)
				return nil
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
			}

			cmd.Print(renderMarkdown(cmd, string(content)))
			return nil
		},
	}
}

// renderMarkdown renders markdown for the terminal, falling back to the
// raw content when rich output is off or the renderer fails
func renderMarkdown(cmd *cobra.Command, content string) string {
	name, _ := cmd.Root().PersistentFlags().GetString("format")
	format, err := output.ParseFormat(name)
	if err != nil {
		format = output.FormatAuto
	}
	if format.Resolve(os.Stdout) != output.FormatTerminal {
		return content
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
