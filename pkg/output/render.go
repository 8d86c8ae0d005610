package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/skillsync/pkg/install"
	"github.com/arthur-debert/skillsync/pkg/linkstate"
	"github.com/arthur-debert/skillsync/pkg/reconcile"
	"github.com/arthur-debert/skillsync/pkg/update"
)

// Renderer turns command results into terminal text. With color off it
// emits the same layout without any styling, suitable for pipes.
type Renderer struct {
	color bool
}

// NewRenderer creates a renderer for the given format
func NewRenderer(format Format) *Renderer {
	return &Renderer{color: format == FormatTerminal}
}

func (r *Renderer) badge(b Badge, text string) string {
	if !r.color {
		return text
	}
	return BadgeStyle(b).Sprint(text)
}

func (r *Renderer) title(text string) string {
	if !r.color {
		return text
	}
	return TitleStyle.Render(text)
}

func (r *Renderer) muted(text string) string {
	if !r.color {
		return text
	}
	return MutedStyle.Render(text)
}

func (r *Renderer) path(text string) string {
	if !r.color {
		return text
	}
	return PathStyle.Render(text)
}

// stateLabel maps a link state to a short padded label and badge category
func stateLabel(state linkstate.State) (string, Badge) {
	switch state {
	case linkstate.Synced:
		return "synced", BadgeSuccess
	case linkstate.ForeignLink:
		return "foreign", BadgeWarn
	case linkstate.ShadowedDirectory:
		return "shadowed", BadgeWarn
	case linkstate.Broken:
		return "broken", BadgeError
	default:
		return "absent", BadgeMuted
	}
}

// actionLabel describes what an executed (or planned) action did
func actionLabel(action reconcile.Action, executed bool) (string, Badge) {
	switch action {
	case reconcile.CreateLink:
		if executed {
			return "linked", BadgeSuccess
		}
		return "will link", BadgeQueue
	case reconcile.ReplaceForeignLink, reconcile.ReplaceShadowed:
		if executed {
			return "replaced", BadgeSuccess
		}
		return "will replace", BadgeQueue
	case reconcile.AlreadySynced:
		return "synced", BadgeSuccess
	case reconcile.SkipForeign, reconcile.SkipShadowed:
		return "skipped", BadgeWarn
	case reconcile.RemoveLink:
		if executed {
			return "unlinked", BadgeSuccess
		}
		return "will unlink", BadgeQueue
	case reconcile.RemoveDirectory:
		if executed {
			return "removed", BadgeSuccess
		}
		return "will remove", BadgeQueue
	case reconcile.NoopAbsent:
		return "absent", BadgeMuted
	default:
		return string(action), BadgeMuted
	}
}

// RenderList renders the union listing of repository and platform skills
func (r *Renderer) RenderList(statuses []install.SkillStatus) string {
	if len(statuses) == 0 {
		return r.muted("no skills found") + "\n"
	}

	var out strings.Builder
	for i, status := range statuses {
		out.WriteString(r.renderSkill(status))
		if i < len(statuses)-1 {
			out.WriteString("\n")
		}
	}
	return out.String()
}

// RenderStatus renders the detailed view of a single skill
func (r *Renderer) RenderStatus(status install.SkillStatus) string {
	var out strings.Builder
	out.WriteString(r.renderSkill(status))
	if status.InRepo {
		out.WriteString(Indent(r.muted("repo: ")+r.path(status.RepoPath), 1) + "\n")
	}
	return out.String()
}

func (r *Renderer) renderSkill(status install.SkillStatus) string {
	var out strings.Builder

	header := r.title(status.Name)
	if status.Manifest.Version != "" {
		header += " " + r.muted("v"+status.Manifest.Version)
	}
	if !status.InRepo {
		header += " " + r.badge(BadgeWarn, "[not in repo]")
	}
	out.WriteString(header + "\n")

	if status.Manifest.Description != "" {
		out.WriteString(Indent(r.muted(status.Manifest.Description), 1) + "\n")
	}

	for _, p := range status.Platforms {
		label, badge := stateLabel(p.State)
		line := fmt.Sprintf("%s %-10s %s",
			r.badge(badge, fmt.Sprintf("%-9s", label)),
			p.Platform.ID,
			r.path(p.Path))
		out.WriteString(Indent(line, 1) + "\n")
	}

	return out.String()
}

// RenderInstall renders the outcome of an install run
func (r *Renderer) RenderInstall(result install.InstallResult, dryRun bool) string {
	var out strings.Builder

	header := "Install " + r.title(result.Skill)
	if dryRun {
		header += " " + r.muted("(dry run)")
	}
	out.WriteString(header + "\n")

	for _, target := range result.Targets {
		out.WriteString(Indent(r.renderTarget(target), 1) + "\n")
	}

	if conflicts := result.Conflicts(); len(conflicts) > 0 {
		out.WriteString("\n")
		out.WriteString(r.badge(BadgeWarn, fmt.Sprintf("%d target(s) skipped", len(conflicts))))
		out.WriteString(r.muted(" (re-run with --force to replace)") + "\n")
	}

	return out.String()
}

// RenderUninstall renders the outcome of an uninstall run
func (r *Renderer) RenderUninstall(result install.UninstallResult, dryRun bool) string {
	var out strings.Builder

	header := "Uninstall " + r.title(result.Skill)
	if dryRun {
		header += " " + r.muted("(dry run)")
	}
	out.WriteString(header + "\n")

	for _, target := range result.Targets {
		out.WriteString(Indent(r.renderTarget(target), 1) + "\n")
	}

	if result.RepoRemoved {
		out.WriteString(Indent(r.badge(BadgeSuccess, "removed")+" repository copy", 1) + "\n")
	}

	return out.String()
}

func (r *Renderer) renderTarget(target install.TargetResult) string {
	label, badge := actionLabel(target.Action, target.Executed)
	if target.Failed() && !target.Conflicted() {
		label, badge = "failed", BadgeError
	}

	line := fmt.Sprintf("%s %-10s %s",
		r.badge(badge, fmt.Sprintf("%-12s", label)),
		target.Platform,
		r.path(target.Path))

	if target.Failed() && !target.Conflicted() {
		line += "\n" + Indent(r.muted(target.Err.Error()), 1)
	}
	return line
}

// RenderCheck renders the result of the concurrent update check
func (r *Renderer) RenderCheck(statuses map[string]update.Status) string {
	if len(statuses) == 0 {
		return r.muted("no skills to check") + "\n"
	}

	names := make([]string, 0, len(statuses))
	for name := range statuses {
		names = append(names, name)
	}
	sort.Strings(names)

	var out strings.Builder
	behind := 0
	for _, name := range names {
		status := statuses[name]
		label, badge, detail := checkLabel(status)
		if status.Kind == update.Behind {
			behind++
		}
		line := fmt.Sprintf("%s %s", r.badge(badge, fmt.Sprintf("%-13s", label)), name)
		if detail != "" {
			line += " " + r.muted(detail)
		}
		out.WriteString(line + "\n")
	}

	out.WriteString("\n")
	if behind == 0 {
		out.WriteString(r.muted("everything up to date") + "\n")
	} else {
		out.WriteString(r.badge(BadgeQueue, fmt.Sprintf("%d skill(s) have updates", behind)) + "\n")
	}
	return out.String()
}

func checkLabel(status update.Status) (string, Badge, string) {
	switch status.Kind {
	case update.UpToDate:
		return "up to date", BadgeSuccess, ""
	case update.Behind:
		return "behind", BadgeQueue, fmt.Sprintf("(%d commit(s) behind)", status.Behind)
	case update.Diverged:
		return "diverged", BadgeWarn, fmt.Sprintf("(%d ahead, %d behind)", status.Ahead, status.Behind)
	case update.NotAClone:
		return "not a clone", BadgeMuted, ""
	default:
		detail := ""
		if status.Err != nil {
			detail = status.Err.Error()
		}
		return "check failed", BadgeError, detail
	}
}

// RenderApply renders the result of applying updates
func (r *Renderer) RenderApply(outcomes map[string]update.Outcome) string {
	if len(outcomes) == 0 {
		return r.muted("no skills to update") + "\n"
	}

	names := make([]string, 0, len(outcomes))
	for name := range outcomes {
		names = append(names, name)
	}
	sort.Strings(names)

	var out strings.Builder
	updated := 0
	for _, name := range names {
		outcome := outcomes[name]
		label, badge := applyLabel(outcome.Kind)
		if outcome.Kind == update.Updated {
			updated++
		}
		line := fmt.Sprintf("%s %s", r.badge(badge, fmt.Sprintf("%-13s", label)), name)
		if outcome.Err != nil {
			line += " " + r.muted(outcome.Err.Error())
		}
		out.WriteString(line + "\n")
	}

	out.WriteString("\n")
	out.WriteString(r.muted(fmt.Sprintf("%d skill(s) updated", updated)) + "\n")
	return out.String()
}

func applyLabel(kind update.OutcomeKind) (string, Badge) {
	switch kind {
	case update.Updated:
		return "updated", BadgeSuccess
	case update.AlreadyCurrent:
		return "current", BadgeSuccess
	case update.UpdateDiverged:
		return "diverged", BadgeWarn
	case update.UpdateSkipped:
		return "skipped", BadgeMuted
	default:
		return "failed", BadgeError
	}
}
