package output

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncerr "github.com/arthur-debert/skillsync/pkg/errors"
	"github.com/arthur-debert/skillsync/pkg/install"
	"github.com/arthur-debert/skillsync/pkg/linkstate"
	"github.com/arthur-debert/skillsync/pkg/platform"
	"github.com/arthur-debert/skillsync/pkg/reconcile"
	"github.com/arthur-debert/skillsync/pkg/skill"
	"github.com/arthur-debert/skillsync/pkg/update"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatAuto, false},
		{"auto", FormatAuto, false},
		{"term", FormatTerminal, false},
		{"terminal", FormatTerminal, false},
		{"text", FormatText, false},
		{"plain", FormatText, false},
		{"xml", FormatAuto, true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestRenderList(t *testing.T) {
	r := NewRenderer(FormatText)

	statuses := []install.SkillStatus{
		{
			Name:   "code-review",
			InRepo: true,
			Manifest: skill.Manifest{
				Description: "Reviews pull requests",
				Version:     "1.2.0",
			},
			Platforms: []install.PlatformStatus{
				{
					Platform: platform.Platform{ID: "claude"},
					Path:     "/home/u/.claude/skills/code-review",
					State:    linkstate.Synced,
				},
				{
					Platform: platform.Platform{ID: "cursor"},
					Path:     "/home/u/.cursor/skills/code-review",
					State:    linkstate.Absent,
				},
			},
		},
		{
			Name:   "stray",
			InRepo: false,
			Platforms: []install.PlatformStatus{
				{
					Platform: platform.Platform{ID: "claude"},
					Path:     "/home/u/.claude/skills/stray",
					State:    linkstate.ShadowedDirectory,
				},
			},
		},
	}

	out := r.RenderList(statuses)
	assert.Contains(t, out, "code-review")
	assert.Contains(t, out, "v1.2.0")
	assert.Contains(t, out, "Reviews pull requests")
	assert.Contains(t, out, "synced")
	assert.Contains(t, out, "absent")
	assert.Contains(t, out, "[not in repo]")
	assert.Contains(t, out, "shadowed")
}

func TestRenderListEmpty(t *testing.T) {
	r := NewRenderer(FormatText)
	assert.Contains(t, r.RenderList(nil), "no skills found")
}

func TestRenderInstall(t *testing.T) {
	r := NewRenderer(FormatText)

	result := install.InstallResult{
		Skill: "code-review",
		Targets: []install.TargetResult{
			{
				Platform: "claude",
				Path:     "/home/u/.claude/skills/code-review",
				Action:   reconcile.CreateLink,
				Executed: true,
			},
			{
				Platform: "gemini",
				Path:     "/home/u/.gemini/skills/code-review",
				Action:   reconcile.SkipShadowed,
				Err:      errConflict(),
			},
		},
	}

	out := r.RenderInstall(result, false)
	assert.Contains(t, out, "Install code-review")
	assert.Contains(t, out, "linked")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "1 target(s) skipped")
	assert.Contains(t, out, "--force")
}

func TestRenderInstallDryRun(t *testing.T) {
	r := NewRenderer(FormatText)

	result := install.InstallResult{
		Skill: "code-review",
		Targets: []install.TargetResult{
			{Platform: "claude", Path: "/p", Action: reconcile.CreateLink},
		},
	}

	out := r.RenderInstall(result, true)
	assert.Contains(t, out, "(dry run)")
	assert.Contains(t, out, "will link")
}

func TestRenderUninstall(t *testing.T) {
	r := NewRenderer(FormatText)

	result := install.UninstallResult{
		Skill: "code-review",
		Targets: []install.TargetResult{
			{Platform: "claude", Path: "/p", Action: reconcile.RemoveLink, Executed: true},
		},
		RepoRemoved: true,
	}

	out := r.RenderUninstall(result, false)
	assert.Contains(t, out, "Uninstall code-review")
	assert.Contains(t, out, "unlinked")
	assert.Contains(t, out, "repository copy")
}

func TestRenderCheck(t *testing.T) {
	r := NewRenderer(FormatText)

	statuses := map[string]update.Status{
		"alpha": {Kind: update.UpToDate},
		"beta":  {Kind: update.Behind, Behind: 3},
		"gamma": {Kind: update.Diverged, Ahead: 1, Behind: 2},
		"delta": {Kind: update.NotAClone},
		"omega": {Kind: update.CheckFailed, Err: errors.New("network unreachable")},
	}

	out := r.RenderCheck(statuses)
	assert.Contains(t, out, "up to date")
	assert.Contains(t, out, "3 commit(s) behind")
	assert.Contains(t, out, "1 ahead, 2 behind")
	assert.Contains(t, out, "not a clone")
	assert.Contains(t, out, "network unreachable")
	assert.Contains(t, out, "1 skill(s) have updates")
}

func TestRenderCheckAllCurrent(t *testing.T) {
	r := NewRenderer(FormatText)
	out := r.RenderCheck(map[string]update.Status{
		"alpha": {Kind: update.UpToDate},
	})
	assert.Contains(t, out, "everything up to date")
}

func TestRenderApply(t *testing.T) {
	r := NewRenderer(FormatText)

	out := r.RenderApply(map[string]update.Outcome{
		"alpha": {Kind: update.Updated},
		"beta":  {Kind: update.AlreadyCurrent},
		"gamma": {Kind: update.UpdateDiverged, Err: errors.New("history diverged")},
	})
	assert.Contains(t, out, "updated")
	assert.Contains(t, out, "current")
	assert.Contains(t, out, "history diverged")
	assert.Contains(t, out, "1 skill(s) updated")
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n  b", Indent("a\nb", 1))
	assert.Equal(t, "    a\n\n    b", Indent("a\n\nb", 2))
}

func errConflict() error {
	return syncerr.New(syncerr.ErrConflictingTarget, "target occupied")
}
