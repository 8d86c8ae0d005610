package platform_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/skillsync/pkg/errors"
	"github.com/arthur-debert/skillsync/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	catalog := platform.NewCatalog()

	tests := []struct {
		name     string
		id       string
		scope    platform.Scope
		want     string
		wantCode errors.ErrorCode
	}{
		{
			name:  "claude_global",
			id:    "claude",
			scope: platform.ScopeGlobal,
			want:  filepath.Join("/home/u", ".claude", "skills"),
		},
		{
			name:  "claude_local",
			id:    "claude",
			scope: platform.ScopeLocal,
			want:  filepath.Join("/proj", ".claude", "skills"),
		},
		{
			name:  "copilot_local_differs_from_global",
			id:    "copilot",
			scope: platform.ScopeLocal,
			want:  filepath.Join("/proj", ".github", "skills"),
		},
		{
			name:  "antigravity_nested_global",
			id:    "antigravity",
			scope: platform.ScopeGlobal,
			want:  filepath.Join("/home/u", ".gemini", "antigravity", "skills"),
		},
		{
			name:     "unknown_platform",
			id:       "emacs",
			scope:    platform.ScopeGlobal,
			wantCode: errors.ErrUnknownPlatform,
		},
		{
			name:     "unknown_scope",
			id:       "claude",
			scope:    platform.Scope("universal"),
			wantCode: errors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := catalog.Resolve(tt.id, tt.scope, "/home/u", "/proj")
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSkillTarget(t *testing.T) {
	catalog := platform.NewCatalog()

	got, err := catalog.SkillTarget("gemini", platform.ScopeGlobal, "/home/u", "/proj", "pdf-editor")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/u", ".gemini", "skills", "pdf-editor"), got)
}

func TestCatalogOrder(t *testing.T) {
	catalog := platform.NewCatalog()

	ids := catalog.IDs()
	require.Len(t, ids, 10)
	assert.Equal(t, "claude", ids[0])
	assert.Equal(t, "qoder", ids[len(ids)-1])
}

func TestCatalogExtras(t *testing.T) {
	extra := platform.Platform{
		ID:         "zed",
		Name:       "Zed",
		GlobalPath: ".config/zed/skills",
		LocalPath:  ".zed/skills",
	}
	catalog := platform.NewCatalog(extra)

	p, err := catalog.Get("zed")
	require.NoError(t, err)
	assert.Equal(t, "Zed", p.Name)
	assert.Len(t, catalog.IDs(), 11)
}

func TestCatalogExtraOverridesBuiltin(t *testing.T) {
	override := platform.Platform{
		ID:         "claude",
		Name:       "Claude Code",
		GlobalPath: "custom/claude/skills",
		LocalPath:  ".claude/skills",
	}
	catalog := platform.NewCatalog(override)

	got, err := catalog.Resolve("claude", platform.ScopeGlobal, "/home/u", "/proj")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/u", "custom", "claude", "skills"), got)
	assert.Len(t, catalog.IDs(), 10)
}

func TestDetect(t *testing.T) {
	home := t.TempDir()

	// Detection checks the direct parent of the skills dir, so
	// ~/.gemini makes gemini available but not antigravity (which
	// needs ~/.gemini/antigravity).
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".gemini"), 0755))

	catalog := platform.NewCatalog()
	ids := catalog.DetectIDs(home)

	assert.Contains(t, ids, "claude")
	assert.Contains(t, ids, "gemini")
	assert.NotContains(t, ids, "antigravity")
	assert.NotContains(t, ids, "cursor")
}
