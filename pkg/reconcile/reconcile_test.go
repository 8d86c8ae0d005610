package reconcile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/skillsync/pkg/linkstate"
	"github.com/arthur-debert/skillsync/pkg/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "repo", "pdf-editor")
	require.NoError(t, os.MkdirAll(source, 0755))

	synced := filepath.Join(dir, "claude", "pdf-editor")
	require.NoError(t, os.MkdirAll(filepath.Dir(synced), 0755))
	require.NoError(t, os.Symlink(source, synced))

	shadowed := filepath.Join(dir, "gemini", "pdf-editor")
	require.NoError(t, os.MkdirAll(shadowed, 0755))

	absent := filepath.Join(dir, "cursor", "pdf-editor")

	states, err := reconcile.Report(source, []string{synced, shadowed, absent})
	require.NoError(t, err)

	assert.Equal(t, map[string]linkstate.State{
		synced:   linkstate.Synced,
		shadowed: linkstate.ShadowedDirectory,
		absent:   linkstate.Absent,
	}, states)
}

func TestPlanInstall(t *testing.T) {
	states := map[string]linkstate.State{
		"/t/synced":   linkstate.Synced,
		"/t/absent":   linkstate.Absent,
		"/t/broken":   linkstate.Broken,
		"/t/foreign":  linkstate.ForeignLink,
		"/t/shadowed": linkstate.ShadowedDirectory,
	}

	t.Run("without_confirmation", func(t *testing.T) {
		plan := reconcile.PlanInstall(states, false)

		assert.Equal(t, reconcile.AlreadySynced, plan["/t/synced"])
		assert.Equal(t, reconcile.CreateLink, plan["/t/absent"])
		assert.Equal(t, reconcile.CreateLink, plan["/t/broken"])
		assert.Equal(t, reconcile.SkipForeign, plan["/t/foreign"])
		assert.Equal(t, reconcile.SkipShadowed, plan["/t/shadowed"])
	})

	t.Run("with_confirmation", func(t *testing.T) {
		plan := reconcile.PlanInstall(states, true)

		assert.Equal(t, reconcile.AlreadySynced, plan["/t/synced"])
		assert.Equal(t, reconcile.CreateLink, plan["/t/absent"])
		assert.Equal(t, reconcile.ReplaceForeignLink, plan["/t/foreign"])
		assert.Equal(t, reconcile.ReplaceShadowed, plan["/t/shadowed"])
	})
}

func TestPlanUninstall(t *testing.T) {
	states := map[string]linkstate.State{
		"/t/synced":   linkstate.Synced,
		"/t/absent":   linkstate.Absent,
		"/t/broken":   linkstate.Broken,
		"/t/foreign":  linkstate.ForeignLink,
		"/t/shadowed": linkstate.ShadowedDirectory,
	}

	t.Run("without_confirmation", func(t *testing.T) {
		plan := reconcile.PlanUninstall(states, false)

		assert.Equal(t, reconcile.RemoveLink, plan["/t/synced"])
		assert.Equal(t, reconcile.RemoveLink, plan["/t/broken"])
		assert.Equal(t, reconcile.NoopAbsent, plan["/t/absent"])
		// Not ours: left alone without explicit confirmation
		assert.Equal(t, reconcile.SkipForeign, plan["/t/foreign"])
		assert.Equal(t, reconcile.SkipShadowed, plan["/t/shadowed"])
	})

	t.Run("with_confirmation", func(t *testing.T) {
		plan := reconcile.PlanUninstall(states, true)

		assert.Equal(t, reconcile.RemoveLink, plan["/t/foreign"])
		assert.Equal(t, reconcile.RemoveDirectory, plan["/t/shadowed"])
	})
}

func TestActionDestructive(t *testing.T) {
	assert.True(t, reconcile.ReplaceForeignLink.Destructive())
	assert.True(t, reconcile.ReplaceShadowed.Destructive())
	assert.True(t, reconcile.RemoveDirectory.Destructive())

	assert.False(t, reconcile.CreateLink.Destructive())
	assert.False(t, reconcile.RemoveLink.Destructive())
	assert.False(t, reconcile.AlreadySynced.Destructive())
	assert.False(t, reconcile.NoopAbsent.Destructive())
}
