package skill_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/skillsync/pkg/skill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameFromSource(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		want    string
		wantErr bool
	}{
		{name: "directory", source: "/skills/pdf-editor", want: "pdf-editor"},
		{name: "directory_trailing_slash", source: "/skills/pdf-editor/", want: "pdf-editor"},
		{name: "skill_archive", source: "/downloads/pdf-editor.skill", want: "pdf-editor"},
		{name: "zip_archive", source: "/downloads/pdf-editor.zip", want: "pdf-editor"},
		{name: "https_url", source: "https://github.com/acme/pdf-editor", want: "pdf-editor"},
		{name: "https_url_git_suffix", source: "https://github.com/acme/pdf-editor.git", want: "pdf-editor"},
		{name: "https_url_trailing_slash", source: "https://github.com/acme/pdf-editor/", want: "pdf-editor"},
		{name: "scp_url", source: "git@github.com:acme/pdf-editor.git", want: "pdf-editor"},
		{name: "ssh_url", source: "ssh://git@github.com/acme/pdf-editor", want: "pdf-editor"},
		{name: "relative_directory", source: "skills/pdf-editor", want: "pdf-editor"},
		{name: "dotted_name_rejected", source: "/skills/.hidden", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := skill.NameFromSource(tt.source)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, skill.ValidateName("pdf-editor"))
	assert.NoError(t, skill.ValidateName("skill2"))
	assert.NoError(t, skill.ValidateName("data_tools.v2"))

	assert.Error(t, skill.ValidateName(""))
	assert.Error(t, skill.ValidateName(".hidden"))
	assert.Error(t, skill.ValidateName("has space"))
	assert.Error(t, skill.ValidateName("has/slash"))
	assert.Error(t, skill.ValidateName("../escape"))
}

func TestLooksLikeRemote(t *testing.T) {
	assert.True(t, skill.LooksLikeRemote("https://github.com/acme/skill.git"))
	assert.True(t, skill.LooksLikeRemote("git://host/skill"))
	assert.True(t, skill.LooksLikeRemote("ssh://host/skill"))
	assert.True(t, skill.LooksLikeRemote("git@github.com:acme/skill.git"))
	assert.False(t, skill.LooksLikeRemote("/home/u/skills/review"))
	assert.False(t, skill.LooksLikeRemote("./bundle.skill"))
	assert.False(t, skill.LooksLikeRemote("user@host/no-colon"))
}

func TestIsArchive(t *testing.T) {
	assert.True(t, skill.IsArchive("a.skill"))
	assert.True(t, skill.IsArchive("a.zip"))
	assert.True(t, skill.IsArchive("A.SKILL"))
	assert.False(t, skill.IsArchive("a.tar.gz"))
	assert.False(t, skill.IsArchive("directory"))
}

func TestReadManifest(t *testing.T) {
	t.Run("with_frontmatter", func(t *testing.T) {
		dir := t.TempDir()
		content := `---
name: pdf-editor
description: Edit PDF files in place
version: 1.2.0
---

# PDF Editor

Instructions follow.
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0644))

		m, err := skill.ReadManifest(dir)
		require.NoError(t, err)
		assert.Equal(t, "pdf-editor", m.Name)
		assert.Equal(t, "Edit PDF files in place", m.Description)
		assert.Equal(t, "1.2.0", m.Version)
	})

	t.Run("byte_order_mark", func(t *testing.T) {
		dir := t.TempDir()
		content := "\ufeff---\nname: pdf-editor\ndescription: Edit PDF files\n---\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0644))

		m, err := skill.ReadManifest(dir)
		require.NoError(t, err)
		assert.Equal(t, "pdf-editor", m.Name)
	})

	t.Run("missing_file", func(t *testing.T) {
		m, err := skill.ReadManifest(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, m.Name)
	})

	t.Run("no_frontmatter", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("# Just markdown\n"), 0644))

		m, err := skill.ReadManifest(dir)
		require.NoError(t, err)
		assert.Empty(t, m.Description)
	})

	t.Run("malformed_yaml", func(t *testing.T) {
		dir := t.TempDir()
		content := "---\nname: [unclosed\n---\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0644))

		_, err := skill.ReadManifest(dir)
		assert.Error(t, err)
	})
}
