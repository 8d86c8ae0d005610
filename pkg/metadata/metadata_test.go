package metadata_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/skillsync/pkg/errors"
	"github.com/arthur-debert/skillsync/pkg/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FirstRun(t *testing.T) {
	store := metadata.NewStore(t.TempDir())

	record, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, record)
}

func TestLoad_Corrupt(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, metadata.FileName), []byte("{not json"), 0644))

	store := metadata.NewStore(root)
	_, err := store.Load()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMetadataCorrupt))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := metadata.NewStore(t.TempDir())

	record := metadata.Record{
		"pdf-editor": {
			Source:  "/repo/pdf-editor",
			Targets: []string{"/home/u/.claude/skills/pdf-editor", "/home/u/.gemini/skills/pdf-editor"},
		},
	}
	require.NoError(t, store.Save(record))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Contains(t, loaded, "pdf-editor")
	assert.Equal(t, "/repo/pdf-editor", loaded["pdf-editor"].Source)
	assert.Equal(t, record["pdf-editor"].Targets, loaded["pdf-editor"].Targets)
}

func TestLoad_PreservesUnknownFields(t *testing.T) {
	root := t.TempDir()
	raw := `{
  "pdf-editor": {
    "source": "/repo/pdf-editor",
    "targets": ["/home/u/.claude/skills/pdf-editor"],
    "pinned_version": "1.2.0"
  }
}`
	require.NoError(t, os.WriteFile(filepath.Join(root, metadata.FileName), []byte(raw), 0644))

	store := metadata.NewStore(root)
	record, err := store.Load()
	require.NoError(t, err)

	// Round-trip and reread: the unrecognized field must survive
	require.NoError(t, store.Save(record))

	data, err := os.ReadFile(filepath.Join(root, metadata.FileName))
	require.NoError(t, err)

	var out map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &out))
	assert.JSONEq(t, `"1.2.0"`, string(out["pdf-editor"]["pinned_version"]))
}

func TestRecordLink(t *testing.T) {
	store := metadata.NewStore(t.TempDir())

	require.NoError(t, store.RecordLink("pdf-editor", "/repo/pdf-editor", "/t/claude"))
	require.NoError(t, store.RecordLink("pdf-editor", "/repo/pdf-editor", "/t/gemini"))
	// Recording the same target twice must not duplicate it
	require.NoError(t, store.RecordLink("pdf-editor", "/repo/pdf-editor", "/t/claude"))

	record, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"/t/claude", "/t/gemini"}, record["pdf-editor"].Targets)
}

func TestRecordUnlink(t *testing.T) {
	store := metadata.NewStore(t.TempDir())
	require.NoError(t, store.RecordLink("pdf-editor", "/repo/pdf-editor", "/t/claude"))
	require.NoError(t, store.RecordLink("pdf-editor", "/repo/pdf-editor", "/t/gemini"))

	require.NoError(t, store.RecordUnlink("pdf-editor", "/t/claude", false))

	record, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"/t/gemini"}, record["pdf-editor"].Targets)

	require.NoError(t, store.RecordUnlink("pdf-editor", "/t/gemini", true))

	record, err = store.Load()
	require.NoError(t, err)
	assert.NotContains(t, record, "pdf-editor")
}

func TestRecordLink_CorruptFileDoesNotBlock(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, metadata.FileName), []byte("garbage"), 0644))

	store := metadata.NewStore(root)
	require.NoError(t, store.RecordLink("pdf-editor", "/repo/pdf-editor", "/t/claude"))

	record, err := store.Load()
	require.NoError(t, err)
	assert.Contains(t, record, "pdf-editor")
}

func TestSave_NoTempFileLeftBehind(t *testing.T) {
	root := t.TempDir()
	store := metadata.NewStore(root)
	require.NoError(t, store.Save(metadata.Record{"a": {Source: "/repo/a"}}))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, metadata.FileName, entries[0].Name())
}

func TestRecordNames(t *testing.T) {
	record := metadata.Record{
		"zeta":  {Source: "/repo/zeta"},
		"alpha": {Source: "/repo/alpha"},
	}
	assert.Equal(t, []string{"alpha", "zeta"}, record.Names())
}
