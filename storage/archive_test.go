package storage

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aidbg/model"
)

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	archive, err := NewArchive(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })
	return archive
}

func TestArchiveSaveLoad(t *testing.T) {
	archive := newTestArchive(t)

	saved := &ArchivedTranscript{
		Name:  "debug session",
		Model: "gpt-4o-mini",
		Messages: []model.Message{
			{Role: model.RoleUser, Content: "hi"},
			{Role: model.RoleAssistant, Content: "hello"},
		},
	}
	require.NoError(t, archive.Save(saved))
	require.NotEmpty(t, saved.ID, "Save must assign an ID")

	loaded, err := archive.Load(saved.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved.Name, loaded.Name)
	assert.Equal(t, saved.Messages, loaded.Messages)
	assert.False(t, loaded.CreatedAt.IsZero())
}

func TestArchiveLoadMissing(t *testing.T) {
	archive := newTestArchive(t)

	loaded, err := archive.Load("no-such-id")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestArchiveListAndDelete(t *testing.T) {
	archive := newTestArchive(t)

	first := &ArchivedTranscript{Name: "one", Messages: []model.Message{{Role: model.RoleUser, Content: "a"}}}
	second := &ArchivedTranscript{Name: "two", Messages: []model.Message{{Role: model.RoleUser, Content: "b"}, {Role: model.RoleAssistant, Content: "c"}}}
	require.NoError(t, archive.Save(first))
	require.NoError(t, archive.Save(second))

	metas, err := archive.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "two", metas[0].Name, "newest first")
	assert.Equal(t, 2, metas[0].MessageCount)

	require.NoError(t, archive.Delete(first.ID))
	metas, err = archive.List()
	require.NoError(t, err)
	assert.Len(t, metas, 1)
}

func TestArchiveSearch(t *testing.T) {
	archive := newTestArchive(t)

	require.NoError(t, archive.Save(&ArchivedTranscript{
		Name: "session",
		Messages: []model.Message{
			{Role: model.RoleSystem, Content: "needle in system prompt is skipped"},
			{Role: model.RoleUser, Content: "where is the NEEDLE?"},
			{Role: model.RoleAssistant, Content: "no match here"},
		},
	}))

	matches, err := archive.Search("needle")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, model.RoleUser, matches[0].Role)
	assert.Equal(t, 1, matches[0].MessageIndex)

	empty, err := archive.Search("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSearchPreviewKeepsRuneBoundary(t *testing.T) {
	archive := newTestArchive(t)

	// 40 three-byte runes put the byte limit mid-rune.
	long := "needle " + strings.Repeat("日", 40)
	require.NoError(t, archive.Save(&ArchivedTranscript{
		Name: "session",
		Messages: []model.Message{
			{Role: model.RoleUser, Content: long},
		},
	}))

	matches, err := archive.Search("needle")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.True(t, utf8.ValidString(matches[0].Preview), "preview split a rune: %q", matches[0].Preview)
	assert.True(t, strings.HasSuffix(matches[0].Preview, "..."))
	assert.LessOrEqual(t, len(matches[0].Preview), previewLimit+len("..."))
}

func TestQuickContentDefaults(t *testing.T) {
	store := NewQuickContentStore(t.TempDir())

	snippets, err := store.LoadAll()
	require.NoError(t, err)
	assert.Len(t, snippets, 3, "fresh store seeds the starter snippets")
	assert.Contains(t, snippets, "system info")
}

func TestQuickContentCRUD(t *testing.T) {
	store := NewQuickContentStore(t.TempDir())

	require.NoError(t, store.Upsert("disk", QuickContent{Content: "Please check disk usage"}))
	require.NoError(t, store.Upsert("disk", QuickContent{Content: "Please check free disk space"}))

	snippets, err := store.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, "Please check free disk space", snippets["disk"].Content)

	require.NoError(t, store.Delete("disk"))
	snippets, err = store.LoadAll()
	require.NoError(t, err)
	assert.NotContains(t, snippets, "disk")
}
