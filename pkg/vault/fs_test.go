package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestFS(t *testing.T, appSettings string) *FS {
	t.Helper()
	dir := t.TempDir()
	if appSettings != "" {
		writeAppSettings(t, dir, appSettings)
	}
	v, err := OpenFS(dir, WithIgnoredPatterns([]string{".obsidian", ".obsidian/**"}))
	require.NoError(t, err)
	return v
}

func TestOpenFS(t *testing.T) {
	v := openTestFS(t, `{"attachmentFolderPath":"attachments","newLinkFormat":"absolute"}`)
	assert.Equal(t, "attachments", v.Settings().AttachmentFolderPath)
	assert.Equal(t, LinkAbsolute, v.Settings().NewLinkFormat)

	override, err := OpenFS(v.Root(), WithSettings(DefaultAppSettings()))
	require.NoError(t, err)
	assert.Equal(t, DefaultAppSettings(), override.Settings())

	_, err = OpenFS(v.Root(), WithIgnoredPatterns([]string{"[unclosed"}))
	assert.Error(t, err)
}

func TestFS_CreateBinary(t *testing.T) {
	ctx := context.Background()
	v := openTestFS(t, "")

	entry, err := v.CreateBinary(ctx, "attachments/Notes-1.png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "attachments/Notes-1.png", entry.Path)
	assert.False(t, entry.IsDir)
	assert.Equal(t, int64(len("png-bytes")), entry.Size)

	data, err := os.ReadFile(filepath.Join(v.Root(), "attachments", "Notes-1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = v.CreateBinary(ctx, "attachments/Notes-1.png", []byte("other"))
	assert.ErrorIs(t, err, ErrExists)

	data, err = v.ReadFile("attachments/Notes-1.png")
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data), "existing file must not be overwritten")

	_, err = v.CreateBinary(ctx, "../escape.png", nil)
	assert.ErrorIs(t, err, ErrOutsideVault)

	_, err = v.CreateBinary(ctx, "", nil)
	assert.ErrorIs(t, err, ErrExists)
}

func TestFS_CreateBinaryCanceled(t *testing.T) {
	v := openTestFS(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.CreateBinary(ctx, "a.png", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)

	_, ok := v.Lookup("a.png")
	assert.False(t, ok)
}

func TestFS_LookupAndList(t *testing.T) {
	ctx := context.Background()
	v := openTestFS(t, `{}`)

	_, err := v.CreateBinary(ctx, "Notes-1.png", []byte("a"))
	require.NoError(t, err)
	_, err = v.CreateBinary(ctx, "sub/inner.png", []byte("b"))
	require.NoError(t, err)

	entry, ok := v.Lookup("sub")
	require.True(t, ok)
	assert.True(t, entry.IsDir)

	// Ignore patterns apply to neither lookups nor listings.
	_, ok = v.Lookup(".obsidian/app.json")
	assert.True(t, ok)

	entries, err := v.List("")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Path)
	}
	assert.ElementsMatch(t, []string{".obsidian", "Notes-1.png", "sub"}, names)

	entries, err = v.List("sub")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sub/inner.png", entries[0].Path)

	_, err = v.List("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = v.List("Notes-1.png")
	assert.ErrorIs(t, err, ErrNotFolder)
}

func TestFS_ListKeepsIgnoredFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "attachments"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "attachments", "Notes-1.bak"), []byte("old"), 0644))

	v, err := OpenFS(dir, WithIgnoredPatterns([]string{"**.bak"}))
	require.NoError(t, err)

	entries, err := v.List("attachments")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "attachments/Notes-1.bak", entries[0].Path)

	// The ignored copy still does not count against link uniqueness.
	_, err = v.CreateBinary(context.Background(), "Notes-1.bak", []byte("new"))
	require.NoError(t, err)
	assert.True(t, v.nameIsUnique("Notes-1.bak"))
}

func TestFS_AvailablePathForAttachment(t *testing.T) {
	ctx := context.Background()
	v := openTestFS(t, `{"attachmentFolderPath":"./assets"}`)

	p, err := v.AvailablePathForAttachment(ctx, "photo.png", "projects/Notes.md")
	require.NoError(t, err)
	assert.Equal(t, "projects/assets/photo.png", p)

	entry, ok := v.Lookup("projects/assets")
	require.True(t, ok, "attachment folder should be created")
	assert.True(t, entry.IsDir)

	_, err = v.CreateBinary(ctx, p, []byte("x"))
	require.NoError(t, err)

	p, err = v.AvailablePathForAttachment(ctx, "photo.png", "projects/Notes.md")
	require.NoError(t, err)
	assert.Equal(t, "projects/assets/photo 1.png", p)
}

func TestFS_GenerateLink(t *testing.T) {
	ctx := context.Background()
	v := openTestFS(t, "")

	first, err := v.CreateBinary(ctx, "attachments/Notes-1.png", []byte("a"))
	require.NoError(t, err)
	assert.Equal(t, "![[Notes-1.png]]", v.GenerateLink(first, "Notes.md"))

	// A copy under an ignored folder does not make the name ambiguous.
	require.NoError(t, os.MkdirAll(filepath.Join(v.Root(), ".obsidian"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(v.Root(), ".obsidian", "Notes-1.png"), []byte("x"), 0644))
	assert.Equal(t, "![[Notes-1.png]]", v.GenerateLink(first, "Notes.md"))

	_, err = v.CreateBinary(ctx, "other/Notes-1.png", []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, "![[attachments/Notes-1.png]]", v.GenerateLink(first, "Notes.md"))
}

func TestFS_ModifyFile(t *testing.T) {
	ctx := context.Background()
	v := openTestFS(t, "")

	require.NoError(t, os.WriteFile(filepath.Join(v.Root(), "Notes.md"), []byte("before"), 0600))
	require.NoError(t, v.ModifyFile(ctx, "Notes.md", []byte("after")))

	data, err := v.ReadFile("Notes.md")
	require.NoError(t, err)
	assert.Equal(t, "after", string(data))

	info, err := os.Stat(filepath.Join(v.Root(), "Notes.md"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	assert.ErrorIs(t, v.ModifyFile(ctx, "Missing.md", []byte("x")), ErrNotFound)

	_, err = v.ReadFile("Missing.md")
	assert.ErrorIs(t, err, ErrNotFound)
}
