package reader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRead_FiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "z.m2", "z")
	writeFile(t, root, "pkg/a.m2", "a")
	writeFile(t, root, "pkg/notes.txt", "skip")
	writeFile(t, root, ".git/hidden.m2", "skip")
	writeFile(t, root, "tests/t.m2", "skip")

	r, err := New(&Config{Ignore: []string{"tests/**"}})
	require.NoError(t, err)

	files, warnings, err := r.Read(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, files, 2)
	assert.Equal(t, "pkg/a.m2", files[0].Path)
	assert.Equal(t, "a", files[0].Content)
	assert.Equal(t, "z.m2", files[1].Path)
}

func TestRead_CustomExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.m2", "a")
	writeFile(t, root, "b.txt", "b")

	r, err := New(&Config{Extensions: []string{".txt"}})
	require.NoError(t, err)

	files, _, err := r.Read(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "b.txt", files[0].Path)
}

func TestRead_InvalidUTF8Dropped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "bad.m2", "ok\xff\xfeok")

	r, err := New(nil)
	require.NoError(t, err)

	files, _, err := r.Read(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "okok", files[0].Content)
}

func TestRead_UnreadableFileSkippedWithWarning(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "good.m2", "good")
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling.m2")))

	r, err := New(nil)
	require.NoError(t, err)

	files, warnings, err := r.Read(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "good.m2", files[0].Path)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "dangling.m2")
}

func TestRead_RootMustBeDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.m2", "x")

	r, err := New(nil)
	require.NoError(t, err)

	_, _, err = r.Read(context.Background(), filepath.Join(root, "file.m2"))
	assert.Error(t, err)

	_, _, err = r.Read(context.Background(), filepath.Join(root, "nope"))
	assert.Error(t, err)
}

func TestRead_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.m2", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := New(nil)
	require.NoError(t, err)
	_, _, err = r.Read(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New(&Config{Ignore: []string{"[unclosed"}})
	assert.Error(t, err)
}
