package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "a", "b", "c.txt")
	n, err := WriteFile(strings.NewReader("hello"), dest, 0600)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWriteFileReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "c.txt")
	require.NoError(t, os.WriteFile(dest, []byte("a much longer original"), 0644))
	_, err := WriteFile(strings.NewReader("new"), dest, 0)
	require.NoError(t, err)
	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(b))

	// No temp files should be left lying around.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, len(entries))
}

func TestWriteFileOntoEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "d")
	require.NoError(t, os.Mkdir(dest, 0755))
	_, err := WriteFile(strings.NewReader("x"), dest, 0)
	require.NoError(t, err)
	assert.True(t, FileExists(dest))
	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "x", string(b))
}

func TestWriteFileOntoDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "d", "e"), nil, 0644))
	_, err := WriteFile(strings.NewReader("x"), filepath.Join(dir, "d"), 0)
	assert.Error(t, err)
	assert.True(t, IsDirectory(filepath.Join(dir, "d")))
}

func TestMkdirAllReplacing(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "foo")

	replaced, err := MkdirAllReplacing(filepath.Join(target, "bar"))
	require.NoError(t, err)
	assert.False(t, replaced)
	assert.True(t, IsDirectory(filepath.Join(target, "bar")))

	replaced, err = MkdirAllReplacing(target)
	require.NoError(t, err)
	assert.False(t, replaced)

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("not a dir"), 0644))
	replaced, err = MkdirAllReplacing(file)
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.True(t, IsDirectory(file))
}

func TestPathExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.True(t, PathExists(file))
	assert.True(t, FileExists(file))
	assert.True(t, PathExists(dir))
	assert.False(t, FileExists(dir))
	assert.False(t, PathExists(filepath.Join(dir, "nope")))
}
