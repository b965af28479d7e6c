package unzip

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRoot = "/tmp/dest"

func TestResolve(t *testing.T) {
	for _, test := range []struct{ Name, Expected string }{
		{"", "/tmp/dest"},
		{".", "/tmp/dest"},
		{"a.txt", "/tmp/dest/a.txt"},
		{"a/b/c.txt", "/tmp/dest/a/b/c.txt"},
		{"a/b/", "/tmp/dest/a/b"},
		{"./a//b/./c", "/tmp/dest/a/b/c"},
		{"a/../b.txt", "/tmp/dest/b.txt"},
		{"a/b/../../c.txt", "/tmp/dest/c.txt"},
		{"..foo", "/tmp/dest/..foo"},
		{"a/..b/c", "/tmp/dest/a/..b/c"},
		{"com/example/App.class", "/tmp/dest/com/example/App.class"},
	} {
		target, err := Resolve(testRoot, test.Name)
		assert.NoError(t, err, test.Name)
		assert.Equal(t, filepath.FromSlash(test.Expected), target, test.Name)
	}
}

func TestResolveRejectsEscapes(t *testing.T) {
	for _, name := range []string{
		"..",
		"../",
		"../evil.txt",
		"../../etc/passwd",
		"a/../../evil.txt",
		"a/b/../../../evil.txt",
		"../dest-evil/x",
		"../destination",
		"/etc/passwd",
		"/tmp/dest/inside-but-absolute.txt",
	} {
		_, err := Resolve(testRoot, name)
		assert.True(t, errors.Is(err, ErrPathTraversal), "%s should have been rejected, got %v", name, err)
	}
}

func TestResolveRoot(t *testing.T) {
	_, err := Resolve("", "a.txt")
	assert.Equal(t, ErrNoDestination, err)
	_, err = Resolve("relative/dest", "a.txt")
	assert.Error(t, err)
	target, err := Resolve("/tmp/dest/", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/tmp/dest/a.txt"), target)
}

func TestWithin(t *testing.T) {
	assert.True(t, within("/dest", "/dest"))
	assert.True(t, within("/dest", "/dest/a"))
	assert.True(t, within("/", "/etc"))
	assert.False(t, within("/dest", "/dest-evil"))
	assert.False(t, within("/dest", "/"))
	assert.False(t, within("/dest/a", "/dest/b"))
}
