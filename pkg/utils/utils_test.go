package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")

	require.NoError(t, WriteJSONFileAtomic(path, map[string]int{"a": 1}, true))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", string(b))

	require.NoError(t, WriteJSONFileAtomic(path, []int{1, 2}, false))
	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[1,2]\n", string(b))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestResolveAndEnsurePath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a", "b", "history.json")

	got, err := ResolveAndEnsurePath("", target)
	require.NoError(t, err)
	assert.Equal(t, target, got)
	assert.DirExists(t, filepath.Join(dir, "a", "b"))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandHome("~/dreams.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "dreams.json"), got)

	got, err = ExpandHome("relative.json")
	require.NoError(t, err)
	assert.Equal(t, "relative.json", got)
}
