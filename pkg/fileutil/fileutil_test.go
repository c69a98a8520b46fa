package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localesheet/localesheet/pkg/fileutil"
)

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	require.NoError(t, fileutil.EnsureDir(dir))
	assert.True(t, fileutil.Exists(dir))

	// Calling again on an existing directory is fine.
	require.NoError(t, fileutil.EnsureDir(dir))
}

func TestExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assert.True(t, fileutil.Exists(dir))
	assert.False(t, fileutil.Exists(filepath.Join(dir, "nope")))
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	require.NoError(t, fileutil.WriteFileAtomic(path, []byte("first"), 0644))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	// Overwriting replaces the content in one step.
	require.NoError(t, fileutil.WriteFileAtomic(path, []byte("second"), 0644))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// No temporary files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.json", entries[0].Name())
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "out.json")
	err := fileutil.WriteFileAtomic(path, []byte("x"), 0644)
	require.Error(t, err)
	assert.False(t, fileutil.Exists(path))
}
