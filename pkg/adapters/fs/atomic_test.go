package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("creates a new file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "private_notes.json")

		require.NoError(t, writeFileAtomic(path, []byte(`[]`), 0o644))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
	})

	t.Run("replaces existing content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "public_notes.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"id":"old"}]`), 0o644))

		require.NoError(t, writeFileAtomic(path, []byte(`[]`), 0o644))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, writeFileAtomic(filepath.Join(dir, "a.json"), []byte(`1`), 0o644))
		require.NoError(t, writeFileAtomic(filepath.Join(dir, "a.json"), []byte(`2`), 0o644))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.False(t, IsTempFile(entries[0].Name()))
	})

	t.Run("fails when the directory is missing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "a.json")
		assert.Error(t, writeFileAtomic(path, []byte(`[]`), 0o644))
	})
}

func TestIsTempFile(t *testing.T) {
	assert.True(t, IsTempFile("/data/runways-tmp-12345"))
	assert.False(t, IsTempFile("/data/private_notes.json"))
}
