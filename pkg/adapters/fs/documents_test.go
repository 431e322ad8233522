package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/runways/pkg/adapters/fs"
	"github.com/aretw0/runways/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, cfg fs.Config) *fs.DocumentStore {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = t.TempDir()
	}
	s := fs.NewDocumentStore(cfg)
	require.NoError(t, s.Initialize())
	return s
}

func TestDocumentStore_ReadMissing(t *testing.T) {
	s := newStore(t, fs.Config{})

	_, err := s.Read("private_notes.json")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDocumentStore_WriteRead(t *testing.T) {
	s := newStore(t, fs.Config{})

	require.NoError(t, s.Write("public_notes.json", []byte(`[]`)))
	got, err := s.Read("public_notes.json")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	state := s.State().(fs.DocumentStoreState)
	assert.Equal(t, 1, state.Writes)
	assert.Equal(t, 1, state.Reads)
	assert.Equal(t, "document-store", s.ComponentType())
}

func TestDocumentStore_ReadOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`[1]`), 0o644))
	s := newStore(t, fs.Config{Path: dir, ReadOnly: true})

	got, err := s.Read("a.json")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))

	err = s.Write("a.json", []byte(`[2]`))
	assert.ErrorIs(t, err, core.ErrReadOnly)

	after, _ := os.ReadFile(filepath.Join(dir, "a.json"))
	assert.Equal(t, `[1]`, string(after))
}

func TestDocumentStore_Initialize(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")
		require.NoError(t, fs.NewDocumentStore(fs.Config{Path: dir}).Initialize())
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("must exist rejects a missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "missing")
		assert.Error(t, fs.NewDocumentStore(fs.Config{Path: dir, MustExist: true}).Initialize())
	})

	t.Run("must exist rejects a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0o644))
		assert.Error(t, fs.NewDocumentStore(fs.Config{Path: file, MustExist: true}).Initialize())
	})
}

func TestDocumentStore_PathOf(t *testing.T) {
	dir := t.TempDir()
	s := fs.NewDocumentStore(fs.Config{Path: dir})
	assert.Equal(t, filepath.Join(dir, "public_note_votes.json"), s.PathOf("public_note_votes.json"))
}
