package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/runways/pkg/adapters/fs"
	"github.com/aretw0/runways/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForEvent(t *testing.T, events <-chan core.Event, timeout time.Duration) core.Event {
	t.Helper()
	select {
	case e, ok := <-events:
		require.True(t, ok, "events channel closed")
		return e
	case <-time.After(timeout):
		t.Fatal("timed out waiting for event")
		return core.Event{}
	}
}

func TestWatcher_ReportsStoreWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	store := fs.NewDocumentStore(fs.Config{Path: dir})
	require.NoError(t, store.Initialize())
	require.NoError(t, store.Write("private_notes.json", []byte(`[]`)))

	w := fs.NewWatcher(fs.WatcherConfig{Path: dir, Debounce: 10 * time.Millisecond})
	require.NoError(t, w.Start(ctx))
	t.Cleanup(func() { _ = w.Stop(context.Background()) })

	require.Eventually(t, w.Active, time.Second, 5*time.Millisecond)

	require.NoError(t, store.Write("private_notes.json", []byte(`[ ]`)))

	e := waitForEvent(t, w.Events(), 2*time.Second)
	assert.Equal(t, core.StorePrivateNotes, e.Store)
	assert.Equal(t, "private_notes.json", e.ID)
	assert.Equal(t, core.EventModify, e.Type)
}

func TestWatcher_IgnoresUnmatchedFiles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	w := fs.NewWatcher(fs.WatcherConfig{Path: dir, Pattern: "public_*.json", Debounce: 10 * time.Millisecond})
	require.NoError(t, w.Start(ctx))
	t.Cleanup(func() { _ = w.Stop(context.Background()) })
	require.Eventually(t, w.Active, time.Second, 5*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public_notes.json"), []byte(`[]`), 0o644))

	e := waitForEvent(t, w.Events(), 2*time.Second)
	assert.Equal(t, "public_notes.json", e.ID)
	assert.Equal(t, core.StoreBoard, e.Store)
}

func TestWatcher_ClosesEventsOnStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	w := fs.NewWatcher(fs.WatcherConfig{Path: t.TempDir()})
	require.NoError(t, w.Start(ctx))
	require.Eventually(t, w.Active, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case _, ok := <-w.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed")
	}
	assert.False(t, w.Active())
}

func TestWatcher_RejectsBadPattern(t *testing.T) {
	w := fs.NewWatcher(fs.WatcherConfig{Path: t.TempDir(), Pattern: "[unterminated"})
	assert.Error(t, w.Start(context.Background()))
}

func TestStoreFor(t *testing.T) {
	assert.Equal(t, core.StoreVotes, fs.StoreFor("/x/public_note_votes.json"))
	assert.Equal(t, core.StoreFavourites, fs.StoreFor("preferences.json"))
	assert.Equal(t, "", fs.StoreFor("runways.yaml"))
}
