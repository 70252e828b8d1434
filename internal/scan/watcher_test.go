package scan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestWatcher(t *testing.T, dir string) (*Watcher, chan struct{}) {
	t.Helper()

	changed := make(chan struct{}, 16)
	w, err := NewWatcher(50*time.Millisecond, func() {
		changed <- struct{}{}
	})
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	_, err = w.WatchRecursive(dir)
	require.NoError(t, err)
	w.Start()
	return w, changed
}

func waitForChange(t *testing.T, ch chan struct{}, timeout time.Duration) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatal("timed out waiting for change notification")
	}
}

func TestNewWatcherNilCallback(t *testing.T) {
	w, err := NewWatcher(time.Second, nil)
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestWatchRecursiveCountsDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "proj-a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "proj-b"), 0o755))

	w, err := NewWatcher(50*time.Millisecond, func() {})
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	watched, err := w.WatchRecursive(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, watched) // root plus two project dirs
}

func TestHandleEventMarksDirtyForSessionWrites(t *testing.T) {
	w, err := NewWatcher(50*time.Millisecond, func() {})
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	w.handleEvent(fsnotify.Event{
		Name: "/projects/a/1111.jsonl",
		Op:   fsnotify.Write,
	})
	assert.False(t, w.dirty.IsZero())
}

func TestHandleEventIgnoresIrrelevantFiles(t *testing.T) {
	w, err := NewWatcher(50*time.Millisecond, func() {})
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	w.handleEvent(fsnotify.Event{Name: "/projects/a/notes.txt", Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: "/projects/a/1111.jsonl", Op: fsnotify.Remove})
	w.handleEvent(fsnotify.Event{Name: "/projects/a/1111.jsonl", Op: fsnotify.Chmod})
	assert.True(t, w.dirty.IsZero())
}

func TestFlushWaitsForDebounce(t *testing.T) {
	fired := 0
	w, err := NewWatcher(50*time.Millisecond, func() { fired++ })
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	w.now = func() time.Time { return now }

	w.handleEvent(fsnotify.Event{Name: "/p/1111.jsonl", Op: fsnotify.Write})

	// Still inside the debounce window.
	now = base.Add(20 * time.Millisecond)
	w.flush()
	assert.Equal(t, 0, fired)

	// Past the window: fires once and resets.
	now = base.Add(100 * time.Millisecond)
	w.flush()
	assert.Equal(t, 1, fired)

	w.flush()
	assert.Equal(t, 1, fired)
}

func TestWriteEventTriggersRescan(t *testing.T) {
	dir := t.TempDir()
	projDir := filepath.Join(dir, "-Users-alice-app")
	require.NoError(t, os.MkdirAll(projDir, 0o755))

	_, changed := startTestWatcher(t, dir)

	path := filepath.Join(projDir, "11111111-1111-1111-1111-111111111111.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	waitForChange(t, changed, 2*time.Second)
}

func TestCreatedDirIsWatched(t *testing.T) {
	dir := t.TempDir()
	_, changed := startTestWatcher(t, dir)

	// New project directory appears after the watcher started.
	projDir := filepath.Join(dir, "-Users-alice-newproj")
	require.NoError(t, os.MkdirAll(projDir, 0o755))

	// Give the watcher a moment to add the new directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(projDir, "22222222-2222-2222-2222-222222222222.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	waitForChange(t, changed, 2*time.Second)
}

func TestStopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(50*time.Millisecond, func() {})
	require.NoError(t, err)
	w.Start()
	w.Stop()
	w.Stop()
}
