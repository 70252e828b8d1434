package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvessen/ccsessions/internal/testjsonl"
)

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	idA := testjsonl.TestUUID(1)
	idB := testjsonl.TestUUID(2)

	writeSession(t, dir, "proj-a", idA, testjsonl.Session(testjsonl.User("a")))
	writeSession(t, dir, "proj-b", idB, testjsonl.Session(testjsonl.User("b")))

	// Non-jsonl files and nested directories are ignored.
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "proj-a", "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(
		filepath.Join(dir, "proj-a", "sess", "subagents"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "proj-a", "sess", "subagents", "agent-1.jsonl"),
		[]byte("{}\n"), 0o644))

	// Top-level stray files are ignored too.
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "stray.jsonl"), []byte("{}\n"), 0o644))

	files := Discover(dir, SourceLocal)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "proj-a", idA+".jsonl"), files[0].Path)
	assert.Equal(t, filepath.Join(dir, "proj-b", idB+".jsonl"), files[1].Path)
	for _, f := range files {
		assert.Equal(t, SourceLocal, f.Source)
	}
}

func TestDiscoverMissingDir(t *testing.T) {
	files := Discover(filepath.Join(t.TempDir(), "absent"), SourceLocal)
	assert.Empty(t, files)
}

func TestDiscoverSourcePropagates(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, "proj", testjsonl.TestUUID(3),
		testjsonl.Session(testjsonl.User("remote")))

	files := Discover(dir, "devbox")
	require.Len(t, files, 1)
	assert.Equal(t, "devbox", files[0].Source)
}

func TestFindSourceFile(t *testing.T) {
	dir := t.TempDir()
	id := testjsonl.TestUUID(4)
	path := writeSession(t, dir, "proj-x", id,
		testjsonl.Session(testjsonl.User("find me")))

	assert.Equal(t, path, FindSourceFile(dir, id))
	assert.Empty(t, FindSourceFile(dir, testjsonl.TestUUID(5)))
	assert.Empty(t, FindSourceFile(dir, "not-a-uuid"))
}
