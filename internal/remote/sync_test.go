package remote

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvessen/ccsessions/internal/config"
)

type fakeRsync struct {
	calls [][]string
	err   error
}

func (f *fakeRsync) run(_ context.Context, args []string) error {
	f.calls = append(f.calls, args)
	return f.err
}

func newTestSyncer(t *testing.T, remotes map[string]config.Remote) (*Syncer, *fakeRsync) {
	t.Helper()
	cfg := &config.Config{
		CacheDir:       t.TempDir(),
		StaleThreshold: 3600,
		Remotes:        remotes,
	}
	fake := &fakeRsync{}
	s := New(cfg)
	s.execRsync = fake.run
	return s, fake
}

func writeStampFile(t *testing.T, s *Syncer, name string, at time.Time) {
	t.Helper()
	dir := s.cfg.RemoteCacheDir(name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	stamp := strconv.FormatInt(at.Unix(), 10)
	require.NoError(t, os.WriteFile(filepath.Join(dir, lastSyncFile), []byte(stamp), 0o644))
}

func TestSyncBuildsRsyncCommand(t *testing.T) {
	s, fake := newTestSyncer(t, map[string]config.Remote{
		"devbox": {Host: "devbox"},
	})

	out := s.Sync(context.Background(), "devbox")
	require.True(t, out.Succeeded())

	require.Len(t, fake.calls, 1)
	assert.Equal(t, []string{
		"-az",
		"--delete",
		"-e", "ssh",
		"--exclude", "*.lock",
		"devbox:~/.claude/projects/",
		s.cfg.RemoteCacheDir("devbox") + "/",
	}, fake.calls[0])
}

func TestSyncWithUserAndCustomDir(t *testing.T) {
	s, fake := newTestSyncer(t, map[string]config.Remote{
		"workstation": {
			Host:        "192.168.1.100",
			User:        "ec2-user",
			ProjectsDir: "/srv/claude/projects",
		},
	})

	out := s.Sync(context.Background(), "workstation")
	require.True(t, out.Succeeded())
	assert.Equal(t, "ec2-user@192.168.1.100:/srv/claude/projects/",
		fake.calls[0][6])
}

func TestSyncWritesStamp(t *testing.T) {
	s, _ := newTestSyncer(t, map[string]config.Remote{
		"devbox": {Host: "devbox"},
	})
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	require.True(t, s.Sync(context.Background(), "devbox").Succeeded())

	last, ok := s.LastSync("devbox")
	require.True(t, ok)
	assert.Equal(t, at.Unix(), last.Unix())
}

func TestSyncUnknownRemote(t *testing.T) {
	s, fake := newTestSyncer(t, nil)

	out := s.Sync(context.Background(), "ghost")
	assert.False(t, out.Succeeded())
	assert.Contains(t, out.Err.Error(), "not configured")
	assert.Empty(t, fake.calls)
}

func TestSyncFailureLeavesNoStamp(t *testing.T) {
	s, fake := newTestSyncer(t, map[string]config.Remote{
		"devbox": {Host: "devbox"},
	})
	fake.err = errors.New("rsync: connection refused")

	out := s.Sync(context.Background(), "devbox")
	assert.False(t, out.Succeeded())
	assert.Contains(t, out.Err.Error(), "connection refused")

	_, ok := s.LastSync("devbox")
	assert.False(t, ok)
}

func TestSyncAllSortedByName(t *testing.T) {
	s, _ := newTestSyncer(t, map[string]config.Remote{
		"bravo": {Host: "b"},
		"alpha": {Host: "a"},
	})

	outcomes := s.SyncAll(context.Background())
	require.Len(t, outcomes, 2)
	assert.Equal(t, "alpha", outcomes[0].Remote)
	assert.Equal(t, "bravo", outcomes[1].Remote)
}

func TestSyncStaleSkipsFreshMirrors(t *testing.T) {
	s, _ := newTestSyncer(t, map[string]config.Remote{
		"fresh": {Host: "f"},
		"never": {Host: "n"},
		"stale": {Host: "s"},
	})
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	writeStampFile(t, s, "fresh", now.Add(-10*time.Second))
	writeStampFile(t, s, "stale", now.Add(-2*time.Hour))

	outcomes := s.SyncStale(context.Background())
	require.Len(t, outcomes, 2)
	assert.Equal(t, "never", outcomes[0].Remote)
	assert.Equal(t, "stale", outcomes[1].Remote)
}

func TestIsStale(t *testing.T) {
	s, _ := newTestSyncer(t, map[string]config.Remote{
		"devbox": {Host: "devbox"},
	})
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	t.Run("never synced", func(t *testing.T) {
		assert.True(t, s.IsStale("devbox"))
	})

	t.Run("fresh", func(t *testing.T) {
		writeStampFile(t, s, "devbox", now.Add(-time.Minute))
		assert.False(t, s.IsStale("devbox"))
	})

	t.Run("past threshold", func(t *testing.T) {
		writeStampFile(t, s, "devbox", now.Add(-61*time.Minute))
		assert.True(t, s.IsStale("devbox"))
	})

	t.Run("corrupt stamp", func(t *testing.T) {
		dir := s.cfg.RemoteCacheDir("devbox")
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, lastSyncFile), []byte("not-a-number"), 0o644))
		assert.True(t, s.IsStale("devbox"))
	})
}

func TestSources(t *testing.T) {
	s, _ := newTestSyncer(t, map[string]config.Remote{
		"bravo": {Host: "b"},
		"alpha": {Host: "a"},
	})

	sources := s.Sources()
	require.Len(t, sources, 2)
	assert.Equal(t, "alpha", sources[0].Name)
	assert.Equal(t, s.cfg.RemoteCacheDir("alpha"), sources[0].ProjectsDir)
	assert.Equal(t, "bravo", sources[1].Name)
}
