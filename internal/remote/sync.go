// Package remote mirrors transcript directories from SSH-reachable
// machines into a local cache with rsync, tracks mirror freshness,
// and reports sync health. Browsing always reads the local mirror,
// never the network, so preview and search stay fast.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arvessen/ccsessions/internal/config"
	"github.com/arvessen/ccsessions/internal/scan"
)

// lastSyncFile sits inside each mirror and holds the unix time of
// the last successful sync.
const lastSyncFile = ".last_sync"

// Outcome describes one sync attempt against one remote.
type Outcome struct {
	Remote   string
	Duration time.Duration
	// SessionsLoaded is filled in by the caller once the mirror
	// has been scanned.
	SessionsLoaded int
	Err            error
}

// Succeeded reports whether the sync completed.
func (o Outcome) Succeeded() bool { return o.Err == nil }

// Syncer runs rsync-over-SSH mirror updates for configured remotes.
type Syncer struct {
	cfg *config.Config

	execRsync func(ctx context.Context, args []string) error
	now       func() time.Time
}

// New returns a Syncer for the configured remotes.
func New(cfg *config.Config) *Syncer {
	return &Syncer{cfg: cfg, execRsync: runRsync, now: time.Now}
}

// Names returns the configured remote names, sorted for stable
// iteration and display.
func (s *Syncer) Names() []string {
	names := make([]string, 0, len(s.cfg.Remotes))
	for name := range s.cfg.Remotes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sources lists every remote mirror as a scan source.
func (s *Syncer) Sources() []scan.Source {
	var sources []scan.Source
	for _, name := range s.Names() {
		sources = append(sources, scan.Source{
			Name:        name,
			ProjectsDir: s.cfg.RemoteCacheDir(name),
		})
	}
	return sources
}

// Sync mirrors one remote's projects directory into the local
// cache. The returned Outcome carries the failure instead of an
// error return so batch callers can aggregate.
func (s *Syncer) Sync(ctx context.Context, name string) Outcome {
	r, ok := s.cfg.Remotes[name]
	if !ok {
		return Outcome{Remote: name, Err: fmt.Errorf("remote %q is not configured", name)}
	}

	cacheDir := s.cfg.RemoteCacheDir(name)
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Outcome{Remote: name, Err: fmt.Errorf("creating cache dir: %w", err)}
	}

	// Trailing slashes make rsync copy directory contents, not the
	// directory itself.
	source := r.SSHTarget() + ":" + r.SourceDir() + "/"
	args := []string{
		"-az",
		"--delete",
		"-e", "ssh",
		"--exclude", "*.lock",
		source,
		cacheDir + "/",
	}

	logrus.WithFields(logrus.Fields{
		"remote": name,
		"source": source,
	}).Debug("syncing remote")

	start := s.now()
	if err := s.execRsync(ctx, args); err != nil {
		return Outcome{Remote: name, Duration: s.now().Sub(start), Err: err}
	}

	out := Outcome{Remote: name, Duration: s.now().Sub(start)}
	if err := s.writeStamp(cacheDir); err != nil {
		logrus.WithError(err).WithField("remote", name).
			Warn("sync succeeded but stamp update failed")
	}
	return out
}

// SyncAll mirrors every configured remote regardless of freshness.
func (s *Syncer) SyncAll(ctx context.Context) []Outcome {
	var outcomes []Outcome
	for _, name := range s.Names() {
		outcomes = append(outcomes, s.Sync(ctx, name))
	}
	return outcomes
}

// SyncStale mirrors only remotes whose cache is older than the
// stale threshold. Fresh remotes are skipped and produce no
// outcome.
func (s *Syncer) SyncStale(ctx context.Context) []Outcome {
	var outcomes []Outcome
	for _, name := range s.Names() {
		if !s.IsStale(name) {
			logrus.WithField("remote", name).Debug("mirror is fresh, skipping sync")
			continue
		}
		outcomes = append(outcomes, s.Sync(ctx, name))
	}
	return outcomes
}

// IsStale reports whether a remote's mirror is due for a resync.
// Never-synced and unreadable stamps count as stale.
func (s *Syncer) IsStale(name string) bool {
	last, ok := s.LastSync(name)
	if !ok {
		return true
	}
	return s.now().Sub(last) > s.cfg.Staleness()
}

// LastSync returns the time of the last successful sync for a
// remote, if any.
func (s *Syncer) LastSync(name string) (time.Time, bool) {
	path := filepath.Join(s.cfg.RemoteCacheDir(name), lastSyncFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, false
	}
	secs, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		logrus.WithField("remote", name).Debug("unreadable sync stamp, treating as never synced")
		return time.Time{}, false
	}
	return time.Unix(secs, 0), true
}

func (s *Syncer) writeStamp(cacheDir string) error {
	stamp := strconv.FormatInt(s.now().Unix(), 10)
	return os.WriteFile(filepath.Join(cacheDir, lastSyncFile), []byte(stamp), 0o644)
}

// runRsync executes rsync, surfacing its stderr as the error
// message since rsync's exit codes alone say little.
func runRsync(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "rsync", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("rsync: %s", msg)
	}
	return nil
}
