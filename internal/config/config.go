// Package config loads the ccsessions configuration by layering
// defaults, the TOML config file, and environment variables. Flags
// are applied by the commands that own them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Remote describes one SSH-reachable machine whose sessions are
// mirrored into the local cache.
type Remote struct {
	// Host is an SSH config alias or a raw hostname/IP.
	Host string `toml:"host"`
	// User is only needed for raw hosts without an SSH alias.
	User string `toml:"user,omitempty"`
	// ProjectsDir overrides the remote projects directory. It is
	// passed to the remote shell unexpanded, so "~" refers to the
	// remote home.
	ProjectsDir string `toml:"projects_dir,omitempty"`
}

// SSHTarget returns "user@host", or just "host" for alias-style
// remotes.
func (r Remote) SSHTarget() string {
	if r.User != "" {
		return r.User + "@" + r.Host
	}
	return r.Host
}

// SourceDir returns the remote projects directory, defaulting to the
// standard location.
func (r Remote) SourceDir() string {
	if r.ProjectsDir != "" {
		return r.ProjectsDir
	}
	return "~/.claude/projects"
}

// Config holds all application configuration.
type Config struct {
	// ProjectsDir is the local transcript root.
	ProjectsDir string
	// CacheDir is where remote mirrors live, one subdirectory per
	// remote name.
	CacheDir string
	// StaleThreshold is how old a remote mirror may get before
	// listing triggers a resync, in seconds.
	StaleThreshold int64
	// Command launches the assistant when resuming a session.
	Command string

	Remotes map[string]Remote

	configDir string
}

// Default returns a Config with default values.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("determining home directory: %w", err)
	}
	return Config{
		ProjectsDir:    filepath.Join(home, ".claude", "projects"),
		CacheDir:       filepath.Join(home, ".cache", "ccsessions", "remotes"),
		StaleThreshold: 3600,
		Command:        "claude",
		configDir:      filepath.Join(home, ".config", "ccsessions"),
	}, nil
}

// Load builds a Config by layering: defaults < config file < env.
func Load() (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("CCSESSIONS_CONFIG_DIR"); v != "" {
		cfg.configDir = v
	}
	if err := cfg.loadFile(); err != nil {
		return cfg, fmt.Errorf("loading config file: %w", err)
	}
	cfg.loadEnv()
	return cfg, nil
}

// Path returns the config file location.
func (c *Config) Path() string {
	return filepath.Join(c.configDir, "config.toml")
}

// fileShape mirrors the on-disk TOML layout.
type fileShape struct {
	Remotes  map[string]Remote `toml:"remotes,omitempty"`
	Settings settings          `toml:"settings,omitempty"`
}

type settings struct {
	ProjectsDir    string `toml:"projects_dir,omitempty"`
	CacheDir       string `toml:"cache_dir,omitempty"`
	StaleThreshold int64  `toml:"stale_threshold,omitempty"`
	Command        string `toml:"command,omitempty"`
}

func (c *Config) loadFile() error {
	var file fileShape
	if _, err := toml.DecodeFile(c.Path(), &file); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("parsing %s: %w", c.Path(), err)
	}

	c.Remotes = file.Remotes
	if file.Settings.ProjectsDir != "" {
		c.ProjectsDir = ExpandPath(file.Settings.ProjectsDir)
	}
	if file.Settings.CacheDir != "" {
		c.CacheDir = ExpandPath(file.Settings.CacheDir)
	}
	if file.Settings.StaleThreshold > 0 {
		c.StaleThreshold = file.Settings.StaleThreshold
	}
	if file.Settings.Command != "" {
		c.Command = file.Settings.Command
	}
	return nil
}

func (c *Config) loadEnv() {
	if v := os.Getenv("CLAUDE_PROJECTS_DIR"); v != "" {
		c.ProjectsDir = v
	}
	if v := os.Getenv("CCSESSIONS_CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := os.Getenv("CCSESSIONS_COMMAND"); v != "" {
		c.Command = v
	}
	if v := os.Getenv("CCSESSIONS_STALE_THRESHOLD"); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil && secs > 0 {
			c.StaleThreshold = secs
		}
	}
}

// Staleness returns the stale threshold as a duration.
func (c *Config) Staleness() time.Duration {
	return time.Duration(c.StaleThreshold) * time.Second
}

// RemoteCacheDir returns the mirror directory for one remote.
func (c *Config) RemoteCacheDir(name string) string {
	return filepath.Join(c.CacheDir, name)
}

// SetRemote adds or replaces a remote in the config file.
func (c *Config) SetRemote(name string, r Remote) error {
	return c.updateFile(func(file *fileShape) {
		if file.Remotes == nil {
			file.Remotes = make(map[string]Remote)
		}
		file.Remotes[name] = r
	})
}

// RemoveRemote deletes a remote from the config file. Removing an
// unknown name is not an error.
func (c *Config) RemoveRemote(name string) error {
	return c.updateFile(func(file *fileShape) {
		delete(file.Remotes, name)
	})
}

// updateFile rewrites the config file through a mutation, keeping
// whatever settings it already carries.
func (c *Config) updateFile(mutate func(*fileShape)) error {
	var file fileShape
	if _, err := toml.DecodeFile(c.Path(), &file); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("existing config is invalid, cannot update: %w", err)
	}

	mutate(&file)

	out, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(c.Path(), out, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	c.Remotes = file.Remotes
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
