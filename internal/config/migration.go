package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// MigrateFromLegacy adopts a config file from the pre-rename layout,
// ~/.config/cc-sessions/remotes.toml, when no config.toml exists
// yet. The schema is compatible. Call once during startup, before
// Load. Best effort: migration problems are logged, never fatal.
func MigrateFromLegacy() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}

	configDir := filepath.Join(home, ".config", "ccsessions")
	if v := os.Getenv("CCSESSIONS_CONFIG_DIR"); v != "" {
		configDir = v
	}
	legacy := filepath.Join(home, ".config", "cc-sessions", "remotes.toml")
	migrate(legacy, filepath.Join(configDir, "config.toml"))
}

func migrate(legacy, target string) {
	if _, err := os.Stat(target); err == nil {
		return // already configured
	}
	if _, err := os.Stat(legacy); err != nil {
		return // nothing to migrate
	}

	logrus.WithFields(logrus.Fields{
		"from": legacy,
		"to":   target,
	}).Info("migrating legacy config")

	if err := os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
		logrus.WithError(err).Warn("migration: cannot create config dir")
		return
	}
	if err := copyFile(legacy, target, 0o600); err != nil {
		logrus.WithError(err).Warn("migration: copying config")
	}
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying: %w", err)
	}
	return out.Close()
}
