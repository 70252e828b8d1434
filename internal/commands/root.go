// Package commands wires the CLI command tree. The root command runs
// the interactive picker; subcommands cover plain listing, transcript
// preview, remote sync, and self-update checks.
package commands

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arvessen/ccsessions/internal/config"
	"github.com/arvessen/ccsessions/internal/remote"
	"github.com/arvessen/ccsessions/internal/scan"
	"github.com/arvessen/ccsessions/internal/session"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = ""
)

var (
	debugFlag  bool
	noSyncFlag bool
	strictFlag bool
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "ccsessions",
	Short: "Browse, search, and resume Claude Code sessions",
	Long: `ccsessions discovers Claude Code transcripts across local and
remote project directories, summarizes them, and resumes the one you
pick. Run without arguments for the interactive picker.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debugFlag {
			logrus.SetLevel(logrus.DebugLevel)
		}
		config.MigrateFromLegacy()
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	RunE: runBrowse,
}

// Execute runs the command tree with build-time version metadata.
func Execute(v, c, d string) {
	version, commit, buildDate = v, c, d
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noSyncFlag, "no-sync", false,
		"skip the automatic remote sync")
	rootCmd.PersistentFlags().BoolVar(&strictFlag, "strict", false,
		"fail when any remote sync fails")
}

// syncAndSources refreshes stale remote mirrors and returns every
// scan source: the local projects dir first, then each remote cache.
// In strict mode a sync failure aborts; otherwise failures come back
// for display and browsing continues on cached data.
func syncAndSources(cmd *cobra.Command) ([]scan.Source, []remote.Failure, error) {
	sources := []scan.Source{{
		Name:        session.SourceLocal,
		ProjectsDir: cfg.ProjectsDir,
	}}

	syncer := remote.New(&cfg)

	var failures []remote.Failure
	if !noSyncFlag {
		outcomes := syncer.SyncStale(cmd.Context())
		summary, err := remote.Summarize(outcomes, strictFlag)
		if err != nil {
			return nil, nil, err
		}
		failures = summary.Failures
	}

	return append(sources, syncer.Sources()...), failures, nil
}
