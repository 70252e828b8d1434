package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/arvessen/ccsessions/internal/config"
	"github.com/arvessen/ccsessions/internal/remote"
	"github.com/arvessen/ccsessions/internal/timeutil"
)

var (
	remoteUser        string
	remoteProjectsDir string
)

var remotesCmd = &cobra.Command{
	Use:   "remotes",
	Short: "Manage remote machines whose sessions are mirrored locally",
	RunE:  runRemotesList,
}

var remotesAddCmd = &cobra.Command{
	Use:   "add <name> <host>",
	Short: "Add a remote by SSH alias or hostname",
	Args:  cobra.ExactArgs(2),
	RunE:  runRemotesAdd,
}

var remotesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a remote (its cached sessions are kept)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemotesRemove,
}

func init() {
	rootCmd.AddCommand(remotesCmd)
	remotesCmd.AddCommand(remotesAddCmd)
	remotesCmd.AddCommand(remotesRemoveCmd)
	remotesAddCmd.Flags().StringVar(&remoteUser, "user", "",
		"SSH user (only needed for raw hostnames)")
	remotesAddCmd.Flags().StringVar(&remoteProjectsDir, "projects-dir", "",
		"remote projects directory (default ~/.claude/projects)")
}

func runRemotesList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(cfg.Remotes) == 0 {
		fmt.Fprintln(out, "no remotes configured")
		fmt.Fprintln(out, "Run 'ccsessions remotes add <name> <host>' to add one")
		return nil
	}

	names := make([]string, 0, len(cfg.Remotes))
	for name := range cfg.Remotes {
		names = append(names, name)
	}
	sort.Strings(names)

	syncer := remote.New(&cfg)
	now := time.Now()

	fmt.Fprintf(out, "%-12s %-28s %-10s %s\n",
		"NAME", "TARGET", "LAST SYNC", "STATUS")
	for _, name := range names {
		r := cfg.Remotes[name]
		target := r.SSHTarget() + ":" + r.SourceDir()

		last := "never"
		if t, ok := syncer.LastSync(name); ok {
			last = timeutil.Relative(t, now)
		}
		status := "fresh"
		if syncer.IsStale(name) {
			status = "stale"
		}
		fmt.Fprintf(out, "%-12s %-28s %-10s %s\n",
			truncCol(name, 12), truncCol(target, 28), last, status)
	}
	return nil
}

func runRemotesAdd(cmd *cobra.Command, args []string) error {
	name, host := args[0], args[1]
	r := config.Remote{
		Host:        host,
		User:        remoteUser,
		ProjectsDir: remoteProjectsDir,
	}
	if err := cfg.SetRemote(name, r); err != nil {
		return fmt.Errorf("adding remote %q: %w", name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added remote %s (%s:%s)\n",
		name, r.SSHTarget(), r.SourceDir())
	return nil
}

func runRemotesRemove(cmd *cobra.Command, args []string) error {
	name := args[0]
	if _, ok := cfg.Remotes[name]; !ok {
		return fmt.Errorf("unknown remote %q", name)
	}
	if err := cfg.RemoveRemote(name); err != nil {
		return fmt.Errorf("removing remote %q: %w", name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed remote %s\n", name)
	return nil
}
