package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arvessen/ccsessions/internal/remote"
	"github.com/arvessen/ccsessions/internal/scan"
)

var syncCmd = &cobra.Command{
	Use:   "sync [remote...]",
	Short: "Force a sync of remote mirrors",
	Long: `Sync mirrors every remote's projects directory into the local
cache over rsync/SSH. With no arguments all configured remotes sync;
otherwise only the named ones.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	syncer := remote.New(&cfg)

	if len(syncer.Names()) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no remotes configured")
		return nil
	}

	var outcomes []remote.Outcome
	if len(args) == 0 {
		outcomes = syncer.SyncAll(cmd.Context())
	} else {
		for _, name := range args {
			if _, ok := cfg.Remotes[name]; !ok {
				return fmt.Errorf("unknown remote %q", name)
			}
		}
		for _, name := range args {
			outcomes = append(outcomes, syncer.Sync(cmd.Context(), name))
		}
	}

	out := cmd.OutOrStdout()
	for i := range outcomes {
		o := &outcomes[i]
		if !o.Succeeded() {
			fmt.Fprintf(out, "failed %s: %v\n", o.Remote, o.Err)
			continue
		}
		mirror := scan.Run(scan.Gather([]scan.Source{{
			Name:        o.Remote,
			ProjectsDir: cfg.RemoteCacheDir(o.Remote),
		}}))
		o.SessionsLoaded = len(mirror.Records)
		fmt.Fprintf(out, "synced %s in %s (%d sessions)\n",
			o.Remote, o.Duration.Round(time.Millisecond), o.SessionsLoaded)
	}

	summary, err := remote.Summarize(outcomes, strictFlag)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d synced, %d failed\n",
		summary.Successful, summary.Failed)
	return nil
}
