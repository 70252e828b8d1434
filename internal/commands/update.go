package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arvessen/ccsessions/internal/update"
)

var (
	updateForce     bool
	updateCheckOnly bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check whether a newer release is available",
	RunE:  runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().BoolVar(&updateForce, "force", false,
		"skip the cached result and query GitHub directly")
	updateCmd.Flags().BoolVar(&updateCheckOnly, "check", false,
		"only report the version, without download instructions")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	info, err := update.Check(version, updateForce, updateCacheDir())
	if err != nil {
		return fmt.Errorf("update check: %w", err)
	}

	out := cmd.OutOrStdout()
	if info == nil {
		fmt.Fprintf(out, "ccsessions %s is up to date\n", version)
		return nil
	}

	fmt.Fprintf(out, "update available: %s -> %s\n",
		info.CurrentVersion, info.LatestVersion)
	if info.IsDevBuild {
		fmt.Fprintln(out, "note: this is a development build")
	}
	if !updateCheckOnly {
		fmt.Fprintf(out, "download: %s\n", info.ReleaseURL)
	}
	return nil
}

func updateCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "ccsessions")
}
