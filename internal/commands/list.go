package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arvessen/ccsessions/internal/scan"
	"github.com/arvessen/ccsessions/internal/session"
	"github.com/arvessen/ccsessions/internal/timeutil"
)

var (
	listCount   int
	listProject string
	listAll     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, most recently modified first",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntVarP(&listCount, "count", "n", 15,
		"number of sessions to show")
	listCmd.Flags().StringVarP(&listProject, "project", "p", "",
		"only sessions whose project name contains this substring")
	listCmd.Flags().BoolVar(&listAll, "all", false,
		"show every session")
}

func runList(cmd *cobra.Command, args []string) error {
	sources, failures, err := syncAndSources(cmd)
	if err != nil {
		return err
	}
	result := scan.Run(scan.Gather(sources))

	records := filterByProject(result.Records, listProject)
	if len(records) == 0 {
		if listProject != "" {
			return fmt.Errorf("no sessions match project filter %q", listProject)
		}
		return fmt.Errorf("no sessions found")
	}

	if !listAll && len(records) > listCount {
		records = records[:listCount]
	}

	out := cmd.OutOrStdout()
	now := time.Now()

	if debugFlag {
		fmt.Fprintf(out, "%-6s %-6s %-8s %-16s %-36s %s\n",
			"CREAT", "MOD", "SOURCE", "PROJECT", "ID", "SUMMARY")
		fmt.Fprintln(out, strings.Repeat("─", 120))
		for _, rec := range records {
			fmt.Fprintf(out, "%-6s %-6s %-8s %-16s %-36s %s\n",
				timeutil.Relative(rec.Created, now),
				timeutil.Relative(rec.Modified, now),
				rec.Source,
				truncCol(rec.Project, 16),
				rec.ID,
				rec.Describe(35))
		}
		fmt.Fprintln(out, strings.Repeat("─", 120))
		fmt.Fprintf(out, "Total: %d sessions\n", len(records))
	} else {
		fmt.Fprintf(out, "%-6s %-6s %-8s %-16s %s\n",
			"CREAT", "MOD", "SOURCE", "PROJECT", "SUMMARY")
		fmt.Fprintln(out, strings.Repeat("─", 96))
		for _, rec := range records {
			fmt.Fprintf(out, "%-6s %-6s %-8s %-16s %s\n",
				timeutil.Relative(rec.Created, now),
				timeutil.Relative(rec.Modified, now),
				rec.Source,
				truncCol(rec.Project, 16),
				rec.Describe(55))
		}
		fmt.Fprintln(out, strings.Repeat("─", 96))
		fmt.Fprintln(out, "Run 'ccsessions' for the interactive picker")
	}

	if result.Skipped > 0 {
		fmt.Fprintf(out, "%d unreadable file(s) skipped\n", result.Skipped)
	}
	for _, f := range failures {
		fmt.Fprintf(cmd.ErrOrStderr(),
			"warning: sync failed for %s: %s\n", f.Remote, f.Reason)
	}
	return nil
}

func filterByProject(records []session.Record, substr string) []session.Record {
	if substr == "" {
		return records
	}
	needle := strings.ToLower(substr)
	var kept []session.Record
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Project), needle) {
			kept = append(kept, rec)
		}
	}
	return kept
}

func truncCol(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}
