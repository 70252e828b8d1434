package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/arvessen/ccsessions/internal/scan"
	"github.com/arvessen/ccsessions/internal/session"
)

var previewCmd = &cobra.Command{
	Use:   "preview <session-id|file>",
	Short: "Print a condensed transcript of one session",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	path, err := resolveTranscript(cmd, args[0])
	if err != nil {
		return err
	}

	lines, err := session.Preview(path, session.PreviewLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(lines) == 0 {
		fmt.Fprintln(out, "(empty session)")
		return nil
	}

	userStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	assistantStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	for _, line := range lines {
		switch line.Role {
		case session.RoleUser:
			fmt.Fprintln(out, userStyle.Render("U: "+line.Text))
		default:
			fmt.Fprintln(out, assistantStyle.Render("A: "+line.Text))
		}
	}
	return nil
}

// resolveTranscript accepts a transcript path directly, or a session
// id (full or unambiguous prefix) looked up across all sources.
func resolveTranscript(cmd *cobra.Command, key string) (string, error) {
	if strings.HasSuffix(key, ".jsonl") {
		if _, err := os.Stat(key); err != nil {
			return "", fmt.Errorf("transcript %s: %w", key, err)
		}
		return key, nil
	}

	sources, _, err := syncAndSources(cmd)
	if err != nil {
		return "", err
	}
	needle := strings.ToLower(key)

	// Full ids resolve by direct filename lookup; no metadata scan
	// and no discard of sessions too sparse to list.
	if session.IsValidID(needle) {
		for _, src := range sources {
			if path := session.FindSourceFile(src.ProjectsDir, needle); path != "" {
				return path, nil
			}
		}
		return "", fmt.Errorf("no session matches %q", key)
	}

	records := scan.Run(scan.Gather(sources)).Records
	var matches []session.Record
	for _, rec := range records {
		if strings.HasPrefix(rec.ID, needle) {
			matches = append(matches, rec)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no session matches %q", key)
	case 1:
		return matches[0].Path, nil
	default:
		return "", fmt.Errorf("%q is ambiguous: %d sessions match", key, len(matches))
	}
}
