package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("25")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	localTag = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	remoteTag = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// Preview pane: cyan for user turns, yellow for assistant.
	userRoleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6"))

	assistantRoleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("3"))

	previewTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	forkGlyphStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))
)
