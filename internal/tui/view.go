package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arvessen/ccsessions/internal/nav"
	"github.com/arvessen/ccsessions/internal/session"
	"github.com/arvessen/ccsessions/internal/timeutil"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderTitle() + "\n")

	listWidth := m.width
	withPreview := m.width >= previewMinWidth
	if withPreview {
		listWidth = m.width / 2
	}

	left := m.renderListColumn(listWidth)
	if withPreview {
		right := m.renderPreviewColumn(m.width - listWidth)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(left)
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatus() + "\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderTitle() string {
	title := titleStyle.Render("ccsessions")

	var crumb string
	if focus, ok := m.nav.Focus(); ok {
		crumb = "  forks of " + shortID(focus)
		if d := m.nav.Depth(); d > 1 {
			crumb += fmt.Sprintf(" (level %d)", d)
		}
	}

	counts := fmt.Sprintf("  %d/%d sessions", len(m.rows), len(m.nav.Records()))
	return title + dimStyle.Render(crumb+counts)
}

func (m Model) renderListColumn(width int) string {
	lines := []string{m.renderHeader(width)}

	if len(m.rows) == 0 {
		lines = append(lines, dimStyle.Render("  "+m.emptyNotice()))
	}

	visible := m.visibleRows()
	end := min(m.offset+visible, len(m.rows))
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(i, width))
	}
	for len(lines) < visible+1 {
		lines = append(lines, "")
	}

	for i := range lines {
		lines[i] = padANSI(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

func (m Model) emptyNotice() string {
	if m.nav.Mode() == nav.ModeFullText {
		if strings.TrimSpace(m.nav.Query()) == "" {
			return "type to search transcripts"
		}
		return "no matches"
	}
	return "no sessions"
}

func (m Model) renderHeader(width int) string {
	w := m.listColWidths(width)
	cols := []string{
		pad("MOD", w.mod),
		pad("SOURCE", w.source),
		pad("PROJECT", w.project),
		" ",
		pad("SESSION", w.desc),
	}
	return headerStyle.Render(strings.Join(cols, " "))
}

func (m Model) renderRow(i, width int) string {
	row := m.rows[i]
	rec, ok := m.nav.Record(row.ID)
	if !ok {
		return ""
	}
	w := m.listColWidths(width)

	prefix := m.rowPrefix(i, row)
	descWidth := w.desc - len([]rune(prefix))
	if descWidth < 4 {
		descWidth = 4
	}
	desc := prefix + rec.Describe(descWidth)

	glyph := " "
	if row.HasChildren {
		glyph = "⑂"
	}

	cols := []string{
		pad(timeutil.Relative(rec.Modified, m.now()), w.mod),
		pad(rec.Source, w.source),
		pad(rec.Project, w.project),
		glyph,
		pad(desc, w.desc),
	}

	if i == m.cursor {
		return selectedStyle.Render(strings.Join(cols, " "))
	}

	cols[1] = sourceTag(rec.Source).Render(cols[1])
	if row.HasChildren {
		cols[3] = forkGlyphStyle.Render(cols[3])
	}
	return " " + strings.Join(cols, " ") + " "
}

// rowPrefix draws the subtree shape: the focused parent on top, its
// direct forks indented under it.
func (m Model) rowPrefix(i int, row nav.Row) string {
	if m.nav.Mode() == nav.ModeFullText || m.nav.Depth() == 0 {
		return ""
	}
	if row.Focused {
		return "▼ "
	}
	if i == len(m.rows)-1 {
		return "  └ "
	}
	return "  ├ "
}

func sourceTag(source string) lipgloss.Style {
	if source == session.SourceLocal {
		return localTag
	}
	return remoteTag
}

func (m Model) renderPreviewColumn(width int) string {
	inner := width - 2
	var lines []string

	title := "transcript"
	if rec, ok := m.nav.Record(m.currentID()); ok {
		title = shortID(rec.ID) + " · " + rec.Project
	}
	lines = append(lines, previewTitleStyle.Render(pad(title, inner-2)))

	visible := m.visibleRows()
	switch {
	case m.currentID() == "":
	case m.previewErr != nil:
		lines = append(lines, dimStyle.Render("preview unavailable"))
	case m.previewID != m.currentID():
		lines = append(lines, dimStyle.Render("loading..."))
	case len(m.previewLines) == 0:
		lines = append(lines, dimStyle.Render("(empty session)"))
	default:
		for _, pl := range m.previewLines {
			if len(lines) > visible {
				break
			}
			lines = append(lines, renderPreviewLine(pl, inner))
		}
	}
	for len(lines) < visible+1 {
		lines = append(lines, "")
	}

	gutter := dimStyle.Render("│ ")
	for i := range lines {
		lines[i] = gutter + lines[i]
	}
	return strings.Join(lines, "\n")
}

func renderPreviewLine(pl session.PreviewLine, width int) string {
	role, style := "A:", assistantRoleStyle
	if pl.Role == session.RoleUser {
		role, style = "U:", userRoleStyle
	}
	text := pl.Text
	if w := width - 3; w > 0 && len([]rune(text)) > w {
		text = string([]rune(text)[:w])
	}
	return style.Render(role + " " + text)
}

func (m Model) renderStatus() string {
	switch m.mode {
	case modeFilter:
		return statusBarStyle.Render("Filter: ") + m.filterInput.View()
	case modeSearch:
		return statusBarStyle.Render("Search: ") + m.searchInput.View()
	}

	var parts []string
	if q := strings.TrimSpace(m.filterInput.Value()); q != "" && m.nav.Mode() == nav.ModeNormal {
		parts = append(parts, fmt.Sprintf("filter: %q", q))
	}
	if m.nav.Mode() == nav.ModeFullText {
		parts = append(parts, fmt.Sprintf("search: %q", m.nav.Query()))
	}
	if m.skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d unreadable", m.skipped))
	}

	line := statusBarStyle.Render(strings.Join(parts, "  "))
	if len(m.failures) > 0 {
		names := make([]string, 0, len(m.failures))
		for _, f := range m.failures {
			names = append(names, f.Remote)
		}
		line += errStyle.Render("  sync failed: " + strings.Join(names, ", "))
	}
	return line
}

func (m Model) renderHelp() string {
	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render("  " + strings.Join(parts, "  "))
}

type listColWidths struct {
	mod     int
	source  int
	project int
	desc    int
}

func (m Model) listColWidths(total int) listColWidths {
	w := listColWidths{mod: 5, source: 7, project: 14}
	// Two edge spaces, four separators, one glyph column.
	used := w.mod + w.source + w.project + 7
	w.desc = total - used
	if w.desc < 16 {
		w.desc = 16
	}
	return w
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-len(runes))
}

func padANSI(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
