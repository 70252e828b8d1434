// Package tui implements the interactive session picker: a list of
// transcripts over the navigation machine in internal/nav, with a
// fuzzy filter, full-text transcript search, fork-tree drill-in, and
// a live preview pane. The browse command runs the program and
// launches the selected session after the terminal is released.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/arvessen/ccsessions/internal/fork"
	"github.com/arvessen/ccsessions/internal/nav"
	"github.com/arvessen/ccsessions/internal/remote"
	"github.com/arvessen/ccsessions/internal/scan"
	"github.com/arvessen/ccsessions/internal/session"
)

type mode int

const (
	modeList mode = iota
	modeFilter
	modeSearch
)

// previewMinWidth is the narrowest terminal that still gets the
// side-by-side transcript pane.
const previewMinWidth = 100

// RescanMsg asks the model to rescan every source. The browse
// command sends it from the filesystem watcher callback.
type RescanMsg struct{}

type snapshotMsg struct{ result scan.Result }

type searchResultsMsg struct {
	query string
	ids   []string
}

type previewMsg struct {
	id    string
	lines []session.PreviewLine
	err   error
}

// Resume is the selection handed back to the caller after the
// program exits.
type Resume struct {
	Record session.Record
	Fork   bool
}

type Model struct {
	nav     *nav.State
	sources []scan.Source
	keys    KeyMap

	rows   []nav.Row
	cursor int
	offset int
	width  int
	height int

	mode        mode
	filterInput textinput.Model
	searchInput textinput.Model

	previewID    string
	previewLines []session.PreviewLine
	previewErr   error

	skipped  int
	failures []remote.Failure

	resume   *Resume
	quitting bool

	now func() time.Time
}

// NewModel builds the picker over an initial scan result. sources
// are re-gathered on every RescanMsg; failures are surfaced in the
// footer and never block browsing.
func NewModel(result scan.Result, sources []scan.Source, failures []remote.Failure) Model {
	fi := textinput.New()
	fi.Placeholder = "fuzzy filter..."
	fi.CharLimit = 100

	si := textinput.New()
	si.Placeholder = "search transcripts..."
	si.CharLimit = 100

	st := nav.New()
	st.SetSnapshot(result.Records, fork.Build(result.Records))

	m := Model{
		nav:         st,
		sources:     sources,
		keys:        NewKeyMap(),
		filterInput: fi,
		searchInput: si,
		skipped:     result.Skipped,
		failures:    failures,
		width:       120,
		height:      30,
		now:         time.Now,
	}
	m.refreshRows()
	return m
}

// Resume returns the session chosen for resumption, if any.
func (m Model) Resume() (Resume, bool) {
	if m.resume == nil {
		return Resume{}, false
	}
	return *m.resume, true
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.previewCmdIfNeeded())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
		return m, nil

	case RescanMsg:
		return m, rescanCmd(m.sources)

	case snapshotMsg:
		selected := m.currentID()
		m.skipped = msg.result.Skipped
		m.nav.SetSnapshot(msg.result.Records, fork.Build(msg.result.Records))
		m.refreshRows()
		m.restoreCursor(selected)
		return m, m.previewCmdIfNeeded()

	case searchResultsMsg:
		m.nav.Apply(nav.SearchResults{Query: msg.query, IDs: msg.ids})
		m.cursor, m.offset = 0, 0
		m.refreshRows()
		return m, m.previewCmdIfNeeded()

	case previewMsg:
		if msg.id == m.currentID() {
			m.previewID = msg.id
			m.previewLines = msg.lines
			m.previewErr = msg.err
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.updateList(msg)
		case modeFilter:
			return m.updateFilter(msg)
		case modeSearch:
			return m.updateSearch(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		return m.applyNav(nav.ExitSearchOrBack{})

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.clampOffset()
		}
		return m, m.previewCmdIfNeeded()

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.clampOffset()
		}
		return m, m.previewCmdIfNeeded()

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.clampOffset()
		return m, m.previewCmdIfNeeded()

	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(0, len(m.rows)-1)
		m.clampOffset()
		return m, m.previewCmdIfNeeded()

	case key.Matches(msg, m.keys.PageUp):
		m.cursor = max(0, m.cursor-m.visibleRows())
		m.clampOffset()
		return m, m.previewCmdIfNeeded()

	case key.Matches(msg, m.keys.PageDown):
		if len(m.rows) > 0 {
			m.cursor = min(len(m.rows)-1, m.cursor+m.visibleRows())
			m.clampOffset()
		}
		return m, m.previewCmdIfNeeded()

	case key.Matches(msg, m.keys.Resume):
		if id := m.currentID(); id != "" {
			return m.applyNav(nav.Select{ID: id})
		}

	case key.Matches(msg, m.keys.ForkResume):
		if id := m.currentID(); id != "" {
			return m.applyNav(nav.Select{ID: id, Fork: true})
		}

	case key.Matches(msg, m.keys.DrillIn):
		if id := m.currentID(); id != "" {
			return m.applyNav(nav.DrillIn{ID: id})
		}

	case key.Matches(msg, m.keys.Back):
		return m.applyNav(nav.Back{})

	case key.Matches(msg, m.keys.Filter):
		m.mode = modeFilter
		m.filterInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.FullText):
		m.mode = modeSearch
		if m.nav.Mode() != nav.ModeFullText {
			m.searchInput.SetValue("")
			m.nav.Apply(nav.EnterFullTextSearch{})
			m.cursor, m.offset = 0, 0
			m.refreshRows()
		}
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.NormalMode):
		return m.applyNav(nav.ToggleNormalFilterMode{})
	}

	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		m.filterInput.Blur()
		m.mode = modeList
		return m, nil

	case "esc":
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.mode = modeList
		m.cursor, m.offset = 0, 0
		m.refreshRows()
		return m, m.previewCmdIfNeeded()
	}

	var cmd tea.Cmd
	prev := m.filterInput.Value()
	m.filterInput, cmd = m.filterInput.Update(msg)
	if m.filterInput.Value() != prev {
		m.cursor, m.offset = 0, 0
		m.refreshRows()
		return m, tea.Batch(cmd, m.previewCmdIfNeeded())
	}
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		m.searchInput.Blur()
		m.mode = modeList
		return m, nil

	case "esc":
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.mode = modeList
		m.nav.Apply(nav.ExitSearchOrBack{})
		m.cursor, m.offset = 0, 0
		m.refreshRows()
		return m, m.previewCmdIfNeeded()
	}

	var cmd tea.Cmd
	prev := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if v := m.searchInput.Value(); v != prev {
		eff := m.nav.Apply(nav.QueryChanged{Query: v})
		m.cursor, m.offset = 0, 0
		m.refreshRows()
		if eff.Kind == nav.EffectRunSearch {
			return m, tea.Batch(cmd, searchCmd(m.nav.Records(), eff.Query))
		}
		return m, tea.Batch(cmd, m.previewCmdIfNeeded())
	}
	return m, cmd
}

// applyNav runs one machine transition and dispatches its effect.
// The cursor resets only when the view actually changed, so ignored
// actions keep the selection.
func (m Model) applyNav(action nav.Action) (tea.Model, tea.Cmd) {
	before := m.viewKey()
	eff := m.nav.Apply(action)
	if m.viewKey() != before {
		m.cursor, m.offset = 0, 0
	}
	m.refreshRows()

	switch eff.Kind {
	case nav.EffectExit:
		m.quitting = true
		return m, tea.Quit

	case nav.EffectResume:
		rec, ok := m.nav.Record(eff.SessionID)
		if !ok {
			return m, nil
		}
		m.resume = &Resume{Record: rec, Fork: eff.Fork}
		m.quitting = true
		return m, tea.Quit

	case nav.EffectRunSearch:
		return m, searchCmd(m.nav.Records(), eff.Query)
	}
	return m, m.previewCmdIfNeeded()
}

// viewKey identifies the current view shape: mode, depth, and
// innermost focus.
func (m Model) viewKey() string {
	focus, _ := m.nav.Focus()
	return fmt.Sprintf("%d:%d:%s", m.nav.Mode(), m.nav.Depth(), focus)
}

func rescanCmd(sources []scan.Source) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{result: scan.Run(scan.Gather(sources))}
	}
}

func searchCmd(records []session.Record, query string) tea.Cmd {
	return func() tea.Msg {
		return searchResultsMsg{query: query, ids: scan.Search(records, query)}
	}
}

func previewCmd(rec session.Record) tea.Cmd {
	return func() tea.Msg {
		lines, err := session.Preview(rec.Path, session.PreviewLimit)
		return previewMsg{id: rec.ID, lines: lines, err: err}
	}
}

func (m *Model) previewCmdIfNeeded() tea.Cmd {
	id := m.currentID()
	if id == "" || id == m.previewID {
		return nil
	}
	rec, ok := m.nav.Record(id)
	if !ok {
		return nil
	}
	return previewCmd(rec)
}

// refreshRows recomputes the visible row set: the machine's rows,
// narrowed by the fuzzy filter outside full-text mode.
func (m *Model) refreshRows() {
	rows := m.nav.Rows()
	if m.nav.Mode() == nav.ModeNormal {
		if q := strings.TrimSpace(m.filterInput.Value()); q != "" {
			rows = fuzzyFilter(q, rows, m.nav)
		}
	}
	m.rows = rows
	if m.cursor >= len(rows) {
		m.cursor = max(0, len(rows)-1)
	}
	m.clampOffset()
}

// rowSource adapts the row set for fuzzy matching over title,
// project, and id.
type rowSource struct {
	rows []nav.Row
	st   *nav.State
}

func (s rowSource) String(i int) string {
	rec, ok := s.st.Record(s.rows[i].ID)
	if !ok {
		return s.rows[i].ID
	}
	return rec.Title() + " " + rec.Project + " " + rec.ID
}

func (s rowSource) Len() int { return len(s.rows) }

func fuzzyFilter(query string, rows []nav.Row, st *nav.State) []nav.Row {
	matches := fuzzy.FindFrom(query, rowSource{rows: rows, st: st})
	out := make([]nav.Row, 0, len(matches))
	for _, match := range matches {
		out = append(out, rows[match.Index])
	}
	return out
}

func (m Model) currentID() string {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return ""
	}
	return m.rows[m.cursor].ID
}

func (m *Model) restoreCursor(id string) {
	if id != "" {
		for i, row := range m.rows {
			if row.ID == id {
				m.cursor = i
				m.clampOffset()
				return
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = max(0, len(m.rows)-1)
	}
	m.clampOffset()
}

func (m Model) visibleRows() int {
	// Title, column header, status bar, help line.
	rows := m.height - 4
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) clampOffset() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}
