// Package nav implements the picker's navigation state machine as a
// plain value driven by a pure transition function. The TUI layer
// translates key presses into Actions, feeds them to Apply, and acts
// on the returned Effect; nothing here renders, blocks, or spawns
// goroutines, so every transition is unit-testable without a
// terminal.
package nav

import (
	"strings"

	"github.com/arvessen/ccsessions/internal/fork"
	"github.com/arvessen/ccsessions/internal/session"
)

// Mode selects how typed input narrows the session list.
type Mode int

const (
	// ModeNormal is the default: typing fuzzy-filters the rows of
	// the current root or subtree view. Scoring happens in the TUI.
	ModeNormal Mode = iota
	// ModeFullText greps transcript contents; matches arrive as a
	// finished set via SearchResults.
	ModeFullText
)

// Action is one input event in the picker's vocabulary.
type Action interface{ isAction() }

// DrillIn focuses a session and shows only it plus its direct
// children. Ignored unless the id is in the current snapshot and has
// at least one child.
type DrillIn struct{ ID string }

// Back pops one level of subtree focus. No-op at the root.
type Back struct{}

// EnterFullTextSearch switches to full-text mode with an empty
// query. An empty query matches nothing.
type EnterFullTextSearch struct{}

// QueryChanged carries the current full-text query as the user
// types. Ignored outside full-text mode.
type QueryChanged struct{ Query string }

// SearchResults delivers a finished match set for a query. Stale
// deliveries, ones whose query no longer matches the live query or
// that arrive after search mode was left, are dropped.
type SearchResults struct {
	Query string
	IDs   []string
}

// ExitSearchOrBack is the escape ladder: leave search if searching,
// else pop one subtree level, else ask the caller to exit.
type ExitSearchOrBack struct{}

// ToggleNormalFilterMode leaves full-text search and returns to
// fuzzy filtering over the current root or subtree view.
type ToggleNormalFilterMode struct{}

// Select resumes the given session, forking it first when Fork is
// set. Ignored when ID is empty.
type Select struct {
	ID   string
	Fork bool
}

func (DrillIn) isAction()                {}
func (Back) isAction()                   {}
func (EnterFullTextSearch) isAction()    {}
func (QueryChanged) isAction()           {}
func (SearchResults) isAction()          {}
func (ExitSearchOrBack) isAction()       {}
func (ToggleNormalFilterMode) isAction() {}
func (Select) isAction()                 {}

// EffectKind says what the caller must do after a transition.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectExit
	EffectRunSearch
	EffectResume
)

// Effect is the machine's instruction back to the caller. Query is
// set for EffectRunSearch, SessionID and Fork for EffectResume.
type Effect struct {
	Kind      EffectKind
	Query     string
	SessionID string
	Fork      bool
}

// Row is one visible entry in the current view.
type Row struct {
	ID          string
	Focused     bool
	HasChildren bool
}

// State holds the navigation position over an immutable snapshot of
// records and their fork graph. The zero value is unusable; call New
// and install a snapshot with SetSnapshot.
type State struct {
	records []session.Record
	graph   *fork.Graph
	byID    map[string]session.Record

	// stack holds the focus chain, innermost last. Empty means the
	// root view.
	stack   []string
	mode    Mode
	query   string
	results []string
}

// New returns a machine with an empty snapshot.
func New() *State {
	s := &State{}
	s.SetSnapshot(nil, fork.Build(nil))
	return s
}

// SetSnapshot replaces the record set and fork graph wholesale,
// pruning any focus or match ids that no longer exist. Records are
// expected in display order (most recently modified first).
func (s *State) SetSnapshot(records []session.Record, graph *fork.Graph) {
	s.records = records
	s.graph = graph

	s.byID = make(map[string]session.Record, len(records))
	for _, rec := range records {
		if _, ok := s.byID[rec.ID]; !ok {
			s.byID[rec.ID] = rec
		}
	}

	s.stack = pruneIDs(s.stack, graph)
	s.results = pruneIDs(s.results, graph)
}

func pruneIDs(ids []string, graph *fork.Graph) []string {
	var kept []string
	for _, id := range ids {
		if graph.Has(id) {
			kept = append(kept, id)
		}
	}
	return kept
}

// Apply runs one transition. Illegal actions leave the state
// unchanged and return EffectNone.
func (s *State) Apply(action Action) Effect {
	switch a := action.(type) {
	case DrillIn:
		s.drillIn(a.ID)
		return Effect{Kind: EffectNone}

	case Back:
		if len(s.stack) > 0 {
			s.stack = s.stack[:len(s.stack)-1]
		}
		return Effect{Kind: EffectNone}

	case EnterFullTextSearch:
		s.mode = ModeFullText
		s.query = ""
		s.results = nil
		return Effect{Kind: EffectNone}

	case QueryChanged:
		if s.mode != ModeFullText {
			return Effect{Kind: EffectNone}
		}
		s.query = a.Query
		if strings.TrimSpace(a.Query) == "" {
			s.results = nil
			return Effect{Kind: EffectNone}
		}
		// Previous results stay visible until the fresh set lands.
		return Effect{Kind: EffectRunSearch, Query: a.Query}

	case SearchResults:
		if s.mode != ModeFullText || a.Query != s.query {
			return Effect{Kind: EffectNone}
		}
		s.results = pruneIDs(a.IDs, s.graph)
		return Effect{Kind: EffectNone}

	case ExitSearchOrBack:
		if s.mode == ModeFullText {
			s.leaveSearch()
			return Effect{Kind: EffectNone}
		}
		if len(s.stack) > 0 {
			s.stack = s.stack[:len(s.stack)-1]
			return Effect{Kind: EffectNone}
		}
		return Effect{Kind: EffectExit}

	case ToggleNormalFilterMode:
		s.leaveSearch()
		return Effect{Kind: EffectNone}

	case Select:
		if a.ID == "" || !s.graph.Has(a.ID) {
			return Effect{Kind: EffectNone}
		}
		return Effect{Kind: EffectResume, SessionID: a.ID, Fork: a.Fork}
	}

	return Effect{Kind: EffectNone}
}

func (s *State) drillIn(id string) {
	if id == "" || !s.graph.Has(id) || !s.graph.HasChildren(id) {
		return
	}
	if len(s.stack) > 0 && s.stack[len(s.stack)-1] == id {
		return
	}
	s.stack = append(s.stack, id)
}

func (s *State) leaveSearch() {
	s.mode = ModeNormal
	s.query = ""
	s.results = nil
}

// Rows returns the visible entries for the current view, in display
// order. Full-text mode shows the delivered matches; a focused
// subtree shows the focus row followed by its direct children; the
// root view shows every record.
func (s *State) Rows() []Row {
	if s.mode == ModeFullText {
		rows := make([]Row, 0, len(s.results))
		for _, id := range s.results {
			rows = append(rows, s.row(id, false))
		}
		return rows
	}

	if focus, ok := s.Focus(); ok {
		children := s.graph.Children(focus)
		rows := make([]Row, 0, len(children)+1)
		rows = append(rows, s.row(focus, true))
		for _, id := range children {
			rows = append(rows, s.row(id, false))
		}
		return rows
	}

	rows := make([]Row, 0, len(s.records))
	seen := make(map[string]struct{}, len(s.records))
	for _, rec := range s.records {
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		rows = append(rows, s.row(rec.ID, false))
	}
	return rows
}

func (s *State) row(id string, focused bool) Row {
	return Row{ID: id, Focused: focused, HasChildren: s.graph.HasChildren(id)}
}

// Focus returns the innermost focused session, if any.
func (s *State) Focus() (string, bool) {
	if len(s.stack) == 0 {
		return "", false
	}
	return s.stack[len(s.stack)-1], true
}

// Depth is the number of subtree levels below the root view.
func (s *State) Depth() int { return len(s.stack) }

// Mode reports whether input currently fuzzy-filters or greps
// transcripts.
func (s *State) Mode() Mode { return s.mode }

// Query is the live full-text query, empty outside full-text mode.
func (s *State) Query() string { return s.query }

// Record looks a session up by id in the current snapshot.
func (s *State) Record(id string) (session.Record, bool) {
	rec, ok := s.byID[id]
	return rec, ok
}

// Records exposes the snapshot in display order.
func (s *State) Records() []session.Record { return s.records }
