package nav

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvessen/ccsessions/internal/fork"
	"github.com/arvessen/ccsessions/internal/session"
)

func rec(id, forkedFrom string, age time.Duration) session.Record {
	return session.Record{
		ID:         id,
		ForkedFrom: forkedFrom,
		Modified:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).Add(-age),
	}
}

// newTestState builds a snapshot with a fork chain aaaa -> bbbb ->
// cccc plus an unrelated dddd, newest first.
func newTestState() *State {
	records := []session.Record{
		rec("bbbb", "aaaa", 1*time.Hour),
		rec("cccc", "bbbb", 2*time.Hour),
		rec("aaaa", "", 3*time.Hour),
		rec("dddd", "", 4*time.Hour),
	}
	s := New()
	s.SetSnapshot(records, fork.Build(records))
	return s
}

func ids(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestRootViewShowsAllRecords(t *testing.T) {
	s := newTestState()

	rows := s.Rows()
	assert.Equal(t, []string{"bbbb", "cccc", "aaaa", "dddd"}, ids(rows))
	for _, r := range rows {
		assert.False(t, r.Focused)
	}
	assert.True(t, rows[2].HasChildren, "aaaa has a fork")
	assert.False(t, rows[1].HasChildren, "cccc is a leaf")
	assert.False(t, rows[3].HasChildren)
}

func TestDrillInShowsFocusAndDirectChildren(t *testing.T) {
	s := newTestState()

	eff := s.Apply(DrillIn{ID: "aaaa"})
	assert.Equal(t, Effect{Kind: EffectNone}, eff)

	rows := s.Rows()
	assert.Equal(t, []string{"aaaa", "bbbb"}, ids(rows),
		"focus plus direct children only, no grandchildren")
	assert.True(t, rows[0].Focused)
	assert.False(t, rows[1].Focused)

	focus, ok := s.Focus()
	require.True(t, ok)
	assert.Equal(t, "aaaa", focus)
}

func TestDrillInRejected(t *testing.T) {
	s := newTestState()

	t.Run("childless session", func(t *testing.T) {
		s.Apply(DrillIn{ID: "dddd"})
		assert.Equal(t, 0, s.Depth())
	})

	t.Run("unknown id", func(t *testing.T) {
		s.Apply(DrillIn{ID: "eeee"})
		assert.Equal(t, 0, s.Depth())
	})

	t.Run("empty id", func(t *testing.T) {
		s.Apply(DrillIn{ID: ""})
		assert.Equal(t, 0, s.Depth())
	})

	t.Run("already focused", func(t *testing.T) {
		s.Apply(DrillIn{ID: "aaaa"})
		s.Apply(DrillIn{ID: "aaaa"})
		assert.Equal(t, 1, s.Depth())
	})
}

func TestDrillInThenBackRestoresRowsExactly(t *testing.T) {
	s := newTestState()
	before := s.Rows()

	s.Apply(DrillIn{ID: "aaaa"})
	s.Apply(Back{})

	if diff := cmp.Diff(before, s.Rows()); diff != "" {
		t.Errorf("rows changed after drill-in and back (-before +after):\n%s", diff)
	}
	assert.Equal(t, 0, s.Depth())
}

func TestBackAtRootIsNoop(t *testing.T) {
	s := newTestState()
	eff := s.Apply(Back{})
	assert.Equal(t, Effect{Kind: EffectNone}, eff)
	assert.Equal(t, 0, s.Depth())
}

func TestEscapeLadder(t *testing.T) {
	s := newTestState()

	// Two levels deep with an active search on top.
	s.Apply(DrillIn{ID: "aaaa"})
	s.Apply(DrillIn{ID: "bbbb"})
	s.Apply(EnterFullTextSearch{})
	s.Apply(QueryChanged{Query: "api"})
	s.Apply(SearchResults{Query: "api", IDs: []string{"cccc"}})

	// First escape leaves search, keeping the subtree.
	assert.Equal(t, Effect{Kind: EffectNone}, s.Apply(ExitSearchOrBack{}))
	assert.Equal(t, ModeNormal, s.Mode())
	assert.Equal(t, 2, s.Depth())

	// Each further escape pops one level.
	assert.Equal(t, Effect{Kind: EffectNone}, s.Apply(ExitSearchOrBack{}))
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, Effect{Kind: EffectNone}, s.Apply(ExitSearchOrBack{}))
	assert.Equal(t, 0, s.Depth())

	// At the root it signals exit.
	assert.Equal(t, Effect{Kind: EffectExit}, s.Apply(ExitSearchOrBack{}))
}

func TestDrillInChildlessAtDepthRejected(t *testing.T) {
	s := newTestState()
	s.Apply(DrillIn{ID: "aaaa"})
	s.Apply(DrillIn{ID: "cccc"}) // leaf
	assert.Equal(t, 1, s.Depth())
}

func TestFullTextSearchFlow(t *testing.T) {
	s := newTestState()

	assert.Equal(t, Effect{Kind: EffectNone}, s.Apply(EnterFullTextSearch{}))
	assert.Equal(t, ModeFullText, s.Mode())
	assert.Empty(t, s.Rows(), "empty query yields empty results")

	eff := s.Apply(QueryChanged{Query: "websocket"})
	assert.Equal(t, Effect{Kind: EffectRunSearch, Query: "websocket"}, eff)

	s.Apply(SearchResults{Query: "websocket", IDs: []string{"bbbb", "dddd"}})
	assert.Equal(t, []string{"bbbb", "dddd"}, ids(s.Rows()))
}

func TestEmptyQueryClearsResultsImmediately(t *testing.T) {
	s := newTestState()
	s.Apply(EnterFullTextSearch{})
	s.Apply(QueryChanged{Query: "api"})
	s.Apply(SearchResults{Query: "api", IDs: []string{"aaaa"}})

	eff := s.Apply(QueryChanged{Query: "   "})
	assert.Equal(t, Effect{Kind: EffectNone}, eff)
	assert.Empty(t, s.Rows())
}

func TestPreviousResultsStayWhileTyping(t *testing.T) {
	s := newTestState()
	s.Apply(EnterFullTextSearch{})
	s.Apply(QueryChanged{Query: "api"})
	s.Apply(SearchResults{Query: "api", IDs: []string{"aaaa"}})

	s.Apply(QueryChanged{Query: "apig"})
	assert.Equal(t, []string{"aaaa"}, ids(s.Rows()),
		"old matches remain until the new set lands")

	s.Apply(SearchResults{Query: "apig", IDs: nil})
	assert.Empty(t, s.Rows())
}

func TestStaleSearchResultsDropped(t *testing.T) {
	s := newTestState()
	s.Apply(EnterFullTextSearch{})
	s.Apply(QueryChanged{Query: "apig"})

	t.Run("outdated query", func(t *testing.T) {
		s.Apply(SearchResults{Query: "api", IDs: []string{"aaaa"}})
		assert.Empty(t, s.Rows())
	})

	t.Run("after leaving search", func(t *testing.T) {
		s.Apply(ExitSearchOrBack{})
		s.Apply(SearchResults{Query: "apig", IDs: []string{"aaaa"}})
		assert.Equal(t, ModeNormal, s.Mode())
		assert.Equal(t, []string{"bbbb", "cccc", "aaaa", "dddd"}, ids(s.Rows()))
	})
}

func TestQueryChangedOutsideSearchIgnored(t *testing.T) {
	s := newTestState()
	eff := s.Apply(QueryChanged{Query: "api"})
	assert.Equal(t, Effect{Kind: EffectNone}, eff)
	assert.Equal(t, ModeNormal, s.Mode())
}

func TestToggleNormalFilterLeavesSearch(t *testing.T) {
	s := newTestState()
	s.Apply(DrillIn{ID: "aaaa"})
	s.Apply(EnterFullTextSearch{})
	s.Apply(QueryChanged{Query: "api"})

	s.Apply(ToggleNormalFilterMode{})
	assert.Equal(t, ModeNormal, s.Mode())
	assert.Empty(t, s.Query())
	assert.Equal(t, []string{"aaaa", "bbbb"}, ids(s.Rows()),
		"subtree view resumes under the filter")
}

func TestSelectResumesSession(t *testing.T) {
	s := newTestState()

	assert.Equal(t,
		Effect{Kind: EffectResume, SessionID: "bbbb"},
		s.Apply(Select{ID: "bbbb"}))
	assert.Equal(t,
		Effect{Kind: EffectResume, SessionID: "bbbb", Fork: true},
		s.Apply(Select{ID: "bbbb", Fork: true}))
	assert.Equal(t, Effect{Kind: EffectNone}, s.Apply(Select{ID: ""}))
	assert.Equal(t, Effect{Kind: EffectNone}, s.Apply(Select{ID: "zzzz"}))
}

func TestSetSnapshotPrunesStaleIDs(t *testing.T) {
	s := newTestState()
	s.Apply(DrillIn{ID: "aaaa"})
	s.Apply(EnterFullTextSearch{})
	s.Apply(QueryChanged{Query: "api"})
	s.Apply(SearchResults{Query: "api", IDs: []string{"aaaa", "dddd"}})

	// aaaa and its forks disappear on rescan; dddd survives.
	records := []session.Record{rec("dddd", "", time.Hour)}
	s.SetSnapshot(records, fork.Build(records))

	assert.Equal(t, 0, s.Depth(), "stale focus pruned")
	assert.Equal(t, []string{"dddd"}, ids(s.Rows()), "stale matches pruned")
}

func TestSearchResultsPrunedAgainstSnapshot(t *testing.T) {
	s := newTestState()
	s.Apply(EnterFullTextSearch{})
	s.Apply(QueryChanged{Query: "api"})
	s.Apply(SearchResults{Query: "api", IDs: []string{"aaaa", "gone", "dddd"}})

	assert.Equal(t, []string{"aaaa", "dddd"}, ids(s.Rows()))
}

func TestRecordLookup(t *testing.T) {
	s := newTestState()

	got, ok := s.Record("aaaa")
	require.True(t, ok)
	assert.Equal(t, "aaaa", got.ID)

	_, ok = s.Record("zzzz")
	assert.False(t, ok)
}
