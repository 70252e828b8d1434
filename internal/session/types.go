// Package session turns raw transcript files into structured,
// immutable session records: UUID-named JSONL files are sampled,
// classified, and summarized without materializing whole files.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SourceLocal marks records discovered on this machine rather than
// in a remote mirror cache.
const SourceLocal = "local"

// ErrInvalidFilename is returned by Extract for files whose base
// name is not a canonical UUID. Such files are excluded from all
// counts, including the skip count.
var ErrInvalidFilename = errors.New("session filename is not a UUID")

// Record is the extracted metadata for one transcript file. Records
// are immutable per-scan snapshots; a rescan produces a fresh set.
type Record struct {
	ID           string
	Project      string // display name derived from ProjectPath
	ProjectPath  string // first cwd seen in the file head
	FirstMessage string // first user turn, normalized
	Summary      string // most recent summary entry in the tail
	CustomTitle  string // latest rename, full-file search
	ForkedFrom   string // parent session id, first occurrence wins
	Created      time.Time
	Modified     time.Time
	TurnCount    int
	Source       string // SourceLocal or a remote name
	Path         string
}

// Title returns the best available short description of the record:
// custom title, then summary, then first message.
func (r Record) Title() string {
	switch {
	case r.CustomTitle != "":
		return r.CustomTitle
	case r.Summary != "":
		return r.Summary
	default:
		return r.FirstMessage
	}
}

// Describe renders the record for a picker row: named sessions get a
// starred prefix with the summary appended when space allows.
func (r Record) Describe(maxChars int) string {
	if r.CustomTitle != "" {
		prefix := "★ " + r.CustomTitle
		if len([]rune(prefix)) >= maxChars {
			return string([]rune(prefix)[:maxChars])
		}
		if r.Summary != "" {
			remaining := maxChars - len([]rune(prefix)) - 3
			if remaining > 10 {
				return prefix + " - " + string(truncRunes(r.Summary, remaining))
			}
		}
		return prefix
	}
	if r.Summary != "" {
		return Normalize(r.Summary, maxChars)
	}
	return Normalize(r.FirstMessage, maxChars)
}

func truncRunes(s string, n int) []rune {
	runes := []rune(s)
	if len(runes) > n {
		return runes[:n]
	}
	return runes
}

// IsValidID reports whether s is a canonical 8-4-4-4-12 UUID.
// Only the hyphenated lowercase-or-uppercase hex form is accepted;
// the braced, URN, and compact forms uuid.Parse tolerates are not.
func IsValidID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// Normalize collapses all whitespace to single spaces, strips
// leading markdown markers, and truncates to maxChars, breaking at
// the last word boundary when one lies past the halfway point.
func Normalize(text string, maxChars int) string {
	normalized := strings.Join(strings.Fields(text), " ")
	stripped := strings.TrimLeft(normalized, "#*")
	stripped = strings.TrimLeft(stripped, " ")

	runes := []rune(stripped)
	if len(runes) <= maxChars {
		return stripped
	}

	truncated := string(runes[:maxChars])
	breakPoint := len(truncated)
	if i := strings.LastIndex(truncated, " "); i > maxChars/2 {
		breakPoint = i
	}
	return truncated[:breakPoint] + "..."
}
