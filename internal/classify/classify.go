// Package classify decides whether a user-authored message counts
// as a conversational turn or as system noise (command envelopes,
// tool output, slash commands).
package classify

import "strings"

// Kind is the classification of one message text.
type Kind int

const (
	// Turn is a genuine user-authored conversational message.
	Turn Kind = iota
	// Noise is system- or tool-injected content that should not
	// count toward turn totals or first-message selection.
	Noise
)

func (k Kind) String() string {
	if k == Turn {
		return "turn"
	}
	return "noise"
}

// A rule pairs a predicate with the kind it assigns. Rules are
// evaluated in order; the first match wins.
type rule struct {
	match func(string) bool
	kind  Kind
}

var rules = []rule{
	// Empty after trimming.
	{func(s string) bool {
		return s == ""
	}, Noise},
	// Command envelope, e.g. <command-message>.
	{func(s string) bool {
		return strings.HasPrefix(s, "<")
	}, Noise},
	// Fully bracket-enclosed system notice. Text that merely starts
	// with "[" is a turn.
	{func(s string) bool {
		return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
	}, Noise},
	// Slash command.
	{func(s string) bool {
		return strings.HasPrefix(s, "/")
	}, Noise},
}

// Classify reports whether text is a conversational turn or noise.
// It is total: every input maps to exactly one Kind.
func Classify(text string) Kind {
	trimmed := strings.TrimSpace(text)
	for _, r := range rules {
		if r.match(trimmed) {
			return r.kind
		}
	}
	return Turn
}

// IsTurn reports whether text classifies as a conversational turn.
func IsTurn(text string) bool {
	return Classify(text) == Turn
}
