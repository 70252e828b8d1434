package session

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/arvessen/ccsessions/internal/classify"
	"github.com/arvessen/ccsessions/internal/sample"
)

// PreviewLimit is the default cap on rendered transcript lines.
const PreviewLimit = 100

const (
	userLineChars      = 120
	assistantLineChars = 80
)

// Role identifies the speaker of a preview line.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
)

// PreviewLine is one conversational exchange reduced to a single
// display line.
type PreviewLine struct {
	Role Role
	Text string
}

// Preview streams the transcript at path and returns up to limit
// conversational lines. User messages that classify as noise are
// dropped; every kept message is reduced to the first physical line
// of its leading text block. A limit <= 0 means PreviewLimit.
func Preview(path string, limit int) ([]PreviewLine, error) {
	if limit <= 0 {
		limit = PreviewLimit
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var out []PreviewLine
	lr := sample.NewReader(f)
	for len(out) < limit {
		line, ok := lr.Next()
		if !ok {
			break
		}
		if !gjson.Valid(line) {
			continue
		}

		switch gjson.Get(line, "type").Str {
		case "user":
			text := contentText(gjson.Get(line, "message.content"))
			if !classify.IsTurn(text) {
				continue
			}
			out = append(out, PreviewLine{
				Role: RoleUser,
				Text: firstLine(text, userLineChars),
			})
		case "assistant":
			text := contentText(gjson.Get(line, "message.content"))
			if text == "" {
				continue
			}
			out = append(out, PreviewLine{
				Role: RoleAssistant,
				Text: firstLine(text, assistantLineChars),
			})
		}
	}
	return out, nil
}

// firstLine keeps the first physical line of s, truncated to max
// runes with a trailing ellipsis when cut.
func firstLine(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
