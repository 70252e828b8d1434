// Package testjsonl provides shared JSONL fixture builders for
// transcript test data. Used by the session, scan, fork, and
// command test packages.
package testjsonl

import (
	"encoding/json"
	"fmt"
	"strings"
)

// User returns a user message line as a JSON string.
func User(content string) string {
	return mustMarshal(map[string]any{
		"type":      "user",
		"timestamp": "2024-01-01T00:00:00Z",
		"message": map[string]any{
			"content": content,
		},
	})
}

// UserWithCwd returns a user message line carrying a cwd field.
func UserWithCwd(content, cwd string) string {
	return mustMarshal(map[string]any{
		"type":      "user",
		"timestamp": "2024-01-01T00:00:00Z",
		"cwd":       cwd,
		"message": map[string]any{
			"content": content,
		},
	})
}

// UserBlocks returns a user message whose content is an array of
// typed blocks rather than a plain string.
func UserBlocks(blocks ...map[string]any) string {
	return mustMarshal(map[string]any{
		"type":      "user",
		"timestamp": "2024-01-01T00:00:00Z",
		"message": map[string]any{
			"content": blocks,
		},
	})
}

// TextBlock returns a text content block for UserBlocks.
func TextBlock(text string) map[string]any {
	return map[string]any{"type": "text", "text": text}
}

// ToolResultBlock returns a tool_result content block for
// UserBlocks.
func ToolResultBlock(content string) map[string]any {
	return map[string]any{"type": "tool_result", "content": content}
}

// Assistant returns an assistant message line as a JSON string.
func Assistant(content string) string {
	return mustMarshal(map[string]any{
		"type":      "assistant",
		"timestamp": "2024-01-01T00:00:01Z",
		"message": map[string]any{
			"content": content,
		},
	})
}

// Forked returns a line carrying a fork-parent reference.
func Forked(parentID string) string {
	return mustMarshal(map[string]any{
		"type":      "user",
		"timestamp": "2024-01-01T00:00:00Z",
		"forkedFrom": map[string]any{
			"sessionId": parentID,
		},
		"message": map[string]any{
			"content": "continuing from fork",
		},
	})
}

// Summary returns a summary line as a JSON string.
func Summary(text string) string {
	return mustMarshal(map[string]any{
		"type":    "summary",
		"summary": text,
	})
}

// CustomTitle returns a rename line as a JSON string.
func CustomTitle(title string) string {
	return mustMarshal(map[string]any{
		"type":        "custom-title",
		"customTitle": title,
	})
}

// Session joins JSONL lines with newlines and appends a trailing
// newline.
func Session(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// TestUUID returns a deterministic valid UUID derived from n, for
// naming fixture files.
func TestUUID(n byte) string {
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		uint32(n), uint16(n), uint16(n), uint16(n), uint64(n))
}

func mustMarshal(m map[string]any) string {
	b, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return string(b)
}
