package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/arvessen/ccsessions/internal/classify"
	"github.com/arvessen/ccsessions/internal/sample"
)

// maxStoredChars bounds the normalized first message and summary
// kept on a record. Display layers truncate further to fit.
const maxStoredChars = 300

// Extract builds a Record for the transcript at path, tagged with
// source. It returns (nil, ErrInvalidFilename) for non-UUID base
// names, (nil, nil) for sessions with no usable content, and a
// non-nil error for I/O failures. It never reads the whole file into
// memory.
func Extract(path, source string) (*Record, error) {
	id := strings.TrimSuffix(filepath.Base(path), ".jsonl")
	if !IsValidID(id) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFilename, filepath.Base(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	rec := &Record{
		ID:       id,
		Source:   source,
		Path:     path,
		Modified: info.ModTime(),
		// Birth time is not portably available; fall back to
		// the modified time.
		Created: info.ModTime(),
	}

	if err := extractHead(path, rec); err != nil {
		return nil, err
	}
	if err := extractTail(path, rec); err != nil {
		return nil, err
	}
	if err := extractFullScan(path, rec); err != nil {
		return nil, err
	}

	// Sessions with no project, no first message, and no summary
	// carry nothing worth listing.
	if rec.ProjectPath == "" && rec.FirstMessage == "" && rec.Summary == "" {
		return nil, nil
	}

	rec.Project = ProjectName(rec.ProjectPath, filepath.Base(filepath.Dir(path)))
	return rec, nil
}

// extractHead captures the first cwd, the first user turn, and the
// first fork-parent reference from the head window. First
// occurrences win; later conflicting values are ignored.
func extractHead(path string, rec *Record) error {
	lines, err := sample.Head(path)
	if err != nil {
		return err
	}

	for _, line := range lines {
		if !gjson.Valid(line) {
			continue
		}

		if rec.ProjectPath == "" {
			rec.ProjectPath = gjson.Get(line, "cwd").Str
		}

		if rec.ForkedFrom == "" {
			rec.ForkedFrom = gjson.Get(line, "forkedFrom.sessionId").Str
		}

		if rec.FirstMessage == "" &&
			gjson.Get(line, "type").Str == "user" {
			text := contentText(gjson.Get(line, "message.content"))
			if classify.IsTurn(text) {
				rec.FirstMessage = Normalize(text, maxStoredChars)
			}
		}

		if rec.ProjectPath != "" && rec.FirstMessage != "" &&
			rec.ForkedFrom != "" {
			break
		}
	}
	return nil
}

// extractTail captures the most recent summary entry within the
// tail window. The last summary line wins, matching the write order
// of compacted transcripts.
func extractTail(path string, rec *Record) error {
	lines, err := sample.Tail(path)
	if err != nil {
		return err
	}

	for _, line := range lines {
		if !gjson.Valid(line) {
			continue
		}
		if gjson.Get(line, "type").Str == "summary" {
			if s := gjson.Get(line, "summary").Str; s != "" {
				rec.Summary = Normalize(s, maxStoredChars)
			}
		}
	}
	return nil
}

// extractFullScan streams the whole file once to count
// conversational turns and to find the latest custom title, which a
// rename can place anywhere in the file.
func extractFullScan(path string, rec *Record) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	lr := sample.NewReader(f)
	for {
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
			if classify.IsTurn(text) {
				rec.TurnCount++
			}
		case "custom-title":
			if t := gjson.Get(line, "customTitle").Str; t != "" {
				rec.CustomTitle = t
			}
		}
	}
	return nil
}

// contentText extracts the user-visible text from a message content
// value, which is either a plain string or an array of typed blocks.
func contentText(content gjson.Result) string {
	if content.Type == gjson.String {
		return content.Str
	}
	if content.IsArray() {
		for _, block := range content.Array() {
			if block.Get("type").Str == "text" {
				return block.Get("text").Str
			}
		}
	}
	return ""
}

// ProjectName derives a display name from the session's working
// directory, falling back to decoding the flattened project
// directory name Claude Code uses (`-Users-alice-repos-foo`).
func ProjectName(projectPath, dirName string) string {
	if projectPath != "" {
		if name := filepath.Base(projectPath); name != "/" && name != "." {
			return name
		}
		return "unknown"
	}

	stripped := dirName
	if rest, ok := strings.CutPrefix(dirName, "-Users-"); ok {
		if _, after, found := strings.Cut(rest, "-"); found {
			stripped = after
		}
	}

	prefixes := [...]string{
		"Documents-repos-",
		"Documents-",
		"repos-",
		"third-party-repos-",
	}
	for _, p := range prefixes {
		if rest, ok := strings.CutPrefix(stripped, p); ok {
			return rest
		}
	}
	return stripped
}
