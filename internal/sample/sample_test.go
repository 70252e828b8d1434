package sample

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHead(t *testing.T) {
	t.Run("short file returns all lines", func(t *testing.T) {
		path := writeFile(t, "one\ntwo\nthree\n")
		lines, err := Head(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two", "three"}, lines)
	})

	t.Run("long file stops at the window", func(t *testing.T) {
		var b strings.Builder
		for i := 0; i < HeadLines*2; i++ {
			fmt.Fprintf(&b, "line %d\n", i)
		}
		path := writeFile(t, b.String())
		lines, err := Head(path)
		require.NoError(t, err)
		require.Len(t, lines, HeadLines)
		assert.Equal(t, "line 0", lines[0])
		assert.Equal(t, fmt.Sprintf("line %d", HeadLines-1), lines[HeadLines-1])
	})

	t.Run("blank lines are skipped", func(t *testing.T) {
		path := writeFile(t, "one\n\n\ntwo\n")
		lines, err := Head(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two"}, lines)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Head(filepath.Join(t.TempDir(), "nope.jsonl"))
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "")
		lines, err := Head(path)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}

func TestTail(t *testing.T) {
	t.Run("small file returns all lines", func(t *testing.T) {
		path := writeFile(t, "one\ntwo\nthree\n")
		lines, err := Tail(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two", "three"}, lines)
	})

	t.Run("large file discards the leading fragment", func(t *testing.T) {
		// Uniform lines long enough that the seek position lands
		// mid-line, leaving a partial fragment at the window start.
		line := strings.Repeat("x", 99)
		var b strings.Builder
		for i := 0; i < 400; i++ {
			fmt.Fprintf(&b, "%s%d\n", line, i%10)
		}
		path := writeFile(t, b.String())

		lines, err := Tail(path)
		require.NoError(t, err)
		require.NotEmpty(t, lines)
		for _, l := range lines {
			assert.Len(t, l, 100, "every surviving line must be complete")
		}
		// The window holds at most TailBytes/101 complete lines
		// after the fragment is dropped.
		assert.Less(t, len(lines), TailBytes/100)
		assert.Equal(t, line+"9", lines[len(lines)-1])
	})

	t.Run("window on exact boundary still drops first line", func(t *testing.T) {
		// 64 lines of 256 bytes each (255 + newline) make the file
		// exactly an integer multiple of the window, so the seek
		// lands on a line boundary. The first window line is
		// dropped anyway since completeness cannot be known.
		line := strings.Repeat("y", 255)
		var b strings.Builder
		for i := 0; i < (TailBytes/256)*2; i++ {
			b.WriteString(line + "\n")
		}
		path := writeFile(t, b.String())

		lines, err := Tail(path)
		require.NoError(t, err)
		assert.Len(t, lines, TailBytes/256-1)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Tail(filepath.Join(t.TempDir(), "nope.jsonl"))
		assert.Error(t, err)
	})
}

func TestReaderOversizedLines(t *testing.T) {
	// An oversized line is skipped without aborting the stream.
	// A tiny cap stands in for the real 20MB one.
	r := newReader(strings.NewReader("ok\n"+strings.Repeat("z", 128)+"\nalso ok\n"), 16)

	var lines []string
	for {
		line, ok := r.Next()
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	assert.Equal(t, []string{"ok", "also ok"}, lines)
}
