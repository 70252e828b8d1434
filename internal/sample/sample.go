// Package sample provides scoped partial reads of transcript files:
// a bounded head window, a bounded tail window, and a streaming line
// reader, none of which materialize the whole file.
package sample

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

const (
	// HeadLines is the number of lines covered by the head window.
	HeadLines = 50
	// TailBytes is the size of the tail window.
	TailBytes = 16 * 1024

	initialBufSize = 64 * 1024        // 64KB
	maxLineLen     = 20 * 1024 * 1024 // 20MB
)

// Reader reads JSONL content line by line, skipping blank lines and
// lines that exceed a maximum length rather than aborting. The
// buffer starts small and grows on demand.
type Reader struct {
	r      *bufio.Reader
	maxLen int
	buf    []byte
}

// NewReader returns a Reader over r with the default line cap.
func NewReader(r io.Reader) *Reader {
	return newReader(r, maxLineLen)
}

func newReader(r io.Reader, maxLen int) *Reader {
	return &Reader{
		r:      bufio.NewReaderSize(r, initialBufSize),
		maxLen: maxLen,
		buf:    make([]byte, 0, initialBufSize),
	}
}

// Next returns the next line (without trailing newline) and true,
// or ("", false) at EOF. Blank and oversized lines are silently
// skipped.
func (lr *Reader) Next() (string, bool) {
	for {
		line, err := lr.readLine()
		if err != nil {
			return "", false
		}
		if line != "" {
			return line, true
		}
	}
}

// readLine reads a full line, returning "" for blank/oversized
// lines and a non-nil error only at EOF or read failure.
func (lr *Reader) readLine() (string, error) {
	lr.buf = lr.buf[:0]
	oversized := false

	for {
		chunk, isPrefix, err := lr.r.ReadLine()
		if err != nil {
			if len(lr.buf) > 0 && err == io.EOF {
				break
			}
			return "", err
		}

		if oversized {
			if !isPrefix {
				return "", nil // done skipping
			}
			continue
		}

		lr.buf = append(lr.buf, chunk...)

		if len(lr.buf) > lr.maxLen {
			oversized = true
			lr.buf = lr.buf[:0]
			if !isPrefix {
				return "", nil
			}
			continue
		}

		if !isPrefix {
			break
		}
	}

	return string(lr.buf), nil
}

// Head returns up to HeadLines non-blank lines from the start of
// path.
func Head(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	lr := NewReader(f)
	var lines []string
	for len(lines) < HeadLines {
		line, ok := lr.Next()
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Tail returns the non-blank lines within the final TailBytes of
// path. When the window starts mid-file, the leading line is a
// possibly incomplete fragment and is discarded, so every returned
// line is complete.
func Tail(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	seeked := false
	if info.Size() > TailBytes {
		if _, err := f.Seek(-TailBytes, io.SeekEnd); err != nil {
			return nil, fmt.Errorf("seek %s: %w", path, err)
		}
		seeked = true
	}

	lr := NewReader(f)
	var lines []string
	for {
		line, ok := lr.Next()
		if !ok {
			break
		}
		lines = append(lines, line)
	}

	if seeked && len(lines) > 0 {
		lines = lines[1:]
	}
	return lines, nil
}
