package session

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Candidate is a transcript file found by discovery, tagged with
// the source it will carry through extraction.
type Candidate struct {
	Path   string
	Source string
}

// isDirOrSymlink reports whether the entry is a directory or a
// symlink that resolves to a directory. parentDir is needed to
// build the full path for symlink resolution.
func isDirOrSymlink(entry os.DirEntry, parentDir string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(filepath.Join(parentDir, entry.Name()))
	return err == nil && fi.IsDir()
}

// Discover returns the JSONL transcript files exactly two levels
// under projectsDir (<project>/<session>.jsonl), tagged with source,
// sorted by path. Subagent transcripts live a level deeper and are
// deliberately not reached. A missing or unreadable projects dir
// yields no candidates rather than an error.
func Discover(projectsDir, source string) []Candidate {
	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		return nil
	}

	var files []Candidate
	for _, entry := range entries {
		if !isDirOrSymlink(entry, projectsDir) {
			continue
		}

		projDir := filepath.Join(projectsDir, entry.Name())
		sessionFiles, err := os.ReadDir(projDir)
		if err != nil {
			continue
		}

		for _, sf := range sessionFiles {
			if sf.IsDir() {
				continue
			}
			if !strings.HasSuffix(sf.Name(), ".jsonl") {
				continue
			}
			files = append(files, Candidate{
				Path:   filepath.Join(projDir, sf.Name()),
				Source: source,
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files
}

// FindSourceFile locates the transcript file for a session ID by
// searching all project directories under projectsDir. Returns ""
// when not found.
func FindSourceFile(projectsDir, sessionID string) string {
	if !IsValidID(sessionID) {
		return ""
	}

	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		return ""
	}

	target := sessionID + ".jsonl"
	for _, entry := range entries {
		if !isDirOrSymlink(entry, projectsDir) {
			continue
		}
		candidate := filepath.Join(projectsDir, entry.Name(), target)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
