package scan

import (
	"os"
	"runtime"
	"strings"

	"github.com/arvessen/ccsessions/internal/sample"
	"github.com/arvessen/ccsessions/internal/session"
)

// Search returns the ids of sessions whose transcript contains
// query, case-insensitively. Files are searched on a worker pool
// and the id set is assembled only after every worker has finished,
// so callers always receive a complete result set. The returned ids
// follow the input record order. An empty query matches nothing.
func Search(records []session.Record, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(records) == 0 {
		return nil
	}

	workers := min(max(runtime.NumCPU(), 2), maxWorkers)

	jobs := make(chan session.Record, len(records))
	results := make(chan string, len(records))

	for i := 0; i < workers; i++ {
		go func() {
			for rec := range jobs {
				if fileContains(rec.Path, query) {
					results <- rec.ID
				} else {
					results <- ""
				}
			}
		}()
	}

	for _, rec := range records {
		jobs <- rec
	}
	close(jobs)

	matched := make(map[string]struct{})
	for i := 0; i < len(records); i++ {
		if id := <-results; id != "" {
			matched[id] = struct{}{}
		}
	}

	var ids []string
	seen := make(map[string]struct{}, len(matched))
	for _, rec := range records {
		if _, ok := matched[rec.ID]; !ok {
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		ids = append(ids, rec.ID)
	}
	return ids
}

// fileContains streams path line by line looking for the lowercased
// query. Unreadable files simply do not match.
func fileContains(path, query string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	lr := sample.NewReader(f)
	for {
		line, ok := lr.Next()
		if !ok {
			return false
		}
		if strings.Contains(strings.ToLower(line), query) {
			return true
		}
	}
}
