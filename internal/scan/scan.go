// Package scan fans metadata extraction across candidate transcript
// files and merges the results into a deterministic, recency-sorted
// snapshot.
package scan

import (
	"errors"
	"runtime"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/arvessen/ccsessions/internal/session"
)

const maxWorkers = 8

// Source names one directory tree to scan: the local projects dir
// or a remote mirror cache.
type Source struct {
	Name        string // session.SourceLocal or a remote name
	ProjectsDir string
}

// Result is the outcome of one scan pass. Skipped counts files that
// failed to read or extract; files with non-UUID names are excluded
// without counting.
type Result struct {
	Records []session.Record
	Skipped int
}

type outcome struct {
	rec *session.Record
	err error
}

// Gather discovers candidate files across all sources.
func Gather(sources []Source) []session.Candidate {
	var candidates []session.Candidate
	for _, src := range sources {
		candidates = append(candidates,
			session.Discover(src.ProjectsDir, src.Name)...)
	}
	return candidates
}

// Run extracts every candidate on a worker pool and merges after
// all workers finish. Workers share no mutable state; ordering is
// recomputed from the merged set, so the output is independent of
// completion order and identical across runs for an unchanged file
// set. Per-file failures are counted, never fatal.
func Run(candidates []session.Candidate) Result {
	if len(candidates) == 0 {
		return Result{}
	}

	workers := min(max(runtime.NumCPU(), 2), maxWorkers)

	jobs := make(chan session.Candidate, len(candidates))
	results := make(chan outcome, len(candidates))

	for i := 0; i < workers; i++ {
		go func() {
			for c := range jobs {
				rec, err := session.Extract(c.Path, c.Source)
				results <- outcome{rec: rec, err: err}
			}
		}()
	}

	for _, c := range candidates {
		jobs <- c
	}
	close(jobs)

	var res Result
	for i := 0; i < len(candidates); i++ {
		o := <-results
		switch {
		case o.err != nil:
			if errors.Is(o.err, session.ErrInvalidFilename) {
				continue
			}
			logrus.WithError(o.err).Debug("skipping unreadable session file")
			res.Skipped++
		case o.rec != nil:
			res.Records = append(res.Records, *o.rec)
		}
		// rec == nil with nil err: empty session, discarded.
	}

	sortRecords(res.Records)
	return res
}

// sortRecords orders by modified time descending, ties broken by id
// then source so duplicate ids from different mirrors stay stable.
func sortRecords(records []session.Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Modified.Equal(records[j].Modified) {
			return records[i].Modified.After(records[j].Modified)
		}
		if records[i].ID != records[j].ID {
			return records[i].ID < records[j].ID
		}
		return records[i].Source < records[j].Source
	})
}
