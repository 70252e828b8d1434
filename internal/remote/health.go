package remote

import (
	"fmt"
	"strings"
)

// Failure pairs a remote name with why its sync failed.
type Failure struct {
	Remote string
	Reason string
}

// Summary aggregates a batch of sync outcomes.
type Summary struct {
	Successful int
	Failed     int
	Failures   []Failure
}

// Ok reports whether every attempted sync succeeded.
func (s Summary) Ok() bool { return s.Failed == 0 }

// SyncError is returned by Summarize in strict mode when any remote
// failed.
type SyncError struct {
	Failures []Failure
}

func (e *SyncError) Error() string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.Remote
	}
	return fmt.Sprintf("%d remote(s) failed to sync: %s",
		len(e.Failures), strings.Join(names, ", "))
}

// Summarize folds per-remote outcomes into a Summary. In strict
// mode any failure escalates to an error for the caller; otherwise
// failures are reported in the Summary and browsing proceeds on
// whatever cached data exists.
func Summarize(outcomes []Outcome, strict bool) (Summary, error) {
	var s Summary
	for _, o := range outcomes {
		if o.Err != nil {
			s.Failed++
			s.Failures = append(s.Failures, Failure{
				Remote: o.Remote,
				Reason: o.Err.Error(),
			})
			continue
		}
		s.Successful++
	}

	if strict && s.Failed > 0 {
		return s, &SyncError{Failures: s.Failures}
	}
	return s, nil
}
