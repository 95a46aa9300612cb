// Package steps defines the unit of work both orchestrators are built
// from and the runner that executes an ordered list of them. A step
// either completes, is skipped (its data was not there, or a
// prerequisite did not complete), or fails and takes the rest of the
// run with it. Steps run strictly one at a time, in list order.
package steps

import (
	"context"
	"time"
)

// Report is what a step body can say about its work beyond success or
// failure: a short status note and any per-item failures that should
// reach the summary without aborting the run.
type Report struct {
	// Message is appended to the step's status line, e.g. "14 apps".
	Message string
	// FailedItems lists per-item failures (package ids and the like)
	// tolerated by the step. They drive a non-zero exit.
	FailedItems []string
}

// RunFunc is a step body. Returning an error with code SOURCE_ABSENT
// or ARTIFACT_MISSING skips the step; any other error aborts the run.
type RunFunc func(ctx context.Context) (Report, error)

// Step is one unit of a backup or restore run.
type Step struct {
	// ID names the step; Needs references these.
	ID string
	// Desc is the human description shown on status lines.
	Desc string
	// Needs lists step ids that must have completed earlier in the
	// list. A step whose prerequisite was skipped is skipped too.
	Needs []string
	// Plan describes the side effects for dry-run output, usually the
	// command lines the step would run.
	Plan []string
	// Run does the work. Never called in dry-run mode.
	Run RunFunc
}

// Status classifies a step outcome.
type Status string

const (
	// StatusDone means the step completed.
	StatusDone Status = "done"
	// StatusSkipped means the step did not run: source or artifact
	// absent, or a prerequisite did not complete.
	StatusSkipped Status = "skipped"
	// StatusFailed means the step ran and failed; the run aborts.
	StatusFailed Status = "failed"
	// StatusPlanned is the dry-run outcome: announced, not executed.
	StatusPlanned Status = "planned"
)

// Result is the recorded outcome of one step.
type Result struct {
	Step     *Step
	Status   Status
	Reason   string
	Err      error
	Report   Report
	Duration time.Duration
}

// Summary aggregates a whole run.
type Summary struct {
	Results     []Result
	Done        int
	Skipped     int
	Failed      int
	Planned     int
	FailedItems []string
	Interrupted bool
}

// Clean reports whether every attempted step completed and no per-item
// failure was recorded.
func (s *Summary) Clean() bool {
	return s.Failed == 0 && !s.Interrupted && len(s.FailedItems) == 0
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusDone:
		s.Done++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	case StatusPlanned:
		s.Planned++
	}
	s.FailedItems = append(s.FailedItems, r.Report.FailedItems...)
}
