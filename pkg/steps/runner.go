package steps

import (
	"context"
	"time"

	"github.com/david-TxRxSystems/scripts/pkg/errors"
	"github.com/david-TxRxSystems/scripts/pkg/logging"
)

var log = logging.GetLogger("steps")

// Options configures a Runner.
type Options struct {
	// DryRun announces every step without executing anything.
	DryRun bool
	// OnResult, when set, is called with each result as it is decided,
	// for live status output.
	OnResult func(Result)
}

// Runner executes step lists.
type Runner struct {
	dryRun   bool
	onResult func(Result)
}

func NewRunner(opts Options) *Runner {
	return &Runner{
		dryRun:   opts.DryRun,
		onResult: opts.OnResult,
	}
}

// Run executes list in order and returns the summary. The returned
// error is non-nil when the run aborted: a step failed, the list was
// invalid, or the context was cancelled. The summary is always valid
// for printing, error or not.
func (r *Runner) Run(ctx context.Context, list []*Step) (*Summary, error) {
	summary := &Summary{}

	if err := Validate(list); err != nil {
		return summary, err
	}

	completed := make(map[string]bool, len(list))

	for _, step := range list {
		if err := ctx.Err(); err != nil {
			summary.Interrupted = true
			return summary, errors.Wrapf(err, errors.ErrInterrupted, "run interrupted before step %s", step.ID)
		}

		if missing := firstIncomplete(step, completed); missing != "" {
			r.record(summary, Result{
				Step:   step,
				Status: StatusSkipped,
				Reason: "requires " + missing + ", which did not complete",
			})
			continue
		}

		if r.dryRun {
			r.record(summary, Result{Step: step, Status: StatusPlanned})
			completed[step.ID] = true
			continue
		}

		result := r.execute(ctx, step)
		r.record(summary, result)

		switch result.Status {
		case StatusDone:
			completed[step.ID] = true
		case StatusFailed:
			if errors.IsErrorCode(result.Err, errors.ErrInterrupted) {
				summary.Interrupted = true
			}
			return summary, result.Err
		}
	}

	return summary, nil
}

func (r *Runner) execute(ctx context.Context, step *Step) Result {
	start := time.Now()
	log.Debug().Str("step", step.ID).Msg("running step")

	report, err := step.Run(ctx)
	result := Result{
		Step:     step,
		Report:   report,
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		result.Status = StatusDone
		for _, item := range report.FailedItems {
			log.Warn().Str("step", step.ID).Str("item", item).Msg("item failed")
		}
	case errors.IsRecoverable(err):
		result.Status = StatusSkipped
		result.Reason = errors.Reason(err)
		log.Warn().Str("step", step.ID).Str("reason", result.Reason).Msg("step skipped")
	default:
		result.Status = StatusFailed
		result.Err = err
		log.Error().Err(err).Str("step", step.ID).Msg("step failed")
	}
	return result
}

func (r *Runner) record(summary *Summary, result Result) {
	summary.add(result)
	if r.onResult != nil {
		r.onResult(result)
	}
}

// Validate checks that ids are unique and non-empty and that every
// Needs reference points at an earlier step in the list. Both
// orchestrators build their lists in code, so a violation is a
// programming error surfaced as STEP_ORDER.
func Validate(list []*Step) error {
	seen := make(map[string]bool, len(list))
	for _, step := range list {
		if step.ID == "" {
			return errors.New(errors.ErrStepOrder, "step with empty id")
		}
		if step.Run == nil {
			return errors.Newf(errors.ErrStepOrder, "step %s has no body", step.ID)
		}
		if seen[step.ID] {
			return errors.Newf(errors.ErrStepOrder, "duplicate step id %s", step.ID)
		}
		for _, need := range step.Needs {
			if need == step.ID {
				return errors.Newf(errors.ErrStepOrder, "step %s needs itself", step.ID)
			}
			if !seen[need] {
				return errors.Newf(errors.ErrStepOrder, "step %s needs %s, which does not precede it", step.ID, need)
			}
		}
		seen[step.ID] = true
	}
	return nil
}

func firstIncomplete(step *Step, completed map[string]bool) string {
	for _, need := range step.Needs {
		if !completed[need] {
			return need
		}
	}
	return ""
}
