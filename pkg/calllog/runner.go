package calllog

import (
	"context"
	"fmt"
	"time"

	errs "rclogs/pkg/errors"
	"rclogs/pkg/logger"
	"rclogs/pkg/ratelimit"
	"rclogs/pkg/ringcentral"
)

// pausePollInterval is how often the runner re-checks a paused sink
const pausePollInterval = 100 * time.Millisecond

// Stats summarizes a deletion run
type Stats struct {
	Pages     int
	Processed int
	Deleted   int
	Skipped   int
	Failed    int
}

// ProgressSink receives run progress. Implementations render a console
// line or a full-screen dashboard; the runner never blocks on them
// except for the pause flag.
type ProgressSink interface {
	PageFetched(pageNum, recordCount int)
	RecordProcessed(record ringcentral.CallLogRecord, result DeletionResult)
	RateLimit(used, capacity int, resetAt time.Time)
	Waiting(reason string, wait time.Duration)
	LogInfo(format string, args ...interface{})
	LogWarning(format string, args ...interface{})
	IsPaused() bool
	Done(stats Stats)
}

// Runner drives a deletion workflow: traverse the call log, apply the
// policy to each record, audit every confirmed deletion. Per-record
// failures are recorded and the run continues; fetch failures and
// authentication failures abort the run.
type Runner struct {
	walker *Walker
	action Action
	audit  AuditLogger
	logger logger.Logger

	sink    ProgressSink
	limiter ratelimit.Limiter
}

// NewRunner assembles a deletion workflow. audit may be nil for
// workflows that do not delete.
func NewRunner(walker *Walker, action Action, audit AuditLogger, log logger.Logger) *Runner {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Runner{
		walker: walker,
		action: action,
		audit:  audit,
		logger: log,
	}
}

// SetProgressSink attaches a progress consumer
func (r *Runner) SetProgressSink(sink ProgressSink) {
	r.sink = sink
}

// SetLimiter attaches the shared limiter so the sink can display
// window usage
func (r *Runner) SetLimiter(limiter ratelimit.Limiter) {
	r.limiter = limiter
}

// Run traverses with cursor pagination and applies the action to every
// record
func (r *Runner) Run(ctx context.Context, params ringcentral.ListParams) (Stats, error) {
	return r.run(ctx, params, false)
}

// RunByOffset traverses numbered pages until an empty one, applying
// the action to every record. This is the traversal for purge runs,
// where deletions renumber the remaining pages.
func (r *Runner) RunByOffset(ctx context.Context, params ringcentral.ListParams) (Stats, error) {
	return r.run(ctx, params, true)
}

func (r *Runner) run(ctx context.Context, params ringcentral.ListParams, byOffset bool) (Stats, error) {
	stats := Stats{}

	prevHook := r.walker.OnPage
	r.walker.OnPage = func(pageNum, recordCount int, nextCursor string) {
		stats.Pages++
		if r.sink != nil {
			r.sink.PageFetched(pageNum, recordCount)
		}
		if prevHook != nil {
			prevHook(pageNum, recordCount, nextCursor)
		}
	}
	defer func() { r.walker.OnPage = prevHook }()

	fn := func(record ringcentral.CallLogRecord) error {
		if err := r.waitWhilePaused(ctx); err != nil {
			return err
		}

		result := r.action.Decide(ctx, record)
		stats.Processed++

		switch result.Outcome {
		case OutcomeDeleted:
			stats.Deleted++
			r.logger.InfoWithFields("Record deleted", map[string]interface{}{
				"record_id":  record.ID,
				"start_time": record.StartTime,
				"direction":  record.Direction,
			})

			if r.audit != nil {
				if err := r.audit.Append(record, time.Now()); err != nil {
					r.logger.WithError(err).Error("Audit log write failed, aborting run")
					return fmt.Errorf("audit log write failed: %w", err)
				}
			}

		case OutcomeSkipped:
			stats.Skipped++
			r.logger.DebugWithFields("Record skipped", map[string]interface{}{
				"record_id": record.ID,
				"reason":    result.Reason,
			})

		case OutcomeFailed:
			stats.Failed++
			r.logger.ErrorWithFields("Failed to delete record", map[string]interface{}{
				"record_id": record.ID,
				"error":     result.Cause.Error(),
			})

			// A rejected token fails every request that follows it
			if errs.IsAuth(result.Cause) {
				return result.Cause
			}
		}

		r.report(record, result)
		return nil
	}

	var err error
	if byOffset {
		err = r.walker.WalkByOffset(ctx, params, fn)
	} else {
		err = r.walker.Walk(ctx, params, fn)
	}

	if r.sink != nil {
		r.sink.Done(stats)
	}

	r.logger.InfoWithFields("Deletion run finished", map[string]interface{}{
		"pages":     stats.Pages,
		"processed": stats.Processed,
		"deleted":   stats.Deleted,
		"skipped":   stats.Skipped,
		"failed":    stats.Failed,
	})

	return stats, err
}

// report feeds per-record progress to the sink
func (r *Runner) report(record ringcentral.CallLogRecord, result DeletionResult) {
	if r.sink == nil {
		return
	}

	r.sink.RecordProcessed(record, result)
	if r.limiter != nil {
		used, capacity, resetAt := r.limiter.Usage()
		r.sink.RateLimit(used, capacity, resetAt)
	}
}

// waitWhilePaused blocks between records while the sink reports a
// pause, honoring cancellation
func (r *Runner) waitWhilePaused(ctx context.Context) error {
	if r.sink == nil {
		return nil
	}

	for r.sink.IsPaused() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pausePollInterval):
		}
	}
	return nil
}
