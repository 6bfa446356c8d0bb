package calllog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "rclogs/pkg/errors"
	"rclogs/pkg/logger"
	"rclogs/pkg/ringcentral"
)

// captureAudit counts audit writes per record
type captureAudit struct {
	entries []string
	err     error
}

func (c *captureAudit) Append(record ringcentral.CallLogRecord, now time.Time) error {
	if c.err != nil {
		return c.err
	}
	c.entries = append(c.entries, record.ID)
	return nil
}

func (c *captureAudit) Close() error { return nil }

// captureSink records progress events
type captureSink struct {
	pages     []int
	processed []string
	outcomes  []Outcome
	done      *Stats
	paused    bool
}

func (c *captureSink) PageFetched(pageNum, recordCount int) { c.pages = append(c.pages, pageNum) }

func (c *captureSink) RecordProcessed(record ringcentral.CallLogRecord, result DeletionResult) {
	c.processed = append(c.processed, record.ID)
	c.outcomes = append(c.outcomes, result.Outcome)
}

func (c *captureSink) RateLimit(used, capacity int, resetAt time.Time) {}

func (c *captureSink) Waiting(reason string, wait time.Duration) {}

func (c *captureSink) LogInfo(format string, args ...interface{}) {}

func (c *captureSink) LogWarning(format string, args ...interface{}) {}

func (c *captureSink) IsPaused() bool { return c.paused }

func (c *captureSink) Done(stats Stats) { c.done = &stats }

func TestRunnerUnattendedWorkflow(t *testing.T) {
	records := []ringcentral.CallLogRecord{
		recordWithoutRecording("r1"),
		recordWithRecording("r2"),
		recordWithRecording("r3"),
	}
	api := &fakeAPI{
		first:     pageOf(records, ""),
		deleteErr: map[string]error{"r3": errs.New(errs.ErrorTypeTransient, "unexpected status code: 500")},
	}

	exec := newTestExecutor()
	audit := &captureAudit{}
	runner := NewRunner(NewWalker(api, exec, logger.NewTestLogger()), NewUnattendedAction(api, exec), audit, logger.NewTestLogger())

	stats, err := runner.Run(context.Background(), ringcentral.ListParams{})
	require.NoError(t, err, "per-record deletion failures stay local to the record")

	assert.Equal(t, Stats{Pages: 1, Processed: 3, Deleted: 1, Skipped: 1, Failed: 1}, stats)
	assert.Equal(t, []string{"r2"}, audit.entries, "exactly one audit write per confirmed deletion")
	assert.Equal(t, []string{"r2"}, api.deleted)
}

func TestRunnerAuditFailureAbortsRun(t *testing.T) {
	records := []ringcentral.CallLogRecord{
		recordWithRecording("r1"),
		recordWithRecording("r2"),
	}
	api := &fakeAPI{first: pageOf(records, "")}

	exec := newTestExecutor()
	audit := &captureAudit{err: fmt.Errorf("disk full")}
	runner := NewRunner(NewWalker(api, exec, logger.NewTestLogger()), NewUnattendedAction(api, exec), audit, logger.NewTestLogger())

	stats, err := runner.Run(context.Background(), ringcentral.ListParams{})

	require.Error(t, err)
	assert.ErrorContains(t, err, "audit log write failed")
	assert.Equal(t, 1, stats.Processed, "the run must stop at the unauditable deletion")
	assert.Equal(t, []string{"r1"}, api.deleted)
}

func TestRunnerAbortsOnAuthFailure(t *testing.T) {
	records := []ringcentral.CallLogRecord{
		recordWithRecording("r1"),
		recordWithRecording("r2"),
	}
	authErr := errs.New(errs.ErrorTypeAuth, "authentication rejected")
	api := &fakeAPI{
		first:     pageOf(records, ""),
		deleteErr: map[string]error{"r1": authErr},
	}

	exec := newTestExecutor()
	runner := NewRunner(NewWalker(api, exec, logger.NewTestLogger()), NewUnattendedAction(api, exec), &captureAudit{}, logger.NewTestLogger())

	stats, err := runner.Run(context.Background(), ringcentral.ListParams{})

	assert.Equal(t, authErr, err)
	assert.Equal(t, 1, stats.Processed, "a rejected token must stop the run immediately")
	assert.Empty(t, api.deleted)
}

func TestRunnerSurfacesFetchFailure(t *testing.T) {
	boom := errs.New(errs.ErrorTypeTransient, "503 service unavailable")
	api := &fakeAPI{listErr: boom}

	exec := newTestExecutor()
	sink := &captureSink{}
	runner := NewRunner(NewWalker(api, exec, logger.NewTestLogger()), NewUnattendedAction(api, exec), &captureAudit{}, logger.NewTestLogger())
	runner.SetProgressSink(sink)

	stats, err := runner.Run(context.Background(), ringcentral.ListParams{})

	assert.Equal(t, boom, err)
	assert.Zero(t, stats.Processed)
	require.NotNil(t, sink.done, "the sink must learn the run is over even on failure")
}

func TestRunnerReportsProgress(t *testing.T) {
	api := &fakeAPI{
		byPage: map[int]*ringcentral.CallLogResponse{
			1: pageOf([]ringcentral.CallLogRecord{recordWithRecording("r1"), recordWithoutRecording("r2")}, ""),
			2: pageOf(nil, ""),
		},
	}

	exec := newTestExecutor()
	sink := &captureSink{}
	runner := NewRunner(NewWalker(api, exec, logger.NewTestLogger()), NewUnattendedAction(api, exec), &captureAudit{}, logger.NewTestLogger())
	runner.SetProgressSink(sink)

	stats, err := runner.RunByOffset(context.Background(), ringcentral.ListParams{PerPage: 250})
	require.NoError(t, err)

	assert.Equal(t, Stats{Pages: 2, Processed: 2, Deleted: 1, Skipped: 1}, stats)
	assert.Equal(t, []int{1, 2}, sink.pages)
	assert.Equal(t, []string{"r1", "r2"}, sink.processed)
	assert.Equal(t, []Outcome{OutcomeDeleted, OutcomeSkipped}, sink.outcomes)
	require.NotNil(t, sink.done)
	assert.Equal(t, stats, *sink.done)
}
