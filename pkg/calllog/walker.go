package calllog

import (
	"context"

	"rclogs/pkg/logger"
	"rclogs/pkg/ringcentral"
	"rclogs/pkg/throttle"
)

// RecordFunc consumes one record of a traversal. Returning an error
// aborts the walk with that error.
type RecordFunc func(record ringcentral.CallLogRecord) error

// PageHook observes each fetched page. nextCursor is empty on the
// final page and for offset traversals.
type PageHook func(pageNum, recordCount int, nextCursor string)

// Walker streams call-log records page by page. Every page request
// goes through the executor, so admission and retries apply uniformly.
// A traversal is finite and not restartable; walking again re-fetches
// from the server.
type Walker struct {
	api    API
	exec   *throttle.Executor
	logger logger.Logger

	// OnPage observes fetched pages, for checkpoints and progress
	OnPage PageHook
}

// NewWalker creates a Walker driving requests through the given
// executor
func NewWalker(api API, exec *throttle.Executor, log logger.Logger) *Walker {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Walker{
		api:    api,
		exec:   exec,
		logger: log,
	}
}

// Walk traverses the listing from its first page, following navigation
// cursors until a page carries none. A page with zero records but a
// cursor continues; termination is driven solely by cursor absence.
func (w *Walker) Walk(ctx context.Context, params ringcentral.ListParams, fn RecordFunc) error {
	return w.walkCursor(ctx, params, "", fn)
}

// WalkFrom resumes a cursor traversal from a previously saved
// navigation link
func (w *Walker) WalkFrom(ctx context.Context, startURI string, fn RecordFunc) error {
	return w.walkCursor(ctx, ringcentral.ListParams{}, startURI, fn)
}

func (w *Walker) walkCursor(ctx context.Context, params ringcentral.ListParams, cursor string, fn RecordFunc) error {
	pageNum := 0

	for {
		pageNum++

		var page *ringcentral.CallLogResponse
		var err error
		if cursor == "" {
			page, err = throttle.Do(ctx, w.exec, func() (*ringcentral.CallLogResponse, error) {
				return w.api.ListCallLogs(ctx, params)
			})
		} else {
			uri := cursor
			page, err = throttle.Do(ctx, w.exec, func() (*ringcentral.CallLogResponse, error) {
				return w.api.ListCallLogsByURI(ctx, uri)
			})
		}
		if err != nil {
			w.logger.WithError(err).WithField("page", pageNum).Error("Failed to fetch call-log page")
			return err
		}

		nextCursor := ""
		if page.HasNextPage() {
			nextCursor = page.Navigation.NextPage.URI
		}

		w.logger.DebugWithFields("Call-log page fetched", map[string]interface{}{
			"page":     pageNum,
			"records":  len(page.Records),
			"has_next": nextCursor != "",
		})

		if w.OnPage != nil {
			w.OnPage(pageNum, len(page.Records), nextCursor)
		}

		if err := w.yieldRecords(page.Records, fn); err != nil {
			return err
		}

		if nextCursor == "" {
			return nil
		}
		cursor = nextCursor
	}
}

// WalkByOffset requests numbered pages until one returns an empty
// record collection. Deletion workloads renumber the remaining pages
// as records disappear, so cursor links are not trustworthy there.
func (w *Walker) WalkByOffset(ctx context.Context, params ringcentral.ListParams, fn RecordFunc) error {
	for pageNum := 1; ; pageNum++ {
		pageParams := params
		pageParams.Page = pageNum

		page, err := throttle.Do(ctx, w.exec, func() (*ringcentral.CallLogResponse, error) {
			return w.api.ListCallLogs(ctx, pageParams)
		})
		if err != nil {
			w.logger.WithError(err).WithField("page", pageNum).Error("Failed to fetch call-log page")
			return err
		}

		w.logger.DebugWithFields("Call-log page fetched", map[string]interface{}{
			"page":    pageNum,
			"records": len(page.Records),
		})

		if w.OnPage != nil {
			w.OnPage(pageNum, len(page.Records), "")
		}

		if len(page.Records) == 0 {
			return nil
		}

		if err := w.yieldRecords(page.Records, fn); err != nil {
			return err
		}
	}
}

// yieldRecords hands records to the consumer. Records without an id
// cannot be addressed for deletion or deduplication, so they are
// reported and skipped rather than yielded.
func (w *Walker) yieldRecords(records []ringcentral.CallLogRecord, fn RecordFunc) error {
	for _, record := range records {
		if record.ID == "" {
			w.logger.WarnWithFields("Skipping record without id", map[string]interface{}{
				"start_time": record.StartTime,
				"direction":  record.Direction,
				"from":       record.From.Display(),
			})
			continue
		}

		if err := fn(record); err != nil {
			return err
		}
	}
	return nil
}
