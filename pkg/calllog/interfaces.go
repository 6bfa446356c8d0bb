package calllog

import (
	"context"

	"rclogs/pkg/ringcentral"
)

// API defines the call-log operations the traversal and deletion
// workflows consume
type API interface {
	ListCallLogs(ctx context.Context, params ringcentral.ListParams) (*ringcentral.CallLogResponse, error)
	ListCallLogsByURI(ctx context.Context, uri string) (*ringcentral.CallLogResponse, error)
	DeleteCallLog(ctx context.Context, recordID string) error
}

// Confirmer asks for per-record approval before a deletion. The
// console implementation shows the record and prompts; scripted
// implementations answer from policy.
type Confirmer interface {
	Confirm(record ringcentral.CallLogRecord) (bool, error)
}

// ScriptedConfirmer answers every confirmation the same way
type ScriptedConfirmer bool

// Confirm returns the scripted answer
func (s ScriptedConfirmer) Confirm(record ringcentral.CallLogRecord) (bool, error) {
	return bool(s), nil
}
