package calllog

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"rclogs/pkg/ringcentral"
)

// DefaultAuditPath is where deletions are recorded unless overridden
const DefaultAuditPath = "deleted_call_logs.log"

const auditSeparator = "------------------------------"

// AuditLogger records successful deletions durably. Append is called
// exactly once per confirmed deletion.
type AuditLogger interface {
	Append(record ringcentral.CallLogRecord, now time.Time) error
	Close() error
}

// FileAuditLog appends one labeled block per deletion to a text file
type FileAuditLog struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// NewFileAuditLog opens the audit file for appending, creating it if
// needed
func NewFileAuditLog(path string) (*FileAuditLog, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log %s: %w", path, err)
	}

	return &FileAuditLog{file: file, path: path}, nil
}

// Path returns the audit file's location
func (a *FileAuditLog) Path() string {
	return a.path
}

// Append writes one deletion block. A write failure must surface to
// the caller: a deletion tool that cannot record what it deleted has
// to stop.
func (a *FileAuditLog) Append(record ringcentral.CallLogRecord, now time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "Timestamp: %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&b, "Deleted Call Log ID: %s\n", record.ID)
	fmt.Fprintf(&b, "Start Time: %s\n", record.StartTime.Format(time.RFC3339))
	fmt.Fprintf(&b, "Direction: %s\n", record.Direction)
	fmt.Fprintf(&b, "From: %s\n", record.From.Display())
	fmt.Fprintf(&b, "To: %s\n", record.To.Display())
	b.WriteString(auditSeparator + "\n")

	if _, err := a.file.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write audit entry for %s: %w", record.ID, err)
	}
	return nil
}

// Close releases the underlying file
func (a *FileAuditLog) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}
