package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"rclogs/pkg/calllog"
	"rclogs/pkg/ringcentral"
)

// TUI is a full-screen dashboard for deletion runs. It satisfies
// calllog.ProgressSink by forwarding runner events to the bubbletea
// program, so the runner goroutine never touches the model directly.
type TUI struct {
	program *tea.Program
	model   *Model
}

var _ calllog.ProgressSink = (*TUI)(nil)

// New creates a new dashboard instance
func New() *TUI {
	model := NewModel()
	program := tea.NewProgram(model, tea.WithAltScreen())

	return &TUI{
		program: program,
		model:   model,
	}
}

// Start runs the dashboard until the user quits or Stop is called
func (t *TUI) Start() error {
	go func() {
		// Send initial tick to start the spinner
		time.Sleep(100 * time.Millisecond)
		t.program.Send(TickMsg(time.Now()))
	}()

	_, err := t.program.Run()
	return err
}

// Stop stops the dashboard gracefully
func (t *TUI) Stop() {
	t.program.Quit()
}

// Send sends a message to the dashboard
func (t *TUI) Send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

// PageFetched notifies the dashboard that a call log page arrived
func (t *TUI) PageFetched(pageNum, recordCount int) {
	t.Send(PageFetchedMsg{Page: pageNum, Records: recordCount})
}

// RecordProcessed notifies the dashboard of one record outcome
func (t *TUI) RecordProcessed(record ringcentral.CallLogRecord, result calllog.DeletionResult) {
	t.Send(RecordProcessedMsg{Record: record, Result: result})
}

// RateLimit updates the admission window display
func (t *TUI) RateLimit(used, capacity int, resetAt time.Time) {
	t.Send(RateLimitMsg{Used: used, Max: capacity, ResetAt: resetAt})
}

// Waiting notifies the dashboard that the executor is sleeping
func (t *TUI) Waiting(reason string, wait time.Duration) {
	t.Send(WaitMsg{Reason: reason, Wait: wait})
}

// Done marks the run as finished
func (t *TUI) Done(stats calllog.Stats) {
	t.Send(DoneMsg{Stats: stats})
}

// Log sends a log message to the dashboard
func (t *TUI) Log(level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	t.Send(LogMsg{Level: level, Message: message})
}

// LogInfo logs an info message
func (t *TUI) LogInfo(format string, args ...interface{}) {
	t.Log("INFO", format, args...)
}

// LogSuccess logs a success message
func (t *TUI) LogSuccess(format string, args ...interface{}) {
	t.Log("SUCCESS", format, args...)
}

// LogWarning logs a warning message
func (t *TUI) LogWarning(format string, args ...interface{}) {
	t.Log("WARN", format, args...)
}

// LogError logs an error message
func (t *TUI) LogError(format string, args ...interface{}) {
	t.Log("ERROR", format, args...)
}

// IsPaused reports whether the user paused the run
func (t *TUI) IsPaused() bool {
	t.model.mu.RLock()
	defer t.model.mu.RUnlock()
	return t.model.isPaused
}
