package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"rclogs/pkg/calllog"
	"rclogs/pkg/ringcentral"
)

// Message types for the dashboard

// PageFetchedMsg is sent when a call log page arrives
type PageFetchedMsg struct {
	Page    int
	Records int
}

// RecordProcessedMsg is sent after each record is handled
type RecordProcessedMsg struct {
	Record ringcentral.CallLogRecord
	Result calllog.DeletionResult
}

// RateLimitMsg is sent to update admission window status
type RateLimitMsg struct {
	Used    int
	Max     int
	ResetAt time.Time
}

// WaitMsg is sent when the executor sleeps before its next attempt
type WaitMsg struct {
	Reason string
	Wait   time.Duration
}

// LogMsg is sent to add a log message
type LogMsg struct {
	Level   string
	Message string
}

// DoneMsg is sent when the run finishes
type DoneMsg struct {
	Stats calllog.Stats
}

// TickMsg is sent periodically to update the UI
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		// Regular UI update tick
		return m, tea.Batch(
			tickCmd(),
			m.spinner.Tick,
		)

	case PageFetchedMsg:
		m.AddPage(msg.Page, msg.Records)
		m.AddLogMessage("INFO", fmt.Sprintf("Fetched page %d (%d records)", msg.Page, msg.Records))
		return m, nil

	case RecordProcessedMsg:
		m.AddResult(msg.Record, msg.Result)
		if msg.Result.Outcome == calllog.OutcomeFailed && msg.Result.Cause != nil {
			m.AddLogMessage("ERROR", "Failed: "+msg.Record.ID+" - "+msg.Result.Cause.Error())
		}
		return m, nil

	case RateLimitMsg:
		m.UpdateRateLimit(msg.Used, msg.Max, msg.ResetAt)
		return m, nil

	case WaitMsg:
		m.SetWaiting(msg.Reason, msg.Wait)
		m.AddLogMessage("WARN", fmt.Sprintf("%s, waiting %s", msg.Reason, msg.Wait.Round(time.Second)))
		return m, nil

	case LogMsg:
		m.AddLogMessage(msg.Level, msg.Message)
		return m, nil

	case DoneMsg:
		m.Finish(msg.Stats)
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mu.RLock()
	done := m.done
	m.mu.RUnlock()

	// Once the run is over any key dismisses the dashboard
	if done {
		return m, tea.Quit
	}

	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "p", "P":
		m.mu.Lock()
		m.isPaused = !m.isPaused
		paused := m.isPaused
		m.mu.Unlock()
		if paused {
			m.AddLogMessage("WARN", "Deletions paused by user")
		} else {
			m.AddLogMessage("INFO", "Deletions resumed by user")
		}
		return m, nil

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "ctrl+l":
		// Clear logs
		m.mu.Lock()
		m.logMessages = []LogMessage{}
		m.mu.Unlock()
		return m, nil
	}

	return m, nil
}

// Commands

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
