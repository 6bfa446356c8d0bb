package tui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rclogs/pkg/calllog"
	"rclogs/pkg/ringcentral"
)

// RecordEvent is one traversed record and what happened to it
type RecordEvent struct {
	ID      string
	Outcome calllog.Outcome
	Detail  string
	Time    time.Time
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// Model represents the dashboard state. All mutation goes through the
// methods below; IsPaused is read from the runner goroutine, so every
// access holds mu.
type Model struct {
	// UI components
	spinner     spinner.Model
	windowGauge progress.Model

	// Run state
	stats        calllog.Stats
	currentPage  int
	lastPageSize int
	recent       []RecordEvent
	maxRecent    int

	// Rate limiting
	rateLimitMax     int
	rateLimitUsed    int
	rateLimitResetAt time.Time

	// Throttle wait state
	waitReason string
	waitUntil  time.Time

	// UI state
	width            int
	height           int
	showHelp         bool
	isPaused         bool
	done             bool
	logMessages      []LogMessage
	maxLogMessages   int
	sessionStartTime time.Time

	mu sync.RWMutex
}

// NewModel creates a new dashboard model
func NewModel() *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	gauge := progress.New(progress.WithDefaultGradient())
	gauge.Width = 40

	return &Model{
		spinner:          s,
		windowGauge:      gauge,
		maxRecent:        8,
		sessionStartTime: time.Now(),
		logMessages:      []LogMessage{},
		maxLogMessages:   50,
		rateLimitMax:     10, // Overwritten by the first RateLimitMsg
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// AddPage records a fetched page
func (m *Model) AddPage(pageNum, recordCount int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Pages++
	m.currentPage = pageNum
	m.lastPageSize = recordCount
}

// AddResult records the outcome of one traversed record
func (m *Model) AddResult(record ringcentral.CallLogRecord, result calllog.DeletionResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Processed++

	detail := ""
	switch result.Outcome {
	case calllog.OutcomeDeleted:
		m.stats.Deleted++
	case calllog.OutcomeSkipped:
		m.stats.Skipped++
		detail = result.Reason
	case calllog.OutcomeFailed:
		m.stats.Failed++
		if result.Cause != nil {
			detail = result.Cause.Error()
		}
	}

	m.recent = append(m.recent, RecordEvent{
		ID:      record.ID,
		Outcome: result.Outcome,
		Detail:  detail,
		Time:    time.Now(),
	})
	if len(m.recent) > m.maxRecent {
		m.recent = m.recent[len(m.recent)-m.maxRecent:]
	}
}

// UpdateRateLimit updates the admission window status
func (m *Model) UpdateRateLimit(used, max int, resetAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rateLimitUsed = used
	m.rateLimitMax = max
	m.rateLimitResetAt = resetAt
}

// SetWaiting records that the executor is sleeping before its next attempt
func (m *Model) SetWaiting(reason string, wait time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.waitReason = reason
	m.waitUntil = time.Now().Add(wait)
}

// Finish marks the run as complete
func (m *Model) Finish(stats calllog.Stats) {
	m.mu.Lock()
	m.stats = stats
	m.done = true
	m.waitUntil = time.Time{}
	m.mu.Unlock()

	m.AddLogMessage("SUCCESS", fmt.Sprintf("Run complete: %d deleted, %d skipped, %d failed",
		stats.Deleted, stats.Skipped, stats.Failed))
}

// AddLogMessage adds a log message
func (m *Model) AddLogMessage(level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	color := dimWhite
	switch level {
	case "ERROR":
		color = lipgloss.Color("#FF0000")
	case "WARN":
		color = neonOrange
	case "SUCCESS":
		color = neonGreen
	case "INFO":
		color = neonCyan
	}

	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   color,
	})

	// Keep only the last N messages
	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}
