package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"rclogs/pkg/calllog"
)

// View renders the entire dashboard. It takes the read lock once; the
// render helpers below expect the caller to hold it.
func (m *Model) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	// Build the UI layout
	var sections []string

	// Banner
	sections = append(sections, m.renderBanner())

	// Main content area with two columns
	leftColumn := m.renderLeftColumn()
	rightColumn := m.renderRightColumn()

	mainContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftColumn,
		"  ", // spacing
		rightColumn,
	)
	sections = append(sections, mainContent)

	// Help
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else if m.done {
		sections = append(sections, helpStyle.Render("Press any key to exit"))
	} else {
		sections = append(sections, helpStyle.Render("Press ? for help"))
	}

	// Join all sections vertically
	return baseStyle.Width(m.width).Height(m.height).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

// renderBanner renders the dashboard header
func (m *Model) renderBanner() string {
	banner := `
╔════════════════════════════════════════════════╗
║   R C L O G S  ::  CALL LOG PURGE CONSOLE      ║
╚════════════════════════════════════════════════╝`

	return bannerStyle.Width(m.width).Render(banner)
}

// renderLeftColumn renders the left side of the UI
func (m *Model) renderLeftColumn() string {
	width := (m.width - 4) / 2

	var sections []string

	// Stats panel
	sections = append(sections, m.renderStatsPanel(width))

	// Recent records panel
	sections = append(sections, m.renderRecentPanel(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderRightColumn renders the right side of the UI
func (m *Model) renderRightColumn() string {
	width := (m.width - 4) / 2

	var sections []string

	// Rate limit panel
	sections = append(sections, m.renderRateLimitPanel(width))

	// Logs panel
	sections = append(sections, m.renderLogsPanel(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatsPanel renders the run statistics panel
func (m *Model) renderStatsPanel(width int) string {
	title := titleStyle.Render(" RUN STATS ")

	elapsed := time.Since(m.sessionStartTime)

	var status string
	switch {
	case m.done:
		status = successStyle.Render("✓ COMPLETE")
	case m.isPaused:
		status = warningStyle.Render("⏸  PAUSED")
	default:
		status = m.spinner.View() + statsValueStyle.Render(fmt.Sprintf("scanning page %d (%d records)", m.currentPage, m.lastPageSize))
	}

	perMinute := 0.0
	if elapsed > 0 {
		perMinute = float64(m.stats.Processed) / elapsed.Minutes()
	}

	stats := []string{
		status,
		"",
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Session Time:"), statsValueStyle.Render(formatDuration(elapsed))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Pages Fetched:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.Pages))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Processed:"), statsValueStyle.Render(fmt.Sprintf("%d records", m.stats.Processed))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Deleted:"), successStyle.Render(fmt.Sprintf("%d", m.stats.Deleted))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Skipped:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.Skipped))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Failed:"), renderFailedCount(m.stats.Failed)),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Throughput:"), rateStyle.Render(fmt.Sprintf("%.1f records/min", perMinute))),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, stats...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderFailedCount colors the failure count only when failures exist
func renderFailedCount(failed int) string {
	if failed > 0 {
		return errorStyle.Render(fmt.Sprintf("%d", failed))
	}
	return statsValueStyle.Render("0")
}

// renderRecentPanel renders the last few record outcomes
func (m *Model) renderRecentPanel(width int) string {
	title := titleStyle.Render(" RECENT RECORDS ")

	if len(m.recent) == 0 {
		content := lipgloss.NewStyle().Foreground(dimWhite).Render("No records processed yet")
		return panelStyle.Width(width).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, content),
		)
	}

	var lines []string
	for _, event := range m.recent {
		lines = append(lines, renderRecordEvent(event, width-8))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderRecordEvent renders one record outcome line
func renderRecordEvent(event RecordEvent, maxWidth int) string {
	var text string
	style := recordSkippedStyle

	switch event.Outcome {
	case calllog.OutcomeDeleted:
		text = "✓ " + event.ID
		style = recordDeletedStyle
	case calllog.OutcomeSkipped:
		text = "− " + event.ID + " (" + event.Detail + ")"
	case calllog.OutcomeFailed:
		text = "✗ " + event.ID + ": " + event.Detail
		style = recordFailedStyle
	}

	if maxWidth > 3 && len(text) > maxWidth {
		text = text[:maxWidth-3] + "..."
	}
	return style.Render(text)
}

// renderRateLimitPanel renders the admission window status
func (m *Model) renderRateLimitPanel(width int) string {
	title := titleStyle.Render(" RATE LIMIT ")

	usage := 0.0
	if m.rateLimitMax > 0 {
		usage = float64(m.rateLimitUsed) / float64(m.rateLimitMax) * 100
	}

	usageStyle := GetRateLimitStyle(usage)

	gauge := m.windowGauge
	gauge.Width = width - 8
	bar := gauge.ViewAs(usage / 100)

	resetIn := time.Until(m.rateLimitResetAt)
	if resetIn < 0 {
		resetIn = 0
	}

	content := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Window:"),
			usageStyle.Render(fmt.Sprintf("%d/%d (%.0f%%)", m.rateLimitUsed, m.rateLimitMax, usage))),
		bar,
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Reset in:"),
			statsValueStyle.Render(formatDuration(resetIn))),
	}

	if wait := time.Until(m.waitUntil); wait > 0 {
		content = append(content, waitStyle.Render(
			fmt.Sprintf("⏳ %s, resuming in %s", m.waitReason, formatDuration(wait))))
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(content, "\n")),
	)
}

// renderLogsPanel renders the logs panel
func (m *Model) renderLogsPanel(width int) string {
	title := titleStyle.Render(" LOGS ")

	// Get recent logs
	start := len(m.logMessages) - 10
	if start < 0 {
		start = 0
	}

	var logs []string
	for i := start; i < len(m.logMessages); i++ {
		log := m.logMessages[i]
		timestamp := logTimestampStyle.Render(log.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(log.Color).Bold(true).Render(fmt.Sprintf("[%-7s]", log.Level))

		// Truncate message if too long
		message := log.Message
		maxMsgLen := width - 25
		if maxMsgLen > 3 && len(message) > maxMsgLen {
			message = message[:maxMsgLen-3] + "..."
		}

		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, logMessageStyle.Render(message)))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = lipgloss.NewStyle().Foreground(dimWhite).Render("No logs yet...")
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderHelp renders the help panel
func (m *Model) renderHelp() string {
	help := `
  Navigation:
    q/Q      - Quit and cancel the run
    p/P      - Pause/Resume deletions
    ctrl+l   - Clear logs
    ?        - Toggle this help

  Status Indicators:
    ` + successStyle.Render("Green") + `    - Deleted
    ` + warningStyle.Render("Orange") + `   - Warning/Paused
    ` + errorStyle.Render("Red") + `      - Error/Failed

  Icons:
    ✓        - Record deleted
    −        - Record skipped
    ✗        - Deletion failed
    ⏳       - Waiting out the throttle
    ⏸        - Paused
`

	return panelStyle.Width(m.width).Render(help)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
