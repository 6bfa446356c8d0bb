package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Cyberpunk color palette
	neonCyan    = lipgloss.Color("#00FFFF")
	neonMagenta = lipgloss.Color("#FF00FF")
	neonPink    = lipgloss.Color("#FF10F0")
	neonGreen   = lipgloss.Color("#39FF14")
	neonYellow  = lipgloss.Color("#FFFF00")
	neonOrange  = lipgloss.Color("#FF6700")
	darkBg      = lipgloss.Color("#0A0E27")
	darkBg2     = lipgloss.Color("#1A1E37")
	dimWhite    = lipgloss.Color("#B0B0B0")

	// Base styles
	baseStyle = lipgloss.NewStyle().
			Background(darkBg).
			Foreground(dimWhite)

	// Banner style
	bannerStyle = lipgloss.NewStyle().
			Foreground(neonCyan).
			Bold(true).
			Padding(1, 0).
			Align(lipgloss.Center)

	// Panel styles
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(neonMagenta).
			Background(darkBg2).
			Padding(1, 2)

	// Stats styles
	statsLabelStyle = lipgloss.NewStyle().
			Foreground(neonCyan).
			Bold(true)

	statsValueStyle = lipgloss.NewStyle().
			Foreground(neonYellow)

	// Status styles
	successStyle = lipgloss.NewStyle().
			Foreground(neonGreen).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(neonOrange).
			Bold(true)

	// Record event styles
	recordDeletedStyle = lipgloss.NewStyle().
				Foreground(neonGreen).
				PaddingLeft(2)

	recordSkippedStyle = lipgloss.NewStyle().
				Foreground(dimWhite).
				Faint(true).
				PaddingLeft(2)

	recordFailedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF0000")).
				PaddingLeft(2)

	// Throttle wait style
	waitStyle = lipgloss.NewStyle().
			Foreground(neonPink).
			Bold(true)

	// Throughput style
	rateStyle = lipgloss.NewStyle().
			Foreground(neonCyan)

	// Log styles
	logTimestampStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666"))

	logMessageStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	// Help style
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(1, 0, 0, 2)

	// Title styles for panels
	titleStyle = lipgloss.NewStyle().
			Background(neonMagenta).
			Foreground(darkBg).
			Bold(true).
			Padding(0, 1)

	// Rate limit styles
	rateLimitNormalStyle = lipgloss.NewStyle().
				Foreground(neonGreen)

	rateLimitWarningStyle = lipgloss.NewStyle().
				Foreground(neonOrange)

	rateLimitCriticalStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF0000"))
)

// GetRateLimitStyle returns the appropriate style based on window usage
func GetRateLimitStyle(usage float64) lipgloss.Style {
	switch {
	case usage >= 90:
		return rateLimitCriticalStyle
	case usage >= 70:
		return rateLimitWarningStyle
	default:
		return rateLimitNormalStyle
	}
}
