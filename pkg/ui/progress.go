package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"rclogs/pkg/calllog"
	"rclogs/pkg/ringcentral"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
)

// ConsoleProgress renders run progress as a single updating console
// line, or one line per record in verbose mode. It implements
// calllog.ProgressSink for runs without the full-screen dashboard.
type ConsoleProgress struct {
	mu        sync.Mutex
	stats     calllog.Stats
	used      int
	capacity  int
	startTime time.Time
	verbose   bool
}

// NewConsoleProgress creates a console progress sink
func NewConsoleProgress(verbose bool) *ConsoleProgress {
	return &ConsoleProgress{
		startTime: time.Now(),
		verbose:   verbose,
	}
}

// PageFetched reports a fetched page
func (p *ConsoleProgress) PageFetched(pageNum, recordCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.Pages++
	if p.verbose {
		fmt.Printf("\n%s page %d (%d records)\n", Magenta("[SCANNING]"), pageNum, recordCount)
	}
}

// RecordProcessed reports one record's outcome
func (p *ConsoleProgress) RecordProcessed(record ringcentral.CallLogRecord, result calllog.DeletionResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.Processed++
	switch result.Outcome {
	case calllog.OutcomeDeleted:
		p.stats.Deleted++
	case calllog.OutcomeSkipped:
		p.stats.Skipped++
	case calllog.OutcomeFailed:
		p.stats.Failed++
	}

	if p.verbose {
		p.printRecordLine(record, result)
		return
	}
	p.printProgress()
}

// RateLimit reports window usage after a record is processed
func (p *ConsoleProgress) RateLimit(used, capacity int, resetAt time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.used = used
	p.capacity = capacity
	if !p.verbose {
		p.printProgress()
	}
}

// Waiting reports that the run is sleeping before the next attempt
func (p *ConsoleProgress) Waiting(reason string, wait time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Printf("\n%s %s, waiting %s...\n", Yellow("[WAITING]"), reason, wait.Round(time.Second))
}

// LogInfo prints an informational line
func (p *ConsoleProgress) LogInfo(format string, args ...interface{}) {
	fmt.Printf("\n%s %s\n", Cyan("[INFO]"), fmt.Sprintf(format, args...))
}

// LogWarning prints a warning line
func (p *ConsoleProgress) LogWarning(format string, args ...interface{}) {
	fmt.Printf("\n%s %s\n", Yellow("[WARN]"), fmt.Sprintf(format, args...))
}

// IsPaused always reports false; the console sink has no pause key
func (p *ConsoleProgress) IsPaused() bool {
	return false
}

// Done prints the final summary
func (p *ConsoleProgress) Done(stats calllog.Stats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startTime)

	fmt.Printf("\n\n%s Processed %d records across %d pages in %s\n",
		Green("✓"),
		stats.Processed,
		stats.Pages,
		formatElapsed(elapsed),
	)
	fmt.Printf("  %s deleted %d, skipped %d, failed %d\n",
		Dim("•"),
		stats.Deleted,
		stats.Skipped,
		stats.Failed,
	)

	if elapsed.Minutes() > 0 && stats.Processed > 0 {
		fmt.Printf("  %s %.1f records/min\n", Dim("•"), float64(stats.Processed)/elapsed.Minutes())
	}
}

// printRecordLine prints a one-line outcome in verbose mode
func (p *ConsoleProgress) printRecordLine(record ringcentral.CallLogRecord, result calllog.DeletionResult) {
	switch result.Outcome {
	case calllog.OutcomeDeleted:
		fmt.Printf("%s %s deleted\n", Green("✓"), record.ID)
	case calllog.OutcomeSkipped:
		fmt.Printf("%s %s skipped %s\n", Dim("−"), record.ID, Dim("("+result.Reason+")"))
	case calllog.OutcomeFailed:
		fmt.Printf("%s %s failed: %v\n", Red("✗"), record.ID, result.Cause)
	}
}

// printProgress prints the single updating progress line
func (p *ConsoleProgress) printProgress() {
	line := fmt.Sprintf("%s %d • %s %d • %s %d • %s %d",
		Green("processed"), p.stats.Processed,
		Green("deleted"), p.stats.Deleted,
		Yellow("skipped"), p.stats.Skipped,
		Red("failed"), p.stats.Failed,
	)

	if p.capacity > 0 {
		line += " • " + p.windowGauge()
	}

	// Clear line and print
	fmt.Printf("\r%s\r%s", strings.Repeat(" ", 120), line)
}

// windowGauge renders the rate-limit window usage bar
func (p *ConsoleProgress) windowGauge() string {
	const width = 10
	filled := 0
	if p.capacity > 0 {
		filled = p.used * width / p.capacity
	}
	if filled > width {
		filled = width
	}

	bar := strings.Repeat(ProgressBar, filled) + strings.Repeat(ProgressEmpty, width-filled)
	return fmt.Sprintf("[%s] %d/%d", bar, p.used, p.capacity)
}

// formatElapsed formats a duration in a human-readable way
func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
