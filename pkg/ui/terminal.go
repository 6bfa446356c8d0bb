package ui

import (
	"fmt"
	"time"

	"rclogs/pkg/ringcentral"
)

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

var colorEnabled = true

// SetColorEnabled toggles ANSI colors on all print helpers
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		if !colorEnabled {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Red(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Println(Green(msg))
}

// PrintInfo prints a labeled value in cyan
func PrintInfo(label string, value string) {
	fmt.Printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Yellow(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	fmt.Println(Magenta(msg))
}

// PrintRecord prints one call log record. Legs are printed only when
// detailed is set and the record carries them (Detailed view).
func PrintRecord(record ringcentral.CallLogRecord, detailed bool) {
	fmt.Printf("%s %s\n", Cyan("Call Log ID:"), Yellow(record.ID))
	fmt.Printf("  %s %s\n", Cyan("Start:"), record.StartTime.Format(time.RFC3339))

	direction := record.Direction
	if record.Type != "" {
		direction += " " + Dim("("+record.Type+")")
	}
	fmt.Printf("  %s %s\n", Cyan("Direction:"), direction)
	fmt.Printf("  %s %s -> %s\n", Cyan("Parties:"), record.From.Display(), record.To.Display())
	fmt.Printf("  %s %s\n", Cyan("Duration:"), formatCallDuration(record.Duration))

	if record.Result != "" {
		fmt.Printf("  %s %s\n", Cyan("Result:"), record.Result)
	}
	if record.HasRecording() {
		fmt.Printf("  %s %s\n", Cyan("Recording:"), Green(record.Recording.Type+" "+record.Recording.ID))
	}

	if detailed && len(record.Legs) > 0 {
		fmt.Printf("  %s\n", Cyan("Legs:"))
		for i, leg := range record.Legs {
			fmt.Printf("    %s %s %s -> %s %s\n",
				Dim(fmt.Sprintf("%d.", i+1)),
				leg.Direction,
				leg.From.Display(),
				leg.To.Display(),
				Dim(fmt.Sprintf("(%s, %s, %s)", leg.LegType, leg.Result, formatCallDuration(leg.Duration))),
			)
		}
	}
}

// formatCallDuration renders a duration in whole seconds
func formatCallDuration(seconds int) string {
	return (time.Duration(seconds) * time.Second).String()
}
