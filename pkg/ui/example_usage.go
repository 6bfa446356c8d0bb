// Package ui provides terminal UI components for the call-log tool
// This file demonstrates example usage of the UI components
package ui

/*
Example usage of the UI components:

// Terminal colors and output
ui.PrintInfo("Server", "https://platform.ringcentral.com") // Cyan label, yellow value
ui.PrintSuccess("Deleted 12 call logs")                    // Green success message
ui.PrintError("Fetch failed", err)                         // Red error message
ui.PrintWarning("No call log records found")               // Yellow warning message
ui.PrintHighlight("[DRY RUN]")                             // Magenta highlight message
ui.SetColorEnabled(false)                                  // Honor --no-color

// Record display
ui.PrintRecord(record, true) // Detailed view prints call legs too

// Interactive confirmation (calllog.Confirmer)
confirmer := ui.NewConsoleConfirmer(nil) // nil reads from stdin
approved, err := confirmer.Confirm(record)

// Console progress (calllog.ProgressSink)
sink := ui.NewConsoleProgress(false)
runner.SetProgressSink(sink)

// Notifications (cross-platform)
notifier := ui.NewNotifier()
notifier.SendNotification("Purge complete", "Deleted 12 call logs")
notifier.SendError("Purge failed", "authentication rejected")

// Direct color usage
fmt.Printf("%s: %s\n", ui.Cyan("Record"), ui.Yellow(record.ID))
fmt.Println(ui.Green("✓ Deleted"))
fmt.Println(ui.Red("✗ Failed"))
*/
