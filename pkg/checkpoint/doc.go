// Package checkpoint provides persistent progress tracking for fetch
// runs, allowing interrupted exports to resume without re-fetching
// completed pages.
//
// Each checkpoint records the query fingerprint, the next page cursor,
// and export progress. The fingerprint binds a checkpoint to the exact
// parameters it was created with, so a resume never silently continues
// a different query.
//
// Checkpoint files are stored in OS-appropriate data directories:
//   - Linux: $XDG_DATA_HOME/rclogs/checkpoints or ~/.local/share/rclogs/checkpoints
//   - macOS: ~/Library/Application Support/rclogs/checkpoints
//   - Windows: %APPDATA%\rclogs\checkpoints
//
// Saves are atomic: the checkpoint is written to a temporary file,
// synced, and renamed into place, so a crash mid-save never corrupts
// an existing checkpoint.
//
// Usage:
//
//	manager, err := checkpoint.NewManager("fetch")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fingerprint := checkpoint.Fingerprint(phoneNumber, dateFrom, dateTo, outputPath)
//	cp, err := manager.LoadMatching(fingerprint)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if cp == nil {
//		cp, err = manager.Create(fingerprint)
//	}
//
//	// After each exported page:
//	manager.UpdateProgress(cp, nextPageURI, exportedCount)
//
//	// After the final page:
//	manager.Delete()
package checkpoint
