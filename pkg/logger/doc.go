// Package logger provides structured logging for the call-log tooling.
//
// It wraps zerolog behind a small interface so components can be handed a
// logger without depending on the backing library, and so tests can capture
// output with TestLogger. Console output is colored and human readable;
// "json" format writes machine-readable lines, optionally teed to a file.
//
// Usage:
//
//	logger.Initialize(logger.Options{Level: "debug"})
//	logger.WithField("record_id", id).Info("call log deleted")
package logger
