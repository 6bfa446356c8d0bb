package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger defines the interface for logging operations
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Fatal(msg string)

	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	DebugWithFields(msg string, fields map[string]interface{})
	InfoWithFields(msg string, fields map[string]interface{})
	WarnWithFields(msg string, fields map[string]interface{})
	ErrorWithFields(msg string, fields map[string]interface{})
	FatalWithFields(msg string, fields map[string]interface{})
}

// Options controls how the logger writes
type Options struct {
	// Level is one of debug, info, warn, error
	Level string
	// Format is "console" (colored, human-readable) or "json"
	Format string
	// File appends JSON logs to the given path in addition to the console
	File string
	// NoColor disables ANSI colors on console output
	NoColor bool
}

// zerologLogger implements the Logger interface using zerolog
type zerologLogger struct {
	logger *zerolog.Logger
	fields map[string]interface{}
	err    error
}

// New creates a Logger from the given options
func New(opts Options) (Logger, error) {
	level, err := parseLogLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zerolog.TimeFieldFormat = time.RFC3339

	var output io.Writer
	switch strings.ToLower(opts.Format) {
	case "", "console":
		output = consoleWriter(opts.NoColor)
	case "json":
		output = os.Stderr
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	if opts.File != "" {
		fileOutput, err := openLogFile(opts.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = zerolog.MultiLevelWriter(output, fileOutput)
	}

	zlog := zerolog.New(output).Level(level).With().
		Timestamp().
		Str("app", "rclogs").
		Logger()

	return &zerologLogger{logger: &zlog}, nil
}

func consoleWriter(noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			if i == nil {
				return ""
			}
			level := strings.ToUpper(fmt.Sprintf("%s", i))
			if noColor {
				return level
			}
			switch level {
			case "DEBUG":
				return "\033[37mDEBG\033[0m"
			case "INFO":
				return "\033[32mINFO\033[0m"
			case "WARN":
				return "\033[33mWARN\033[0m"
			case "ERROR":
				return "\033[31mERRO\033[0m"
			case "FATAL":
				return "\033[35mFATL\033[0m"
			default:
				return level
			}
		},
	}
}

func openLogFile(path string) (io.Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

func parseLogLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown level %q", level)
	}
}

func (l *zerologLogger) Debug(msg string) { l.emit(l.logger.Debug(), msg) }
func (l *zerologLogger) Info(msg string)  { l.emit(l.logger.Info(), msg) }
func (l *zerologLogger) Warn(msg string)  { l.emit(l.logger.Warn(), msg) }
func (l *zerologLogger) Error(msg string) { l.emit(l.logger.Error(), msg) }
func (l *zerologLogger) Fatal(msg string) { l.emit(l.logger.Fatal(), msg) }

func (l *zerologLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.emit(addFields(l.logger.Debug(), fields), msg)
}

func (l *zerologLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.emit(addFields(l.logger.Info(), fields), msg)
}

func (l *zerologLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.emit(addFields(l.logger.Warn(), fields), msg)
}

func (l *zerologLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.emit(addFields(l.logger.Error(), fields), msg)
}

func (l *zerologLogger) FatalWithFields(msg string, fields map[string]interface{}) {
	l.emit(addFields(l.logger.Fatal(), fields), msg)
}

func (l *zerologLogger) WithField(key string, value interface{}) Logger {
	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &zerologLogger{logger: l.logger, fields: fields, err: l.err}
}

func (l *zerologLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &zerologLogger{logger: l.logger, fields: merged, err: l.err}
}

func (l *zerologLogger) WithError(err error) Logger {
	return &zerologLogger{logger: l.logger, fields: l.fields, err: err}
}

// emit attaches accumulated context to the event and sends it
func (l *zerologLogger) emit(event *zerolog.Event, msg string) {
	if l.err != nil {
		event = event.Err(l.err)
	}
	addFields(event, l.fields).Msg(msg)
}

func addFields(event *zerolog.Event, fields map[string]interface{}) *zerolog.Event {
	for key, value := range fields {
		switch v := value.(type) {
		case string:
			event = event.Str(key, v)
		case int:
			event = event.Int(key, v)
		case int64:
			event = event.Int64(key, v)
		case float64:
			event = event.Float64(key, v)
		case bool:
			event = event.Bool(key, v)
		case time.Duration:
			event = event.Dur(key, v)
		case time.Time:
			event = event.Time(key, v)
		case error:
			event = event.AnErr(key, v)
		default:
			event = event.Interface(key, v)
		}
	}
	return event
}

// Global logger instance, used when components are not handed one explicitly.

var globalLogger Logger = mustNew(Options{Level: "info"})

func mustNew(opts Options) Logger {
	l, err := New(opts)
	if err != nil {
		panic(err)
	}
	return l
}

// Initialize replaces the global logger
func Initialize(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}
	globalLogger = l
	return nil
}

// GetLogger returns the global logger
func GetLogger() Logger {
	return globalLogger
}

// Package-level convenience functions using the global logger.

func Debug(msg string) { globalLogger.Debug(msg) }
func Info(msg string)  { globalLogger.Info(msg) }
func Warn(msg string)  { globalLogger.Warn(msg) }
func Error(msg string) { globalLogger.Error(msg) }

func WithField(key string, value interface{}) Logger { return globalLogger.WithField(key, value) }

func WithFields(fields map[string]interface{}) Logger { return globalLogger.WithFields(fields) }

func WithError(err error) Logger { return globalLogger.WithError(err) }
