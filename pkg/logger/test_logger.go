package logger

import (
	"strings"
	"sync"
)

// TestLogger captures log output for assertions in tests
type TestLogger struct {
	mu       sync.Mutex
	messages []LogMessage
	fields   map[string]interface{}
	err      error
}

// LogMessage is one captured log entry
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
	Error   error
}

// NewTestLogger creates a logger that records instead of writing
func NewTestLogger() *TestLogger {
	return &TestLogger{}
}

func (l *TestLogger) Debug(msg string) { l.log("DEBUG", msg, nil) }
func (l *TestLogger) Info(msg string)  { l.log("INFO", msg, nil) }
func (l *TestLogger) Warn(msg string)  { l.log("WARN", msg, nil) }
func (l *TestLogger) Error(msg string) { l.log("ERROR", msg, nil) }
func (l *TestLogger) Fatal(msg string) { l.log("FATAL", msg, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}

func (l *TestLogger) FatalWithFields(msg string, fields map[string]interface{}) {
	l.log("FATAL", msg, fields)
}

func (l *TestLogger) WithField(key string, value interface{}) Logger {
	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &chainedTestLogger{parent: l, fields: fields, err: l.err}
}

func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &chainedTestLogger{parent: l, fields: merged, err: l.err}
}

func (l *TestLogger) WithError(err error) Logger {
	return &chainedTestLogger{parent: l, fields: l.fields, err: err}
}

func (l *TestLogger) log(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := fields
	if len(l.fields) > 0 {
		merged = make(map[string]interface{}, len(l.fields)+len(fields))
		for k, v := range l.fields {
			merged[k] = v
		}
		for k, v := range fields {
			merged[k] = v
		}
	}
	l.messages = append(l.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  merged,
		Error:   l.err,
	})
}

// Messages returns a copy of all captured entries
func (l *TestLogger) Messages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]LogMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// MessagesByLevel returns captured entries of one level
func (l *TestLogger) MessagesByLevel(level string) []LogMessage {
	var filtered []LogMessage
	for _, msg := range l.Messages() {
		if msg.Level == level {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

// HasMessage checks whether any entry's message contains text
func (l *TestLogger) HasMessage(text string) bool {
	for _, msg := range l.Messages() {
		if strings.Contains(msg.Message, text) {
			return true
		}
	}
	return false
}

// Clear drops all captured entries
func (l *TestLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = l.messages[:0]
}

// chainedTestLogger forwards entries to the root TestLogger with
// extra context attached, so assertions see everything in one place.
type chainedTestLogger struct {
	parent *TestLogger
	fields map[string]interface{}
	err    error
}

func (c *chainedTestLogger) Debug(msg string) { c.log("DEBUG", msg, nil) }
func (c *chainedTestLogger) Info(msg string)  { c.log("INFO", msg, nil) }
func (c *chainedTestLogger) Warn(msg string)  { c.log("WARN", msg, nil) }
func (c *chainedTestLogger) Error(msg string) { c.log("ERROR", msg, nil) }
func (c *chainedTestLogger) Fatal(msg string) { c.log("FATAL", msg, nil) }

func (c *chainedTestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	c.log("DEBUG", msg, fields)
}

func (c *chainedTestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	c.log("INFO", msg, fields)
}

func (c *chainedTestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	c.log("WARN", msg, fields)
}

func (c *chainedTestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	c.log("ERROR", msg, fields)
}

func (c *chainedTestLogger) FatalWithFields(msg string, fields map[string]interface{}) {
	c.log("FATAL", msg, fields)
}

func (c *chainedTestLogger) WithField(key string, value interface{}) Logger {
	fields := make(map[string]interface{}, len(c.fields)+1)
	for k, v := range c.fields {
		fields[k] = v
	}
	fields[key] = value
	return &chainedTestLogger{parent: c.parent, fields: fields, err: c.err}
}

func (c *chainedTestLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(c.fields)+len(fields))
	for k, v := range c.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &chainedTestLogger{parent: c.parent, fields: merged, err: c.err}
}

func (c *chainedTestLogger) WithError(err error) Logger {
	return &chainedTestLogger{parent: c.parent, fields: c.fields, err: err}
}

func (c *chainedTestLogger) log(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(c.fields)+len(fields))
	for k, v := range c.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	c.parent.mu.Lock()
	defer c.parent.mu.Unlock()
	c.parent.messages = append(c.parent.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  merged,
		Error:   c.err,
	})
}
