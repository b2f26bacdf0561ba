package logger

import (
	"fmt"
	"os"
)

type TestLogEntry struct {
	Severity  string
	Message   string
	Arguments []interface{}
}

// TestLogger records every entry so tests can assert on what was logged.
// Loggers derived with With or WithPrefix share the same entry list.
type TestLogger struct {
	metadata map[string]interface{}
	entries  *[]TestLogEntry
}

var _ Logger = (*TestLogger)(nil)

func (c *TestLogger) With(metadata map[string]interface{}) Logger {
	kv := make(map[string]interface{})
	for k, v := range c.metadata {
		kv[k] = v
	}
	for k, v := range metadata {
		kv[k] = v
	}
	return &TestLogger{metadata: kv, entries: c.entries}
}

func (c *TestLogger) WithPrefix(prefix string) Logger {
	return c
}

func (c *TestLogger) IsLevelEnabled(level LogLevel) bool {
	return true
}

func (c *TestLogger) record(severity string, msg string, args ...interface{}) {
	*c.entries = append(*c.entries, TestLogEntry{Severity: severity, Message: msg, Arguments: args})
}

func (c *TestLogger) Trace(msg string, args ...interface{}) {
	c.record("TRACE", msg, args...)
}

func (c *TestLogger) Debug(msg string, args ...interface{}) {
	c.record("DEBUG", msg, args...)
}

func (c *TestLogger) Info(msg string, args ...interface{}) {
	c.record("INFO", msg, args...)
}

func (c *TestLogger) Warn(msg string, args ...interface{}) {
	c.record("WARN", msg, args...)
}

func (c *TestLogger) Error(msg string, args ...interface{}) {
	c.record("ERROR", msg, args...)
}

func (c *TestLogger) Fatal(msg string, args ...interface{}) {
	c.record("FATAL", msg, args...)
	os.Exit(1)
}

// Entries returns every recorded entry, oldest first.
func (c *TestLogger) Entries() []TestLogEntry {
	return *c.entries
}

// Messages returns every recorded message formatted, oldest first.
func (c *TestLogger) Messages() []string {
	out := make([]string, 0, len(*c.entries))
	for _, entry := range *c.entries {
		out = append(out, fmt.Sprintf(entry.Message, entry.Arguments...))
	}
	return out
}

func NewTestLogger() *TestLogger {
	return &TestLogger{entries: &[]TestLogEntry{}}
}
