package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected LogLevel
	}{
		{"trace", "trace", LevelTrace},
		{"debug", "debug", LevelDebug},
		{"info", "info", LevelInfo},
		{"warn", "warn", LevelWarn},
		{"error", "error", LevelError},
		{"none", "none", LevelNone},
		{"mixed case", "DeBuG", LevelDebug},
		{"unknown defaults to info", "loud", LevelInfo},
		{"empty defaults to info", "", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestGetLevelFromEnv(t *testing.T) {
	t.Setenv("LIVEBOX_LOG_LEVEL", "trace")
	assert.Equal(t, LevelTrace, GetLevelFromEnv())

	t.Setenv("LIVEBOX_LOG_LEVEL", "")
	assert.Equal(t, LevelInfo, GetLevelFromEnv())
}

func TestConsoleLoggerLevelGate(t *testing.T) {
	l := NewConsoleLogger(LevelWarn)
	assert.False(t, l.IsLevelEnabled(LevelDebug))
	assert.False(t, l.IsLevelEnabled(LevelInfo))
	assert.True(t, l.IsLevelEnabled(LevelWarn))
	assert.True(t, l.IsLevelEnabled(LevelError))
}

func TestConsoleLoggerDerivation(t *testing.T) {
	base := NewConsoleLogger(LevelInfo).(*consoleLogger)

	prefixed := base.WithPrefix("livebox").(*consoleLogger)
	assert.Equal(t, []string{"livebox"}, prefixed.prefixes)
	assert.Empty(t, base.prefixes)

	// adding the same prefix twice keeps a single copy
	again := prefixed.WithPrefix("livebox").(*consoleLogger)
	assert.Equal(t, []string{"livebox"}, again.prefixes)

	tagged := base.With(map[string]interface{}{"req": "abc"}).(*consoleLogger)
	assert.Equal(t, "abc", tagged.metadata["req"])
	assert.Empty(t, base.metadata)
}

func TestTestLoggerRecordsAcrossDerivedLoggers(t *testing.T) {
	l := NewTestLogger()
	l.Info("hello %s", "world")
	l.With(map[string]interface{}{"req": "1"}).Warn("careful")

	entries := l.Entries()
	assert.Len(t, entries, 2)
	assert.Equal(t, "INFO", entries[0].Severity)
	assert.Equal(t, "WARN", entries[1].Severity)
	assert.Equal(t, []string{"hello world", "careful"}, l.Messages())
}
