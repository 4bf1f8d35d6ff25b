// Package logger provides leveled, prefix-scoped logging for the CLI and
// rule-loading surfaces. The classification core never logs; keeping the
// logger out of internal/classify is what keeps that package pure.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Level represents log level
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var (
	globalMu      sync.RWMutex
	globalLevel   = LevelInfo
	globalColored = true
	globalOut     io.Writer = os.Stderr
)

var (
	styleTrace = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7"))
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("#87AF5F"))
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D7AF5F"))
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("#D75F5F"))
	styleFaint = lipgloss.NewStyle().Faint(true)
)

// Logger writes leveled messages scoped to a subsystem prefix.
type Logger struct {
	prefix string
}

// New creates a logger with the given subsystem prefix.
func New(prefix string) *Logger {
	return &Logger{prefix: prefix}
}

// SetGlobalLevel sets the minimum level that gets written.
func SetGlobalLevel(level Level) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLevel = level
}

// SetColored enables or disables colored output.
func SetColored(colored bool) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalColored = colored
}

// SetOutput redirects log output, primarily for tests.
func SetOutput(w io.Writer) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalOut = w
}

// ParseLevel converts a string to a Level, returning an error if unrecognized.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q (valid: trace, debug, info, warn, error)", s)
}

func (l *Logger) log(level Level, label string, style lipgloss.Style, format string, args ...any) {
	globalMu.RLock()
	minLevel, colored, out := globalLevel, globalColored, globalOut
	globalMu.RUnlock()
	if level < minLevel {
		return
	}

	ts := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)

	if colored {
		fmt.Fprintf(out, "%s %s %s %s\n",
			styleFaint.Render(ts), style.Render("["+label+"]"),
			styleFaint.Render("["+l.prefix+"]"), msg)
		return
	}
	fmt.Fprintf(out, "%s [%s] [%s] %s\n", ts, label, l.prefix, msg)
}

// Trace logs at the most verbose level.
func (l *Logger) Trace(format string, args ...any) {
	l.log(LevelTrace, "TRACE", styleTrace, format, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, "DEBUG", styleDebug, format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, "INFO", styleInfo, format, args...)
}

// Warn logs a warning.
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, "WARN", styleWarn, format, args...)
}

// Error logs an error.
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, "ERROR", styleError, format, args...)
}
