// Package types defines common type-safe enums used across the codebase.
package types

// LogLevel represents a logging verbosity level as configured by the user.
type LogLevel string

const (
	// LogLevelTrace is the most verbose level.
	LogLevelTrace LogLevel = "trace"
	// LogLevelDebug enables debugging output.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn shows warnings and errors only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError shows errors only.
	LogLevelError LogLevel = "error"
)

// Valid returns true if the LogLevel is a known valid value.
func (l LogLevel) Valid() bool {
	switch l {
	case LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	}
	return false
}

// OrDefault returns the level itself when set, LogLevelInfo otherwise.
func (l LogLevel) OrDefault() LogLevel {
	if l == "" {
		return LogLevelInfo
	}
	return l
}
