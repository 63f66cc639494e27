// Package applog builds the leveled loggers shared by every package.
package applog

import (
	"fmt"
	"io"
	"strings"

	"github.com/pion/logging"
)

// ParseLevel maps a LOG_LEVEL value to a pion log level.
func ParseLevel(value string) (logging.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "info":
		return logging.LogLevelInfo, nil
	case "off", "disabled":
		return logging.LogLevelDisabled, nil
	case "error":
		return logging.LogLevelError, nil
	case "warn", "warning":
		return logging.LogLevelWarn, nil
	case "debug":
		return logging.LogLevelDebug, nil
	case "trace":
		return logging.LogLevelTrace, nil
	default:
		return logging.LogLevelDisabled, fmt.Errorf("unknown log level %q", value)
	}
}

// NewFactory returns a logger factory writing to w at the given level.
// A nil writer keeps pion's default (stdout).
func NewFactory(level logging.LogLevel, w io.Writer) *logging.DefaultLoggerFactory {
	f := logging.NewDefaultLoggerFactory()
	f.DefaultLogLevel = level
	if w != nil {
		f.Writer = w
	}
	return f
}

// Discard returns a logger that drops everything. Used as a default when
// callers pass no logger.
func Discard() logging.LeveledLogger {
	f := logging.NewDefaultLoggerFactory()
	f.DefaultLogLevel = logging.LogLevelDisabled
	f.Writer = io.Discard
	return f.NewLogger("discard")
}
