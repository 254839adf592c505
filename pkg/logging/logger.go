// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	var output io.Writer = cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: cfg.Output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()

	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Per-request flow (attempt numbers, dedup attaches)
//   - Token cache hits and store promotions
//   - Page fetch counts and batch chunk sizes
//
// Info: Normal operation events
//   - Token refreshed or exchanged
//   - Stream or batch run complete
//   - Command startup/shutdown
//
// Warn: Warning conditions that don't prevent operation
//   - Retry attempts (429 waits, network backoff)
//   - Token store read/write failures (falling through to the network)
//   - Refresh callbacks panicking
//
// Error: Error conditions requiring attention
//   - Requests failed after exhausting a retry budget
//   - Grant exchanges rejected by the accounts service
//   - Configuration errors
//
// Context Fields:
//   - endpoint: API path
//   - status_code: HTTP status code
//   - duration: Request duration
//   - error_class: Error classification (client, server, auth, rate_limit, network)
//   - grant_type: OAuth grant used for a token request
//   - retry_after: Server-mandated wait before the next attempt
//   - attempt: 1-based attempt number for a logical request
