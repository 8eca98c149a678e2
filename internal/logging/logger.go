// Package logging provides the debug log used across the patch pipeline.
// Logging is opt-in: without a configured log file every call is a no-op, so
// the diff and apply paths never pay for formatting.
package logging

// Logger is the logging interface handed to the patch pipeline.
type Logger interface {
	// Log formats and writes one log message.
	Log(format string, args ...interface{})
	// IsEnabled reports whether messages are actually recorded. Callers can
	// skip expensive argument construction when it returns false.
	IsEnabled() bool
	// Close releases any resources held by the logger.
	Close() error
}

// New returns a file-backed logger when debug logging is requested and a log
// file is set, and a no-op logger otherwise.
func New(logFile string, debug bool) (Logger, error) {
	if !debug || logFile == "" {
		return NewNilLogger(), nil
	}
	return NewFileLogger(logFile)
}
