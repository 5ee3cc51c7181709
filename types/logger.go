package types

// Logger is the structured logging interface used throughout Sextant.
//
// The method set is compatible with zap.SugaredLogger (Debugw/Infow-style
// key-value pairs flattened into args), so a sugared zap logger satisfies
// it directly via the contrib/logging/zap adapter, and any other structured
// logger can be adapted trivially.
//
// Implementations must be safe for concurrent use.
type Logger interface {
	// Debug logs a debug-level message with key-value pairs.
	Debug(msg string, args ...any)

	// Info logs an info-level message with key-value pairs.
	Info(msg string, args ...any)

	// Warn logs a warning-level message with key-value pairs.
	Warn(msg string, args ...any)

	// Error logs an error-level message with key-value pairs.
	Error(msg string, args ...any)
}
