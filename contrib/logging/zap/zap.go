// Package zap adapts a zap.SugaredLogger to the types.Logger interface.
//
// The types.Logger method set already matches the sugared logger's
// key-value style, so the adapter is a thin rename from Debug/Info/Warn/
// Error to Debugw/Infow/Warnw/Errorw:
//
//	zl, _ := zap.NewProduction()
//	cluster, _ := sextant.NewCluster(factory,
//	    sextant.WithLogger(zaplog.New(zl.Sugar())),
//	)
package zap

import (
	"go.uber.org/zap"

	"github.com/arloliu/sextant/types"
)

// Logger wraps a zap.SugaredLogger as a types.Logger.
type Logger struct {
	sugar *zap.SugaredLogger
}

// Compile-time assertion that Logger implements types.Logger.
var _ types.Logger = (*Logger)(nil)

// New wraps a sugared zap logger.
//
// A nil logger yields an adapter over zap.NewNop(), so callers can pass
// through an optional logger without nil checks.
//
// Parameters:
//   - sugar: The sugared zap logger to wrap
//
// Returns:
//   - *Logger: The adapter
func New(sugar *zap.SugaredLogger) *Logger {
	if sugar == nil {
		sugar = zap.NewNop().Sugar()
	}

	return &Logger{sugar: sugar}
}

// Debug logs a debug-level message with key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

// Info logs an info-level message with key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

// Warn logs a warning-level message with key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

// Error logs an error-level message with key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}
