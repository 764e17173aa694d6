package logger

import (
	"sync/atomic"

	"github.com/philipp01105/swaplog/core"
)

var defaultLogger atomic.Pointer[Logger]

func init() {
	// Until a sink is registered and SetMaxLevel opens the gate, every
	// package-level call below is dropped at the level check.
	b := NewBuilder()
	b.callerSkip = 4 // the package-level wrapper adds a frame
	defaultLogger.Store(b.Build())
}

// Default returns the logger behind the package-level functions. It
// writes to Registry().
func Default() *Logger { return defaultLogger.Load() }

// SetDefault replaces the logger behind the package-level functions. A nil
// logger is ignored.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger.Store(l)
	}
}

// Package-level shorthands for Default().

func Trace(msg string, fields ...core.Field) { Default().Trace(msg, fields...) }
func Debug(msg string, fields ...core.Field) { Default().Debug(msg, fields...) }
func Info(msg string, fields ...core.Field) { Default().Info(msg, fields...) }
func Warn(msg string, fields ...core.Field) { Default().Warn(msg, fields...) }
func Error(msg string, fields ...core.Field) { Default().Error(msg, fields...) }

// Fatal logs at fatal level, flushes and exits with status 1.
func Fatal(msg string, fields ...core.Field) { Default().Fatal(msg, fields...) }

// Panic logs at panic level, flushes and panics with msg.
func Panic(msg string, fields ...core.Field) { Default().Panic(msg, fields...) }

func Tracef(format string, args ...any) { Default().Tracef(format, args...) }
func Debugf(format string, args ...any) { Default().Debugf(format, args...) }
func Infof(format string, args ...any) { Default().Infof(format, args...) }
func Warnf(format string, args ...any) { Default().Warnf(format, args...) }
func Errorf(format string, args ...any) { Default().Errorf(format, args...) }
func Fatalf(format string, args ...any) { Default().Fatalf(format, args...) }
func Panicf(format string, args ...any) { Default().Panicf(format, args...) }

// With returns Default() with fields attached.
func With(fields ...core.Field) *Logger { return Default().With(fields...) }

// Named returns Default() tagged with target.
func Named(target string) *Logger { return Default().Named(target) }
