package core

import (
	"fmt"
	"strings"
)

// Level represents the severity level of a log entry
type Level int8

const (
	// TraceLevel for very verbose diagnostic output
	TraceLevel Level = iota
	// DebugLevel for detailed debugging information
	DebugLevel
	// InfoLevel for general informational messages
	InfoLevel
	// WarnLevel for warning messages
	WarnLevel
	// ErrorLevel for error messages
	ErrorLevel
	// FatalLevel for fatal messages
	FatalLevel
	// PanicLevel for panic messages
	PanicLevel
)

var levelNames = [...]string{
	TraceLevel: "TRACE",
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
	FatalLevel: "FATAL",
	PanicLevel: "PANIC",
}

// String returns the string representation of the level
func (l Level) String() string {
	if l < TraceLevel || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// LevelFilter is the minimum level a sink lets through. OffFilter lets
// nothing through; every other value is the Level it was built from.
type LevelFilter int8

const (
	TraceFilter = LevelFilter(TraceLevel)
	DebugFilter = LevelFilter(DebugLevel)
	InfoFilter  = LevelFilter(InfoLevel)
	WarnFilter  = LevelFilter(WarnLevel)
	ErrorFilter = LevelFilter(ErrorLevel)
	FatalFilter = LevelFilter(FatalLevel)
	PanicFilter = LevelFilter(PanicLevel)
	// OffFilter sorts above every level so Allows is a single comparison.
	OffFilter = LevelFilter(PanicLevel + 1)
)

// FilterFor returns the filter that lets l and everything more severe through.
func FilterFor(l Level) LevelFilter {
	return LevelFilter(l)
}

// Allows reports whether an entry at level l passes the filter.
func (f LevelFilter) Allows(l Level) bool {
	return int8(l) >= int8(f)
}

// MoreVerbose returns whichever of f and other lets more levels through.
func (f LevelFilter) MoreVerbose(other LevelFilter) LevelFilter {
	if other < f {
		return other
	}
	return f
}

// String returns the lower-case directive name of the filter.
func (f LevelFilter) String() string {
	if f >= OffFilter {
		return "off"
	}
	return strings.ToLower(Level(f).String())
}

// ParseLevelFilter converts a directive word such as "info" or "off" to a
// LevelFilter. Matching is case-insensitive; "warning" is accepted for warn.
func ParseLevelFilter(s string) (LevelFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return OffFilter, nil
	case "trace":
		return TraceFilter, nil
	case "debug":
		return DebugFilter, nil
	case "info":
		return InfoFilter, nil
	case "warn", "warning":
		return WarnFilter, nil
	case "error":
		return ErrorFilter, nil
	case "fatal":
		return FatalFilter, nil
	case "panic":
		return PanicFilter, nil
	default:
		return OffFilter, fmt.Errorf("unknown level %q", s)
	}
}
