package logger

import (
	"github.com/philipp01105/swaplog/core"
)

// Level Re-export type and constants for convenience
type Level = core.Level

// LevelFilter re-exports core.LevelFilter
type LevelFilter = core.LevelFilter

const (
	TraceLevel = core.TraceLevel
	DebugLevel = core.DebugLevel
	InfoLevel  = core.InfoLevel
	WarnLevel  = core.WarnLevel
	ErrorLevel = core.ErrorLevel
	FatalLevel = core.FatalLevel
	PanicLevel = core.PanicLevel
)

// ParseLevel converts a string to a Level, defaulting to InfoLevel
func ParseLevel(s string) Level {
	f, err := core.ParseLevelFilter(s)
	if err != nil || f == core.OffFilter {
		return InfoLevel
	}
	return Level(f)
}
