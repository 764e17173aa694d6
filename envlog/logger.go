package envlog

import (
	"github.com/philipp01105/swaplog/core"
	"github.com/philipp01105/swaplog/handler"
)

// Logger is an immutable backend: a filter, a resolved write style and
// the handler records are written to. All methods are safe for
// concurrent use.
type Logger struct {
	filter  Filter
	style   WriteStyle
	color   bool
	handler handler.Handler
}

// Build returns a backend configured from the default environment with
// the write style derived from choice.
func Build(choice ColorChoice) *Logger {
	return NewBuilder().
		FromEnv(DefaultEnv()).
		WriteStyle(WriteStyleFor(choice)).
		Build()
}

// Enabled reports whether a record with this metadata would be written.
func (l *Logger) Enabled(md core.Metadata) bool {
	return l.filter.Enabled(md)
}

// Log writes the entry if the filter lets it through. Handler errors are
// counted in the handler's stats, never returned.
func (l *Logger) Log(entry *core.Entry) {
	if !l.filter.Enabled(entry.Metadata()) {
		return
	}
	_ = l.handler.Handle(entry)
}

// Flush waits for queued output to be written.
func (l *Logger) Flush() {
	_ = l.handler.Flush()
}

// Filter is the most verbose level this backend lets through.
func (l *Logger) Filter() core.LevelFilter {
	return l.filter.MaxLevel()
}

// Directives returns the effective filter.
func (l *Logger) Directives() Filter {
	return l.filter
}

// WriteStyle returns the style the backend was built with.
func (l *Logger) WriteStyle() WriteStyle {
	return l.style
}

// Colored reports whether StyleAuto resolved to color (always true for
// StyleAlways on the console, false for files).
func (l *Logger) Colored() bool {
	return l.color
}

// Handler exposes the underlying handler, mainly for stats.
func (l *Logger) Handler() handler.Handler {
	return l.handler
}

// Close releases the handler. Records logged after Close are dropped.
func (l *Logger) Close() error {
	return l.handler.Close()
}
