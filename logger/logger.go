package logger

import (
	"fmt"
	"os"

	"github.com/philipp01105/swaplog/core"
)

// osExit is a variable to allow overriding os.Exit in tests
var osExit = os.Exit

// Logger is a structured front end for a Sink (immutable)
type Logger struct {
	sink          Sink
	level         core.LevelFilter
	target        string
	fields        []core.Field
	includeCaller bool
	callerSkip    int
}

// Builder provides a fluent API for building Logger instances
type Builder struct {
	sink          Sink
	level         core.LevelFilter
	target        string
	fields        []core.Field
	includeCaller bool
	callerSkip    int
}

// NewBuilder creates a new logger builder. Without WithSink the logger
// dispatches through the global registry.
func NewBuilder() *Builder {
	return &Builder{
		level:      core.TraceFilter, // the sink's own filter decides
		callerSkip: 3,                // Default skip for getCaller
	}
}

// WithSink sets the sink
func (b *Builder) WithSink(s Sink) *Builder {
	b.sink = s
	return b
}

// WithLevel sets an extra level gate in front of the sink
func (b *Builder) WithLevel(level core.Level) *Builder {
	b.level = core.FilterFor(level)
	return b
}

// WithTarget sets the target records are tagged with
func (b *Builder) WithTarget(target string) *Builder {
	b.target = target
	return b
}

// WithFields adds default fields to all log entries
func (b *Builder) WithFields(fields ...core.Field) *Builder {
	b.fields = append(b.fields, fields...)
	return b
}

// WithCaller enables caller information
func (b *Builder) WithCaller(enabled bool) *Builder {
	b.includeCaller = enabled
	return b
}

// Build creates the Logger instance
func (b *Builder) Build() *Logger {
	sink := b.sink
	if sink == nil {
		sink = Registry()
	}
	fields := make([]core.Field, len(b.fields))
	copy(fields, b.fields)
	return &Logger{
		sink:          sink,
		level:         b.level,
		target:        b.target,
		fields:        fields,
		includeCaller: b.includeCaller,
		callerSkip:    b.callerSkip,
	}
}

// With creates a new Logger with additional fields (immutable operation)
func (l *Logger) With(fields ...core.Field) *Logger {
	newFields := make([]core.Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	c := *l
	c.fields = newFields
	return &c
}

// Named returns a copy of the logger with a different target
func (l *Logger) Named(target string) *Logger {
	c := *l
	c.target = target
	return &c
}

// Enabled reports whether a record at level would reach the sink's output
func (l *Logger) Enabled(level core.Level) bool {
	return l.level.Allows(level) && l.sink.Enabled(core.Metadata{Level: level, Target: l.target})
}

// Log logs a message at the specified level
func (l *Logger) Log(level core.Level, msg string, fields ...core.Field) {
	l.log(level, msg, false, nil, fields)
}

// log builds a pooled entry and hands it to the sink. When format is set
// msg is a format string, expanded only once the level passes.
// Callers must sit exactly one frame above log for callerSkip to hold.
func (l *Logger) log(level core.Level, msg string, format bool, args []any, fields []core.Field) {
	if !l.Enabled(level) {
		return
	}
	if format {
		msg = fmt.Sprintf(msg, args...)
	}

	entry := core.GetEntry()
	entry.Level = level
	entry.Target = l.target
	entry.Message = msg
	entry.Fields = append(append(entry.Fields, l.fields...), fields...)
	if l.includeCaller {
		entry.Caller = core.GetCaller(l.callerSkip)
	}

	l.sink.Log(entry)
	core.PutEntry(entry)
}

func (l *Logger) Trace(msg string, fields ...core.Field) { l.log(core.TraceLevel, msg, false, nil, fields) }
func (l *Logger) Debug(msg string, fields ...core.Field) { l.log(core.DebugLevel, msg, false, nil, fields) }
func (l *Logger) Info(msg string, fields ...core.Field) { l.log(core.InfoLevel, msg, false, nil, fields) }
func (l *Logger) Warn(msg string, fields ...core.Field) { l.log(core.WarnLevel, msg, false, nil, fields) }
func (l *Logger) Error(msg string, fields ...core.Field) { l.log(core.ErrorLevel, msg, false, nil, fields) }

// Fatal logs at fatal level, flushes the sink and exits with status 1.
func (l *Logger) Fatal(msg string, fields ...core.Field) {
	l.log(core.FatalLevel, msg, false, nil, fields)
	l.sink.Flush()
	osExit(1)
}

// Panic logs at panic level, flushes the sink and panics with msg.
func (l *Logger) Panic(msg string, fields ...core.Field) {
	l.log(core.PanicLevel, msg, false, nil, fields)
	l.sink.Flush()
	panic(msg)
}

// The f variants format lazily: args are not touched when the level is off.

func (l *Logger) Tracef(format string, args ...any) { l.log(core.TraceLevel, format, true, args, nil) }
func (l *Logger) Debugf(format string, args ...any) { l.log(core.DebugLevel, format, true, args, nil) }
func (l *Logger) Infof(format string, args ...any) { l.log(core.InfoLevel, format, true, args, nil) }
func (l *Logger) Warnf(format string, args ...any) { l.log(core.WarnLevel, format, true, args, nil) }
func (l *Logger) Errorf(format string, args ...any) { l.log(core.ErrorLevel, format, true, args, nil) }

func (l *Logger) Fatalf(format string, args ...any) {
	l.log(core.FatalLevel, format, true, args, nil)
	l.sink.Flush()
	osExit(1)
}

func (l *Logger) Panicf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.log(core.PanicLevel, msg, false, nil, nil)
	l.sink.Flush()
	panic(msg)
}

// Flush flushes the logger's sink
func (l *Logger) Flush() {
	l.sink.Flush()
}
