package logger

import (
	"context"
	"log/slog"

	"github.com/philipp01105/swaplog/core"
)

// SlogHandler adapts a Sink to slog.Handler, so slog.New(NewSlogHandler(s))
// logs through the sink's filter and output.
type SlogHandler struct {
	sink   Sink
	target string
	attrs  []core.Field
	group  string
}

// NewSlogHandler creates a slog.Handler writing to s. A nil sink means
// the global registry.
func NewSlogHandler(s Sink) *SlogHandler {
	if s == nil {
		s = Registry()
	}
	return &SlogHandler{sink: s}
}

// WithTarget returns a handler whose records carry target.
func (s *SlogHandler) WithTarget(target string) *SlogHandler {
	c := *s
	c.target = target
	return &c
}

// Enabled reports whether the sink accepts records at the given level.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return s.sink.Enabled(core.Metadata{Level: slogLevelToCore(level), Target: s.target})
}

// Handle converts the record to an entry and passes it to the sink.
func (s *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	entry := core.GetEntry()
	entry.Time = record.Time
	entry.Level = slogLevelToCore(record.Level)
	entry.Target = s.target
	entry.Message = record.Message

	if len(s.attrs) > 0 {
		entry.Fields = append(entry.Fields, s.attrs...)
	}
	record.Attrs(func(a slog.Attr) bool {
		entry.Fields = appendAttr(entry.Fields, s.group, a)
		return true
	})

	s.sink.Log(entry)
	core.PutEntry(entry)
	return nil
}

// WithAttrs returns a new SlogHandler with additional attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]core.Field, len(s.attrs), len(s.attrs)+len(attrs))
	copy(newAttrs, s.attrs)
	for _, a := range attrs {
		newAttrs = appendAttr(newAttrs, s.group, a)
	}
	c := *s
	c.attrs = newAttrs
	return &c
}

// WithGroup returns a new SlogHandler that prefixes keys with name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	c := *s
	if s.group != "" {
		c.group = s.group + "." + name
	} else {
		c.group = name
	}
	return &c
}

func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarnLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	case level >= slog.LevelDebug:
		return core.DebugLevel
	default:
		return core.TraceLevel
	}
}

// appendAttr converts a to fields, flattening groups into dotted keys.
func appendAttr(dst []core.Field, group string, a slog.Attr) []core.Field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}

	key := a.Key
	if group != "" && key != "" {
		key = group + "." + key
	} else if key == "" {
		key = group
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return append(dst, core.String(key, a.Value.String()))
	case slog.KindInt64:
		return append(dst, core.Int64(key, a.Value.Int64()))
	case slog.KindUint64:
		return append(dst, core.Any(key, a.Value.Uint64()))
	case slog.KindFloat64:
		return append(dst, core.Float64(key, a.Value.Float64()))
	case slog.KindBool:
		return append(dst, core.Bool(key, a.Value.Bool()))
	case slog.KindTime:
		return append(dst, core.Time(key, a.Value.Time()))
	case slog.KindDuration:
		return append(dst, core.Duration(key, a.Value.Duration()))
	case slog.KindGroup:
		for _, ga := range a.Value.Group() {
			dst = appendAttr(dst, key, ga)
		}
		return dst
	default:
		if err, ok := a.Value.Any().(error); ok {
			f := core.Err(err)
			f.Key = key
			return append(dst, f)
		}
		return append(dst, core.Any(key, a.Value.Any()))
	}
}
