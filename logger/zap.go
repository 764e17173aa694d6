package logger

import (
	"math"
	"path/filepath"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/swaplog/core"
)

// zapCore implements zapcore.Core on top of a Sink. Zap's own level
// checks are replaced by the sink's filter.
type zapCore struct {
	sink   Sink
	fields []core.Field
}

// NewZapCore returns a zapcore.Core writing to s, for use with
// zap.New(NewZapCore(s)). A nil sink means the global registry. The
// zap logger name becomes the record target.
func NewZapCore(s Sink) zapcore.Core {
	if s == nil {
		s = Registry()
	}
	return &zapCore{sink: s}
}

// Enabled reports whether any target could accept lvl. Sinks that do not
// expose their most verbose level are asked per record in Check.
func (c *zapCore) Enabled(lvl zapcore.Level) bool {
	if f, ok := c.sink.(interface{ Filter() core.LevelFilter }); ok {
		return f.Filter().Allows(zapLevelToCore(lvl))
	}
	return true
}

func (c *zapCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]core.Field, len(c.fields), len(c.fields)+len(fields))
	copy(merged, c.fields)
	return &zapCore{sink: c.sink, fields: appendZapFields(merged, fields)}
}

func (c *zapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	md := core.Metadata{Level: zapLevelToCore(ent.Level), Target: ent.LoggerName}
	if c.sink.Enabled(md) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *zapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	entry := core.GetEntry()
	entry.Time = ent.Time
	entry.Level = zapLevelToCore(ent.Level)
	entry.Target = ent.LoggerName
	entry.Message = ent.Message
	if ent.Caller.Defined {
		entry.Caller = core.CallerInfo{
			File:      ent.Caller.File,
			ShortFile: filepath.Base(ent.Caller.File),
			Line:      ent.Caller.Line,
			Function:  ent.Caller.Function,
			Defined:   true,
		}
	}
	entry.Fields = append(entry.Fields, c.fields...)
	entry.Fields = appendZapFields(entry.Fields, fields)

	c.sink.Log(entry)
	core.PutEntry(entry)
	return nil
}

func (c *zapCore) Sync() error {
	c.sink.Flush()
	return nil
}

func zapLevelToCore(lvl zapcore.Level) core.Level {
	switch {
	case lvl >= zapcore.FatalLevel:
		return core.FatalLevel
	case lvl >= zapcore.PanicLevel:
		return core.PanicLevel
	case lvl >= zapcore.ErrorLevel: // includes DPanic
		return core.ErrorLevel
	case lvl >= zapcore.WarnLevel:
		return core.WarnLevel
	case lvl >= zapcore.InfoLevel:
		return core.InfoLevel
	case lvl >= zapcore.DebugLevel:
		return core.DebugLevel
	default:
		return core.TraceLevel
	}
}

// appendZapFields converts zap fields. Scalar types map directly; the rest
// go through a map encoder and are kept as Any values.
func appendZapFields(dst []core.Field, fields []zapcore.Field) []core.Field {
	var enc *zapcore.MapObjectEncoder
	for _, f := range fields {
		switch f.Type {
		case zapcore.SkipType, zapcore.NamespaceType:
		case zapcore.StringType:
			dst = append(dst, core.String(f.Key, f.String))
		case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
			dst = append(dst, core.Int64(f.Key, f.Integer))
		case zapcore.BoolType:
			dst = append(dst, core.Bool(f.Key, f.Integer == 1))
		case zapcore.Float64Type:
			dst = append(dst, core.Float64(f.Key, math.Float64frombits(uint64(f.Integer))))
		case zapcore.DurationType:
			dst = append(dst, core.Duration(f.Key, time.Duration(f.Integer)))
		case zapcore.ErrorType:
			if err, ok := f.Interface.(error); ok {
				cf := core.Err(err)
				cf.Key = f.Key
				dst = append(dst, cf)
			}
		default:
			if enc == nil {
				enc = zapcore.NewMapObjectEncoder()
			}
			f.AddTo(enc)
			if v, ok := enc.Fields[f.Key]; ok {
				dst = append(dst, core.Any(f.Key, v))
				delete(enc.Fields, f.Key)
			}
		}
	}
	return dst
}
