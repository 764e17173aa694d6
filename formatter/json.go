package formatter

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/philipp01105/swaplog/core"
)

// JSONFormatter writes one JSON object per line. Levels use the same
// lower-case names as filter directives.
type JSONFormatter struct {
	Config
}

// NewJSONFormatter creates a JSON formatter. Color is ignored.
func NewJSONFormatter(cfg Config) *JSONFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339Nano
	}
	cfg.Color = false
	return &JSONFormatter{Config: cfg}
}

// Format formats an entry as JSON.
func (f *JSONFormatter) Format(entry *core.Entry) ([]byte, error) {
	return formatBytes(f.encode, entry), nil
}

// FormatTo formats an entry as JSON and writes it to w.
func (f *JSONFormatter) FormatTo(entry *core.Entry, w io.Writer) error {
	return formatTo(f.encode, entry, w)
}

// FormatEntry implements BufferFormatter.
func (f *JSONFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) {
	f.encode(entry, buf)
}

func (f *JSONFormatter) encode(entry *core.Entry, buf *bytes.Buffer) {
	buf.WriteString(`{"time":"`)
	buf.Write(entry.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))
	buf.WriteString(`","level":"`)
	buf.WriteString(core.FilterFor(entry.Level).String())
	buf.WriteByte('"')

	if !f.OmitTarget && entry.Target != "" {
		writeJSONKey(buf, "target")
		writeJSONString(buf, entry.Target)
	}

	writeJSONKey(buf, "message")
	writeJSONString(buf, entry.Message)

	if f.IncludeCaller && entry.Caller.Defined {
		writeJSONKey(buf, "caller")
		buf.WriteString(`{"file":`)
		writeJSONString(buf, entry.Caller.ShortFile)
		buf.WriteString(`,"line":`)
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(entry.Caller.Line), 10))
		if entry.Caller.Function != "" {
			buf.WriteString(`,"function":`)
			writeJSONString(buf, entry.Caller.Function)
		}
		buf.WriteByte('}')
	}

	for _, field := range entry.Fields {
		writeJSONKey(buf, field.Key)
		writeJSONValue(buf, field)
	}

	buf.WriteString("}\n")
}

func writeJSONKey(buf *bytes.Buffer, key string) {
	buf.WriteByte(',')
	writeJSONString(buf, key)
	buf.WriteByte(':')
}

// writeJSONString writes s quoted and escaped. Invalid UTF-8 becomes
// U+FFFD; U+2028 and U+2029 are escaped for JavaScript consumers.
func writeJSONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if c >= 0x20 && c != '"' && c != '\\' {
				i++
				continue
			}
			buf.WriteString(s[start:i])
			switch c {
			case '"', '\\':
				buf.WriteByte('\\')
				buf.WriteByte(c)
			case '\n':
				buf.WriteString(`\n`)
			case '\r':
				buf.WriteString(`\r`)
			case '\t':
				buf.WriteString(`\t`)
			default:
				buf.WriteString(`\u00`)
				buf.WriteByte(hexDigits[c>>4])
				buf.WriteByte(hexDigits[c&0xf])
			}
			i++
			start = i
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			buf.WriteString(s[start:i])
			buf.WriteString(`\ufffd`)
		case r == '\u2028' || r == '\u2029':
			buf.WriteString(s[start:i])
			buf.WriteString(`\u202`)
			buf.WriteByte(hexDigits[r&0xf])
		default:
			i += size
			continue
		}
		i += size
		start = i
	}
	buf.WriteString(s[start:])
	buf.WriteByte('"')
}

const hexDigits = "0123456789abcdef"

func writeJSONValue(buf *bytes.Buffer, field core.Field) {
	switch field.Type {
	case core.StringType, core.ErrorType:
		writeJSONString(buf, field.Str)
	case core.IntType, core.Int64Type, core.DurationType:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), field.Int64, 10))
	case core.Float64Type:
		buf.Write(strconv.AppendFloat(buf.AvailableBuffer(), field.Float64, 'f', -1, 64))
	case core.BoolType:
		buf.Write(strconv.AppendBool(buf.AvailableBuffer(), field.Int64 == 1))
	case core.TimeType:
		buf.WriteByte('"')
		buf.Write(time.Unix(0, field.Int64).UTC().AppendFormat(buf.AvailableBuffer(), time.RFC3339Nano))
		buf.WriteByte('"')
	case core.AnyType:
		// Structured values (slices and maps from the zap and slog
		// bridges) keep their shape; anything json rejects is quoted.
		if b, err := json.Marshal(field.Any); err == nil {
			buf.Write(b)
			return
		}
		writeJSONString(buf, field.StringValue())
	default:
		writeJSONString(buf, field.StringValue())
	}
}
