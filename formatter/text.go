package formatter

import (
	"bytes"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"

	"github.com/philipp01105/swaplog/core"
)

// TextFormatter formats log entries as human-readable text
type TextFormatter struct {
	Config
	levels [core.PanicLevel + 1]string
}

var levelColors = [...]color.Attribute{
	core.TraceLevel: color.FgHiBlack,
	core.DebugLevel: color.FgBlue,
	core.InfoLevel:  color.FgGreen,
	core.WarnLevel:  color.FgYellow,
	core.ErrorLevel: color.FgRed,
	core.FatalLevel: color.FgHiRed,
	core.PanicLevel: color.FgHiMagenta,
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(cfg Config) *TextFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339
	}
	f := &TextFormatter{Config: cfg}
	for l := core.TraceLevel; l <= core.PanicLevel; l++ {
		tag := "[" + l.String() + "]"
		if cfg.Color {
			c := color.New(levelColors[l], color.Bold)
			// Per-instance override: the write style was already resolved
			// by the caller, so ignore color.NoColor.
			c.EnableColor()
			tag = c.Sprint(tag)
		}
		f.levels[l] = " " + tag + " "
	}
	return f
}

// Format formats an entry as text.
func (f *TextFormatter) Format(entry *core.Entry) ([]byte, error) {
	return formatBytes(f.encode, entry), nil
}

// FormatTo formats an entry and writes it to w.
func (f *TextFormatter) FormatTo(entry *core.Entry, w io.Writer) error {
	return formatTo(f.encode, entry, w)
}

// FormatEntry implements BufferFormatter.
func (f *TextFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) {
	f.encode(entry, buf)
}

func (f *TextFormatter) encode(entry *core.Entry, buf *bytes.Buffer) {
	buf.Write(entry.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))

	if entry.Level >= core.TraceLevel && int(entry.Level) < len(f.levels) {
		buf.WriteString(f.levels[entry.Level])
	} else {
		buf.WriteString(" [UNKNOWN] ")
	}

	if f.IncludeCaller && entry.Caller.Defined {
		buf.WriteByte('[')
		buf.WriteString(entry.Caller.ShortFile)
		buf.WriteByte(':')
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(entry.Caller.Line), 10))
		buf.WriteString("] ")
	}

	if !f.OmitTarget && entry.Target != "" {
		buf.WriteString(entry.Target)
		buf.WriteString(": ")
	}

	buf.WriteString(entry.Message)

	for _, field := range entry.Fields {
		buf.WriteByte(' ')
		buf.WriteString(field.Key)
		buf.WriteByte('=')
		buf.WriteString(field.StringValue())
	}

	buf.WriteByte('\n')
}
