package envlog

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/philipp01105/swaplog/core"
	"github.com/philipp01105/swaplog/formatter"
	"github.com/philipp01105/swaplog/handler"
)

// Env names the environment variables a Builder reads.
type Env struct {
	// FilterVar holds filter directives (default: SWAPLOG_LOG)
	FilterVar string
	// StyleVar holds the write style (default: SWAPLOG_LOG_STYLE)
	StyleVar string
	// DefaultFilter is used when FilterVar is unset or empty
	DefaultFilter string
}

// DefaultEnv returns the standard variable names with no default filter,
// which leaves DefaultFilter (error) in effect.
func DefaultEnv() Env {
	return Env{
		FilterVar: "SWAPLOG_LOG",
		StyleVar:  "SWAPLOG_LOG_STYLE",
	}
}

// Builder collects backend configuration. Build may be called more than
// once; each call returns an independent Logger.
type Builder struct {
	directives []Directive
	style      WriteStyle
	writer     io.Writer
	filename   string
	format     string
	async      bool
	caller     bool
	timeFormat string
	diag       io.Writer
	stats      *handler.Stats
}

// NewBuilder returns a builder writing text to stderr with StyleAuto.
func NewBuilder() *Builder {
	return &Builder{
		style: StyleAuto,
		diag:  os.Stderr,
	}
}

// FromEnv applies the filter and style variables named by env.
func (b *Builder) FromEnv(env Env) *Builder {
	spec := env.DefaultFilter
	if env.FilterVar != "" {
		if v, ok := os.LookupEnv(env.FilterVar); ok && strings.TrimSpace(v) != "" {
			spec = v
		}
	}
	if spec != "" {
		b.Parse(spec)
	}
	if env.StyleVar != "" {
		if v, ok := os.LookupEnv(env.StyleVar); ok {
			b.style = ParseWriteStyle(v)
		}
	}
	return b
}

// Parse adds directives from spec. Malformed directives are reported on
// the diagnostic writer and skipped.
func (b *Builder) Parse(spec string) *Builder {
	dirs, errs := ParseDirectives(spec)
	for _, err := range errs {
		b.warn("ignoring " + err.Error())
	}
	b.directives = append(b.directives, dirs...)
	return b
}

// FilterLevel adds a directive for target; an empty target sets the default.
func (b *Builder) FilterLevel(target string, level core.LevelFilter) *Builder {
	b.directives = append(b.directives, Directive{Target: target, Level: level})
	return b
}

// WriteStyle sets the coloring policy, overriding the environment.
func (b *Builder) WriteStyle(s WriteStyle) *Builder {
	b.style = s
	return b
}

// Target sets the writer for console output (default: os.Stderr).
func (b *Builder) Target(w io.Writer) *Builder {
	b.writer = w
	b.filename = ""
	return b
}

// File sends output to a file instead of the console. Files are never
// colored regardless of the write style.
func (b *Builder) File(path string) *Builder {
	b.filename = path
	b.writer = nil
	return b
}

// Format selects "text" (default) or "json".
func (b *Builder) Format(name string) *Builder {
	b.format = strings.ToLower(name)
	return b
}

// Async makes the handler write on a background goroutine.
func (b *Builder) Async(enabled bool) *Builder {
	b.async = enabled
	return b
}

// Caller adds file:line to text output.
func (b *Builder) Caller(enabled bool) *Builder {
	b.caller = enabled
	return b
}

// TimestampFormat overrides the time layout (default: RFC3339).
func (b *Builder) TimestampFormat(layout string) *Builder {
	b.timeFormat = layout
	return b
}

// Stats makes the handler count into st. Backends built one after another
// for the same shared logger pass the same st so the counts add up.
func (b *Builder) Stats(st *handler.Stats) *Builder {
	b.stats = st
	return b
}

// Diagnostics sets where configuration warnings go (default: os.Stderr).
func (b *Builder) Diagnostics(w io.Writer) *Builder {
	b.diag = w
	return b
}

// Build creates the Logger. It never fails: a file that cannot be opened
// is reported as a diagnostic and the logger writes to stderr instead.
func (b *Builder) Build() *Logger {
	dirs := make([]Directive, len(b.directives))
	copy(dirs, b.directives)

	l := &Logger{
		filter: newFilter(dirs),
		style:  b.style,
	}

	fcfg := formatter.Config{
		IncludeCaller:   b.caller,
		TimestampFormat: b.timeFormat,
	}

	if b.filename != "" {
		fh, err := handler.NewFileHandler(handler.FileConfig{
			Filename:  b.filename,
			Formatter: b.newFormatter(fcfg),
			Async:     b.async,
			Stats:     b.stats,
		})
		if err == nil {
			l.handler = fh
			return l
		}
		b.warn("falling back to stderr: " + err.Error())
	}

	w := b.writer
	if w == nil {
		w = os.Stderr
	}
	l.color = useColor(b.style, w)
	fcfg.Color = l.color
	l.handler = handler.NewConsoleHandler(handler.ConsoleConfig{
		Writer:    w,
		Formatter: b.newFormatter(fcfg),
		Async:     b.async,
		Stats:     b.stats,
	})
	return l
}

func (b *Builder) newFormatter(cfg formatter.Config) formatter.Formatter {
	if b.format == "json" {
		return formatter.NewJSONFormatter(cfg)
	}
	return formatter.NewTextFormatter(cfg)
}

// warn writes a configuration diagnostic in the regular text format.
func (b *Builder) warn(msg string) {
	if b.diag == nil {
		return
	}
	_ = formatter.NewTextFormatter(formatter.Config{}).FormatTo(&core.Entry{
		Time:    time.Now(),
		Level:   core.WarnLevel,
		Target:  "swaplog",
		Message: msg,
	}, b.diag)
}
