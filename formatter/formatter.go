package formatter

import (
	"bytes"
	"io"
	"sync"

	"github.com/philipp01105/swaplog/core"
)

// Formatter turns an entry into one line of output, newline included.
type Formatter interface {
	Format(entry *core.Entry) ([]byte, error)
}

// WriterFormatter writes the line straight to w.
type WriterFormatter interface {
	FormatTo(entry *core.Entry, w io.Writer) error
}

// BufferFormatter appends the line to a caller-owned buffer. Handlers
// that hold a lock around their writer use it to skip the pool.
type BufferFormatter interface {
	FormatEntry(entry *core.Entry, buf *bytes.Buffer)
}

// Config is shared by the text and JSON formatters.
type Config struct {
	// IncludeCaller adds file:line (and the function for JSON)
	IncludeCaller bool
	// TimestampFormat is a time layout (default: RFC3339 for text, RFC3339Nano for JSON)
	TimestampFormat string
	// Color wraps the level tag in ANSI escape codes (text only)
	Color bool
	// OmitTarget drops the target from the output
	OmitTarget bool
}

// encodeFunc appends one formatted entry to buf.
type encodeFunc func(entry *core.Entry, buf *bytes.Buffer)

// formatBytes runs enc on a pooled buffer and returns a copy of the result.
func formatBytes(enc encodeFunc, entry *core.Entry) []byte {
	buf := getBuffer()
	enc(entry, buf)
	out := append([]byte(nil), buf.Bytes()...)
	putBuffer(buf)
	return out
}

// formatTo runs enc on a pooled buffer and writes the result to w.
func formatTo(enc encodeFunc, entry *core.Entry, w io.Writer) error {
	buf := getBuffer()
	enc(entry, buf)
	_, err := w.Write(buf.Bytes())
	putBuffer(buf)
	return err
}

var bufferPool = sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// maxPooledBuffer caps what goes back to the pool so one huge line does
// not pin memory.
const maxPooledBuffer = 64 << 10

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		return
	}
	bufferPool.Put(buf)
}
