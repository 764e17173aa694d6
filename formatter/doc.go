// Package formatter defines how log entries are serialized into bytes.
//
// It exposes three interfaces: Formatter, which returns a []byte,
// WriterFormatter, which writes directly to an io.Writer, and
// BufferFormatter, which appends into a caller-owned buffer. Handlers
// check for the optional interfaces at construction time.
//
// TextFormatter renders "time [LEVEL] target: message k=v". When
// Config.Color is set the level tag is wrapped in ANSI color codes;
// the colored tags are rendered once at construction so the hot path is
// still a single WriteString. The color decision is made by whoever
// builds the formatter (see envlog's write style) and is never read from
// global state afterwards.
//
// Buffers larger than 64 KiB are not returned to the pool to prevent
// a single large log line from permanently inflating memory usage.
package formatter
