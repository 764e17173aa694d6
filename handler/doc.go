// Package handler provides the Handler interface and the write targets a
// backend sends formatted entries to.
//
// Both built-in handlers can run synchronously or asynchronously. In
// async mode entries are copied into a bounded channel and written by a
// background goroutine. Handle never retains the caller's entry, so the
// caller may recycle it as soon as Handle returns.
//
// When the async queue is full, each handler applies a per-level
// OverflowPolicy: DropNewest (default for Trace/Debug/Info/Warn),
// DropOldest, or Block with a configurable timeout (default for Error
// and above). Flush waits for everything queued before the call to be
// written.
//
// Built-in handlers:
//
//   - ConsoleHandler writes formatted entries to any io.Writer (default: stderr).
//   - FileHandler appends to a file with rotation by size, age or interval
//     and removes old backups.
//
// Handlers track dropped, blocked, failed and processed counts via Stats.
package handler
