package handler

import (
	"errors"

	"github.com/philipp01105/swaplog/core"
)

// ErrClosed is returned by Handle and Flush after Close.
var ErrClosed = errors.New("handler: closed")

// Handler defines the interface for log handlers
type Handler interface {
	// Handle processes a log entry. The caller keeps ownership of entry
	// and may recycle it as soon as Handle returns.
	Handle(entry *core.Entry) error

	// Flush blocks until every entry accepted so far has been written.
	Flush() error

	// Close flushes what it can within the drain timeout and releases
	// resources. Close does not close writers the handler did not open.
	Close() error
}
