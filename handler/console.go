package handler

import (
	"bytes"
	"io"
	"os"
	"sync"
	"time"

	"github.com/philipp01105/swaplog/core"
	"github.com/philipp01105/swaplog/formatter"
)

// ConsoleHandler writes log entries to stdout/stderr or any io.Writer
type ConsoleHandler struct {
	writer          io.Writer
	formatter       formatter.Formatter
	bufferFormatter formatter.BufferFormatter
	mu              sync.Mutex // serializes writes and guards buf
	buf             bytes.Buffer
	queue           *asyncQueue
	stats           *Stats
	closeOnce       sync.Once
	closed          chan struct{}
}

// ConsoleConfig holds configuration for console handler
type ConsoleConfig struct {
	// Writer to write to (default: os.Stderr)
	Writer io.Writer
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
	// Async enables asynchronous logging
	Async bool
	// BufferSize is the size of the async queue (default: 1000)
	BufferSize int
	// OverflowPolicy defines per-level overflow behavior (default: uses DefaultLevelPolicy)
	OverflowPolicy map[core.Level]OverflowPolicy
	// BlockTimeout is the timeout for blocking overflow policy (default: 100ms)
	BlockTimeout time.Duration
	// DrainTimeout is the timeout for draining queue on Close (default: 5s)
	DrainTimeout time.Duration
	// Stats receives the handler's counters (default: a fresh Stats).
	// Handlers built in turn for one shared logger can pass the same one.
	Stats *Stats
}

func withQueueDefaults(qc queueConfig) queueConfig {
	if qc.bufferSize <= 0 {
		qc.bufferSize = 1000
	}
	if qc.overflowPolicy == nil {
		qc.overflowPolicy = DefaultLevelPolicy()
	}
	if qc.blockTimeout == 0 {
		qc.blockTimeout = 100 * time.Millisecond
	}
	if qc.drainTimeout == 0 {
		qc.drainTimeout = 5 * time.Second
	}
	return qc
}

// NewConsoleHandler creates a new console handler
func NewConsoleHandler(cfg ConsoleConfig) *ConsoleHandler {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}

	h := &ConsoleHandler{
		writer:    cfg.Writer,
		formatter: cfg.Formatter,
		stats:     cfg.Stats,
		closed:    make(chan struct{}),
	}
	if h.stats == nil {
		h.stats = NewStats()
	}
	h.bufferFormatter, _ = cfg.Formatter.(formatter.BufferFormatter)

	if cfg.Async {
		h.queue = newAsyncQueue(withQueueDefaults(queueConfig{
			bufferSize:     cfg.BufferSize,
			overflowPolicy: cfg.OverflowPolicy,
			blockTimeout:   cfg.BlockTimeout,
			drainTimeout:   cfg.DrainTimeout,
		}), h.stats, h.write)
	}
	return h
}

// Writer returns the writer entries are written to
func (h *ConsoleHandler) Writer() io.Writer {
	return h.writer
}

// Handle processes a log entry
func (h *ConsoleHandler) Handle(entry *core.Entry) error {
	if h.queue != nil {
		return h.queue.enqueue(entry)
	}
	select {
	case <-h.closed:
		return ErrClosed
	default:
	}
	return h.write(entry)
}

// write formats and writes an entry
func (h *ConsoleHandler) write(entry *core.Entry) error {
	var err error
	if h.bufferFormatter != nil {
		h.mu.Lock()
		h.buf.Reset()
		h.bufferFormatter.FormatEntry(entry, &h.buf)
		_, err = h.writer.Write(h.buf.Bytes())
		h.mu.Unlock()
	} else {
		var data []byte
		data, err = h.formatter.Format(entry)
		if err != nil {
			return err
		}
		h.mu.Lock()
		_, err = h.writer.Write(data)
		h.mu.Unlock()
	}

	if err != nil {
		if h.queue == nil {
			h.stats.IncrementFailed()
		}
		return err
	}
	h.stats.IncrementProcessed()
	return nil
}

// Flush waits for queued entries and flushes the writer if it buffers
func (h *ConsoleHandler) Flush() error {
	if h.queue != nil {
		if err := h.queue.flush(); err != nil {
			return err
		}
	}
	if f, ok := h.writer.(interface{ Flush() error }); ok {
		h.mu.Lock()
		defer h.mu.Unlock()
		return f.Flush()
	}
	return nil
}

// Stats returns a snapshot of the current statistics
func (h *ConsoleHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Close stops the background writer. The writer itself is left open.
func (h *ConsoleHandler) Close() error {
	h.closeOnce.Do(func() {
		close(h.closed)
		if h.queue != nil {
			h.queue.close()
		}
		if f, ok := h.writer.(interface{ Flush() error }); ok {
			h.mu.Lock()
			_ = f.Flush()
			h.mu.Unlock()
		}
	})
	return nil
}
