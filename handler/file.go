package handler

import (
	"errors"
	"sync"
	"time"

	"github.com/philipp01105/swaplog/core"
	"github.com/philipp01105/swaplog/formatter"
)

// FileHandler appends log entries to a file with rotation support.
// Handlers opened on the same path share one descriptor (see logFile).
type FileHandler struct {
	filename  string
	lf        *logFile
	formatter formatter.Formatter
	queue     *asyncQueue
	stats     *Stats

	mu        sync.RWMutex // guards closed against in-flight writes
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

// FileConfig holds configuration for file handler
type FileConfig struct {
	// Filename is the path to the log file
	Filename string
	// Formatter to use (default: TextFormatter without color)
	Formatter formatter.Formatter
	// Async enables asynchronous logging
	Async bool
	// BufferSize is the size of the async queue (default: 1000)
	BufferSize int
	// MaxSize is the size in bytes that triggers rotation (0 = no size rotation)
	MaxSize int64
	// MaxAge is how long a file is written before rotation (0 = no time rotation)
	MaxAge time.Duration
	// MaxBackups is the maximum number of old log files to retain (0 = keep all)
	MaxBackups int
	// OverflowPolicy defines per-level overflow behavior (default: uses DefaultLevelPolicy)
	OverflowPolicy map[core.Level]OverflowPolicy
	// BlockTimeout is the timeout for blocking overflow policy (default: 100ms)
	BlockTimeout time.Duration
	// DrainTimeout is the timeout for draining queue on Close (default: 5s)
	DrainTimeout time.Duration
	// Stats receives the handler's counters (default: a fresh Stats)
	Stats *Stats
}

// NewFileHandler opens (or creates) the file and returns a handler for it.
// Missing parent directories are created.
func NewFileHandler(cfg FileConfig) (*FileHandler, error) {
	if cfg.Filename == "" {
		return nil, errors.New("handler: filename is required")
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}

	lf, err := acquireLogFile(cfg.Filename, rotation{
		maxSize:    cfg.MaxSize,
		maxAge:     cfg.MaxAge,
		maxBackups: cfg.MaxBackups,
	})
	if err != nil {
		return nil, err
	}

	h := &FileHandler{
		filename:  cfg.Filename,
		lf:        lf,
		formatter: cfg.Formatter,
		stats:     cfg.Stats,
	}
	if h.stats == nil {
		h.stats = NewStats()
	}
	if cfg.Async {
		h.queue = newAsyncQueue(withQueueDefaults(queueConfig{
			bufferSize:     cfg.BufferSize,
			overflowPolicy: cfg.OverflowPolicy,
			blockTimeout:   cfg.BlockTimeout,
			drainTimeout:   cfg.DrainTimeout,
		}), h.stats, h.write)
	}
	return h, nil
}

// Filename returns the path the handler appends to
func (h *FileHandler) Filename() string {
	return h.filename
}

// Handle processes a log entry
func (h *FileHandler) Handle(entry *core.Entry) error {
	if h.queue != nil {
		return h.queue.enqueue(entry)
	}
	return h.write(entry)
}

func (h *FileHandler) write(entry *core.Entry) error {
	data, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return ErrClosed
	}
	if err := h.lf.write(data); err != nil {
		if h.queue == nil {
			h.stats.IncrementFailed()
		}
		return err
	}
	h.stats.IncrementProcessed()
	return nil
}

// Flush waits for queued entries and syncs the file to disk
func (h *FileHandler) Flush() error {
	if h.queue != nil {
		if err := h.queue.flush(); err != nil {
			return err
		}
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return ErrClosed
	}
	return h.lf.sync()
}

// Stats returns a snapshot of the current statistics
func (h *FileHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Close drains the queue and releases the file. The descriptor is closed
// once no other handler on the same path is open.
func (h *FileHandler) Close() error {
	h.closeOnce.Do(func() {
		if h.queue != nil {
			h.queue.close()
		}
		h.mu.Lock()
		h.closed = true
		h.mu.Unlock()
		h.closeErr = h.lf.release()
	})
	return h.closeErr
}
