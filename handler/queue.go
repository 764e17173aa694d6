package handler

import (
	"sync"
	"time"

	"github.com/philipp01105/swaplog/core"
)

// asyncQueue is the background writer shared by the console and file
// handlers. Entries are cloned on the way in and recycled after write.
type asyncQueue struct {
	queue          chan *core.Entry
	flushReq       chan chan struct{}
	closed         chan struct{}
	stopped        chan struct{}
	closeOnce      sync.Once
	write          func(*core.Entry) error
	overflowPolicy map[core.Level]OverflowPolicy
	blockTimeout   time.Duration
	drainTimeout   time.Duration
	stats          *Stats
}

type queueConfig struct {
	bufferSize     int
	overflowPolicy map[core.Level]OverflowPolicy
	blockTimeout   time.Duration
	drainTimeout   time.Duration
}

func newAsyncQueue(cfg queueConfig, stats *Stats, write func(*core.Entry) error) *asyncQueue {
	q := &asyncQueue{
		queue:          make(chan *core.Entry, cfg.bufferSize),
		flushReq:       make(chan chan struct{}),
		closed:         make(chan struct{}),
		stopped:        make(chan struct{}),
		write:          write,
		overflowPolicy: cfg.overflowPolicy,
		blockTimeout:   cfg.blockTimeout,
		drainTimeout:   cfg.drainTimeout,
		stats:          stats,
	}
	go q.process()
	return q
}

// enqueue applies the level's overflow policy. Block falls back to
// writing on the caller's goroutine once blockTimeout expires.
func (q *asyncQueue) enqueue(entry *core.Entry) error {
	select {
	case <-q.closed:
		return ErrClosed
	default:
	}

	policy, ok := q.overflowPolicy[entry.Level]
	if !ok {
		policy = DropNewest
	}

	e := core.CloneEntry(entry)

	switch policy {
	case Block:
		select {
		case q.queue <- e:
			return nil
		default:
		}
		timer := time.NewTimer(q.blockTimeout)
		defer timer.Stop()
		select {
		case q.queue <- e:
			return nil
		case <-timer.C:
			// Timeout - write on the caller's goroutine
			q.stats.IncrementBlocked()
			err := q.write(e)
			core.PutEntry(e)
			return err
		case <-q.closed:
			core.PutEntry(e)
			return ErrClosed
		}

	case DropOldest:
		select {
		case q.queue <- e:
			return nil
		default:
		}
		select {
		case old := <-q.queue:
			q.stats.IncrementDropped(old.Level)
			core.PutEntry(old)
		default:
		}
		select {
		case q.queue <- e:
			return nil
		default:
			q.stats.IncrementDropped(e.Level)
			core.PutEntry(e)
			return nil
		}

	default:
		select {
		case q.queue <- e:
			return nil
		default:
			q.stats.IncrementDropped(e.Level)
			core.PutEntry(e)
			return nil
		}
	}
}

func (q *asyncQueue) handle(e *core.Entry) {
	if err := q.write(e); err != nil {
		q.stats.IncrementFailed()
	}
	core.PutEntry(e)
}

// drain writes whatever is queued right now.
func (q *asyncQueue) drain(deadline <-chan time.Time) {
	for {
		select {
		case e := <-q.queue:
			q.handle(e)
		case <-deadline:
			return
		default:
			return
		}
	}
}

func (q *asyncQueue) process() {
	defer close(q.stopped)

	for {
		select {
		case e := <-q.queue:
			q.handle(e)
		case done := <-q.flushReq:
			q.drain(nil)
			close(done)
		case <-q.closed:
			q.drain(time.After(q.drainTimeout))
			return
		}
	}
}

// flush returns once every entry enqueued before the call is written.
func (q *asyncQueue) flush() error {
	done := make(chan struct{})
	select {
	case q.flushReq <- done:
	case <-q.stopped:
		return ErrClosed
	}
	select {
	case <-done:
		return nil
	case <-q.stopped:
		return ErrClosed
	}
}

func (q *asyncQueue) close() {
	q.closeOnce.Do(func() {
		close(q.closed)
	})
	<-q.stopped
}
