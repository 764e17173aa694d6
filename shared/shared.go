package shared

import (
	"fmt"
	"sync/atomic"

	"github.com/philipp01105/swaplog/core"
	"github.com/philipp01105/swaplog/envlog"
	"github.com/philipp01105/swaplog/epoch"
	"github.com/philipp01105/swaplog/logger"
)

// Backend is what a Logger publishes. It is immutable once built; Close
// is called exactly once, after no reader can still be using it.
type Backend interface {
	logger.Sink
	// Filter is the most verbose level the backend lets through.
	Filter() core.LevelFilter
	Close() error
}

// Factory builds a backend for a color choice.
type Factory func(envlog.ColorChoice) Backend

// DefaultFactory builds backends from the environment with envlog.Build.
func DefaultFactory(choice envlog.ColorChoice) Backend {
	return envlog.Build(choice)
}

// Logger is a handle on a replaceable backend. Copies share the same
// state, so a swap through any copy is seen by all of them. Reads never
// take a lock; a swap publishes the new backend atomically and closes
// the old one once every read that may have loaded it has finished.
//
// A Logger must be created with New or NewWithBuilder.
type Logger struct {
	s *state
}

type state struct {
	slot       atomic.Pointer[holder]
	collector  *epoch.Collector
	factory    Factory
	generation atomic.Uint64
	swaps      atomic.Uint64
	registered atomic.Bool
}

// holder pairs a backend with what it was built from.
type holder struct {
	backend    Backend
	choice     envlog.ColorChoice
	generation uint64
}

// closedSlot is published by Close. Its nil backend turns every read into
// a no-op.
var closedSlot = &holder{}

// New returns a Logger whose first backend is built from the environment
// with the given color choice.
func New(choice envlog.ColorChoice) Logger {
	return NewWithBuilder(DefaultFactory, choice)
}

// NewWithBuilder is New with a custom backend factory.
func NewWithBuilder(factory Factory, choice envlog.ColorChoice) Logger {
	if factory == nil {
		factory = DefaultFactory
	}
	s := &state{
		collector: epoch.NewCollector(),
		factory:   factory,
	}
	s.slot.Store(&holder{
		backend:    build(factory, choice),
		choice:     choice,
		generation: s.generation.Add(1),
	})
	return Logger{s: s}
}

func build(factory Factory, choice envlog.ColorChoice) Backend {
	if b := factory(choice); b != nil {
		return b
	}
	return nopBackend{}
}

// SetColorChoice builds a backend for choice and publishes it. The
// previous backend stays usable by in-flight reads and is closed later.
func (l Logger) SetColorChoice(choice envlog.ColorChoice) {
	l.publish(build(l.s.factory, choice), choice)
}

// Swap publishes an already built backend, keeping the current color
// choice in Current.
func (l Logger) Swap(b Backend) {
	if b == nil {
		b = nopBackend{}
	}
	l.publish(b, l.s.slot.Load().choice)
}

func (l Logger) publish(b Backend, choice envlog.ColorChoice) {
	s := l.s
	h := &holder{backend: b, choice: choice, generation: s.generation.Add(1)}
	for {
		old := s.slot.Load()
		if old == closedSlot {
			// Nothing can read b; close it right away.
			_ = b.Close()
			return
		}
		if s.slot.CompareAndSwap(old, h) {
			s.swaps.Add(1)
			if s.registered.Load() {
				l.syncMaxLevel()
			}
			s.collector.Retire(func() { _ = old.backend.Close() })
			return
		}
	}
}

// syncMaxLevel sets the registry gate from whatever backend is published,
// retrying until the slot did not change around the store. A racing swap
// that stored a stale level therefore always stores again, and the last
// store matches the backend that ends up published.
func (l Logger) syncMaxLevel() {
	s := l.s
	for {
		g := s.collector.Pin()
		h := s.slot.Load()
		level := core.OffFilter
		if h.backend != nil {
			level = h.backend.Filter()
		}
		logger.SetMaxLevel(level)
		current := s.slot.Load() == h
		g.Unpin()
		if current {
			return
		}
	}
}

// Init registers l as the process-wide sink and opens the registry's
// level gate to the current backend's filter. It fails if any sink was
// registered before.
func (l Logger) Init() error {
	if err := logger.SetSink(l); err != nil {
		return fmt.Errorf("shared: init: %w", err)
	}
	l.s.registered.Store(true)
	l.syncMaxLevel()
	return nil
}

// MustInit is Init that panics on failure.
func (l Logger) MustInit() {
	if err := l.Init(); err != nil {
		panic(err)
	}
}

// Enabled reports whether the current backend would write a record with
// this metadata.
func (l Logger) Enabled(md core.Metadata) bool {
	g := l.s.collector.Pin()
	defer g.Unpin()
	if b := l.s.slot.Load().backend; b != nil {
		return b.Enabled(md)
	}
	return false
}

// Log hands the entry to the current backend.
func (l Logger) Log(entry *core.Entry) {
	g := l.s.collector.Pin()
	defer g.Unpin()
	if b := l.s.slot.Load().backend; b != nil {
		b.Log(entry)
	}
}

// Flush flushes the current backend.
func (l Logger) Flush() {
	g := l.s.collector.Pin()
	defer g.Unpin()
	if b := l.s.slot.Load().backend; b != nil {
		b.Flush()
	}
}

// Filter returns the current backend's most verbose level, or OffFilter
// after Close.
func (l Logger) Filter() core.LevelFilter {
	g := l.s.collector.Pin()
	defer g.Unpin()
	if b := l.s.slot.Load().backend; b != nil {
		return b.Filter()
	}
	return core.OffFilter
}

// Snapshot describes the backend published at one instant.
type Snapshot struct {
	Choice     envlog.ColorChoice
	Filter     core.LevelFilter
	Generation uint64
	Closed     bool
}

// Current returns a snapshot of the published backend.
func (l Logger) Current() Snapshot {
	g := l.s.collector.Pin()
	defer g.Unpin()
	h := l.s.slot.Load()
	if h.backend == nil {
		return Snapshot{Filter: core.OffFilter, Closed: true}
	}
	return Snapshot{
		Choice:     h.choice,
		Filter:     h.backend.Filter(),
		Generation: h.generation,
	}
}

// Clone returns another handle on the same state.
func (l Logger) Clone() Logger {
	return Logger{s: l.s}
}

// Close unpublishes the backend and waits until it and every backend
// retired before it have been closed. It returns the error from closing
// the last backend. Calls after the first do nothing. Close must not be
// called from inside a backend method.
func (l Logger) Close() error {
	s := l.s
	var old *holder
	for {
		old = s.slot.Load()
		if old == closedSlot {
			return nil
		}
		if s.slot.CompareAndSwap(old, closedSlot) {
			break
		}
	}
	if s.registered.Load() {
		l.syncMaxLevel()
	}

	var err error
	s.collector.Retire(func() { err = old.backend.Close() })
	s.collector.Synchronize()
	return err
}

// Stats are the handle's swap and reclamation counters.
type Stats struct {
	Swaps     uint64
	Epoch     uint64
	Pinned    int64
	Retired   uint64
	Reclaimed uint64
}

// Pending is the number of retired backends not closed yet.
func (s Stats) Pending() uint64 {
	return s.Retired - s.Reclaimed
}

// Stats returns the current counters.
func (l Logger) Stats() Stats {
	cs := l.s.collector.Stats()
	return Stats{
		Swaps:     l.s.swaps.Load(),
		Epoch:     cs.Epoch,
		Pinned:    cs.Pinned,
		Retired:   cs.Retired,
		Reclaimed: cs.Reclaimed,
	}
}

type nopBackend struct{}

func (nopBackend) Log(*core.Entry)            {}
func (nopBackend) Enabled(core.Metadata) bool { return false }
func (nopBackend) Flush()                     {}
func (nopBackend) Filter() core.LevelFilter   { return core.OffFilter }
func (nopBackend) Close() error               { return nil }
