package epoch

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/cpu"
)

// Bounds for the background collector's wait while an old guard blocks
// the epoch.
const (
	minCollectBackoff = 50 * time.Microsecond
	maxCollectBackoff = 10 * time.Millisecond
)

// Collector tracks pinned readers against a global epoch and runs retired
// objects' reclaim functions once no reader can still reference them.
// The zero value is ready to use.
type Collector struct {
	epoch atomic.Uint64
	_     cpu.CacheLinePad
	// pinned[e&1] counts guards pinned at epoch e. Only two slots are
	// needed because the epoch never runs more than one step ahead of
	// the oldest pinned guard.
	pinned [2]struct {
		n atomic.Int64
		_ cpu.CacheLinePad
	}
	garbage   atomic.Pointer[deferred]
	collectMu sync.Mutex  // guards collectLocked
	collector atomic.Bool // a collectLoop goroutine is running
	retired   atomic.Uint64
	reclaimed atomic.Uint64
}

type deferred struct {
	epoch uint64
	fn    func()
	next  *deferred
}

// NewCollector returns an empty collector at epoch zero.
func NewCollector() *Collector {
	return &Collector{}
}

// Guard marks its goroutine as a reader until Unpin. A pointer loaded
// while the guard is held stays valid (is not reclaimed) until Unpin.
type Guard struct {
	c     *Collector
	epoch uint64
}

// Pin enters a read section. It never blocks: a retry only happens when
// the epoch advances between the load and the increment.
func (c *Collector) Pin() Guard {
	for {
		e := c.epoch.Load()
		c.pinned[e&1].n.Add(1)
		if c.epoch.Load() == e {
			return Guard{c: c, epoch: e}
		}
		c.pinned[e&1].n.Add(-1)
	}
}

// Epoch returns the epoch the guard was pinned at.
func (g *Guard) Epoch() uint64 {
	return g.epoch
}

// Unpin leaves the read section. Calling it twice is a no-op.
func (g *Guard) Unpin() {
	c := g.c
	if c == nil {
		return
	}
	g.c = nil
	c.pinned[g.epoch&1].n.Add(-1)

	// This may have been the guard holding the epoch back.
	c.collectAsync()
}

// TryAdvance moves the epoch from e to e+1 if no guard pinned at e-1 is
// still active. It reports whether this call advanced the epoch.
func (c *Collector) TryAdvance() bool {
	e := c.epoch.Load()
	if c.pinned[(e+1)&1].n.Load() != 0 {
		return false
	}
	return c.epoch.CompareAndSwap(e, e+1)
}

// Retire schedules fn to run once every guard that could have observed
// the retired object has been released. The object must already be
// unreachable for new readers (swapped out) when Retire is called.
// Retire never blocks; reclaim functions run on a background goroutine.
func (c *Collector) Retire(fn func()) {
	d := &deferred{epoch: c.epoch.Load(), fn: fn}
	c.retired.Add(1)
	for {
		head := c.garbage.Load()
		d.next = head
		if c.garbage.CompareAndSwap(head, d) {
			break
		}
	}
	c.collectAsync()
}

// collectAsync starts a background collection unless one is running or
// there is nothing to collect.
func (c *Collector) collectAsync() {
	if c.garbage.Load() == nil {
		return
	}
	if !c.collector.CompareAndSwap(false, true) {
		return
	}
	go c.collectLoop()
}

// collectLoop keeps collecting, backing off while a guard blocks the
// epoch, until no garbage is left. Only one runs at a time.
func (c *Collector) collectLoop() {
	backoff := minCollectBackoff
	for {
		// Two steps make garbage from the current epoch eligible when no
		// reader is in the way.
		if c.TryAdvance() {
			c.TryAdvance()
		}
		c.collectMu.Lock()
		c.collectLocked()
		c.collectMu.Unlock()
		if c.garbage.Load() != nil {
			time.Sleep(backoff)
			backoff = min(2*backoff, maxCollectBackoff)
			continue
		}

		c.collector.Store(false)
		// A Retire that lost the flag to this loop may have pushed after
		// the check above.
		if c.garbage.Load() == nil || !c.collector.CompareAndSwap(false, true) {
			return
		}
	}
}

// Collect advances the epoch if possible and runs every reclaim function
// that has become safe. It returns how many ran.
func (c *Collector) Collect() int {
	c.TryAdvance()
	c.collectMu.Lock()
	defer c.collectMu.Unlock()
	return c.collectLocked()
}

func (c *Collector) collectLocked() int {
	head := c.garbage.Swap(nil)
	if head == nil {
		return 0
	}

	// Garbage retired at epoch r is safe once the epoch reaches r+2:
	// reaching r+2 required every guard pinned at r or earlier to unpin.
	now := c.epoch.Load()
	var ready, keep, keepTail *deferred
	for d := head; d != nil; {
		next := d.next
		if now >= d.epoch+2 {
			d.next = ready
			ready = d
		} else {
			d.next = nil
			if keepTail == nil {
				keep = d
			} else {
				keepTail.next = d
			}
			keepTail = d
		}
		d = next
	}

	if keep != nil {
		for {
			cur := c.garbage.Load()
			keepTail.next = cur
			if c.garbage.CompareAndSwap(cur, keep) {
				break
			}
		}
	}

	n := 0
	for d := ready; d != nil; d = d.next {
		d.fn()
		n++
	}
	c.reclaimed.Add(uint64(n))
	return n
}

// Synchronize blocks until everything retired before the call has been
// reclaimed. It spins while older guards are still pinned, so it must not
// be called by a goroutine that holds a Guard from this collector.
func (c *Collector) Synchronize() {
	target := c.epoch.Load() + 2
	for c.epoch.Load() < target {
		if !c.TryAdvance() {
			runtime.Gosched()
		}
	}
	c.collectMu.Lock()
	defer c.collectMu.Unlock()
	c.collectLocked()
}

// Stats is a point-in-time view of the collector.
type Stats struct {
	Epoch     uint64
	Pinned    int64
	Retired   uint64
	Reclaimed uint64
}

// Pending returns how many retired objects have not been reclaimed yet.
func (s Stats) Pending() uint64 {
	return s.Retired - s.Reclaimed
}

// Stats returns the collector's counters.
func (c *Collector) Stats() Stats {
	reclaimed := c.reclaimed.Load()
	return Stats{
		Epoch:     c.epoch.Load(),
		Pinned:    c.pinned[0].n.Load() + c.pinned[1].n.Load(),
		Retired:   c.retired.Load(),
		Reclaimed: reclaimed,
	}
}
