package shared

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/philipp01105/swaplog/core"
	"github.com/philipp01105/swaplog/envlog"
	"github.com/philipp01105/swaplog/logger"
)

// testBackend records use after Close instead of failing in place so
// concurrent tests can report it from the main goroutine.
type testBackend struct {
	id       uint64
	choice   envlog.ColorChoice
	filter   core.LevelFilter
	closed   atomic.Bool
	closes   atomic.Int32
	logs     atomic.Int64
	misuse   *atomic.Int64
	closeErr error
}

func (b *testBackend) check() {
	if b.closed.Load() {
		b.misuse.Add(1)
	}
}

func (b *testBackend) Log(*core.Entry) {
	b.check()
	b.logs.Add(1)
}

func (b *testBackend) Enabled(md core.Metadata) bool {
	b.check()
	return b.filter.Allows(md.Level)
}

func (b *testBackend) Flush()                   { b.check() }
func (b *testBackend) Filter() core.LevelFilter { return b.filter }

func (b *testBackend) Close() error {
	b.closed.Store(true)
	b.closes.Add(1)
	return b.closeErr
}

// backendSet is a Factory that remembers everything it built.
type backendSet struct {
	mu       sync.Mutex
	built    []*testBackend
	misuse   atomic.Int64
	filter   core.LevelFilter
	closeErr error
}

func newBackendSet() *backendSet {
	return &backendSet{filter: core.InfoFilter}
}

func (s *backendSet) factory(choice envlog.ColorChoice) Backend {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &testBackend{
		id:       uint64(len(s.built)),
		choice:   choice,
		filter:   s.filter,
		misuse:   &s.misuse,
		closeErr: s.closeErr,
	}
	s.built = append(s.built, b)
	return b
}

func (s *backendSet) all() []*testBackend {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*testBackend(nil), s.built...)
}

// checkAllClosedOnce verifies every built backend was closed exactly once.
func (s *backendSet) checkAllClosedOnce(t *testing.T) {
	t.Helper()
	for _, b := range s.all() {
		if n := b.closes.Load(); n != 1 {
			t.Errorf("backend %d closed %d times, want 1", b.id, n)
		}
	}
	if n := s.misuse.Load(); n != 0 {
		t.Errorf("%d calls reached a closed backend", n)
	}
}

func newEntry(msg string) *core.Entry {
	return &core.Entry{Time: time.Now(), Level: core.InfoLevel, Message: msg}
}

func TestNew_BuildsInitialBackend(t *testing.T) {
	set := newBackendSet()
	l := NewWithBuilder(set.factory, envlog.ColorNever)
	defer l.Close()

	cur := l.Current()
	if cur.Choice != envlog.ColorNever || cur.Filter != core.InfoFilter || cur.Closed {
		t.Errorf("Current() = %+v", cur)
	}
	if n := len(set.all()); n != 1 {
		t.Fatalf("factory called %d times, want 1", n)
	}

	l.Log(newEntry("hello"))
	if got := set.all()[0].logs.Load(); got != 1 {
		t.Errorf("logs = %d, want 1", got)
	}
}

func TestSetColorChoice_Visibility(t *testing.T) {
	set := newBackendSet()
	l := NewWithBuilder(set.factory, envlog.ColorAuto)
	defer l.Close()

	l.SetColorChoice(envlog.ColorAlways)

	cur := l.Current()
	if cur.Choice != envlog.ColorAlways {
		t.Errorf("Choice = %v, want always", cur.Choice)
	}
	if cur.Generation != 2 {
		t.Errorf("Generation = %d, want 2", cur.Generation)
	}

	l.Log(newEntry("after swap"))
	built := set.all()
	if built[0].logs.Load() != 0 || built[1].logs.Load() != 1 {
		t.Errorf("log went to the wrong backend: old=%d new=%d",
			built[0].logs.Load(), built[1].logs.Load())
	}
}

func TestSwap_KeepsChoice(t *testing.T) {
	set := newBackendSet()
	l := NewWithBuilder(set.factory, envlog.ColorAlways)
	defer l.Close()

	b := set.factory(envlog.ColorNever)
	l.Swap(b)

	if got := l.Current().Choice; got != envlog.ColorAlways {
		t.Errorf("Choice = %v, want always", got)
	}
	l.Log(newEntry("x"))
	if b.(*testBackend).logs.Load() != 1 {
		t.Error("swapped backend did not receive the record")
	}
}

func TestClone_SharesState(t *testing.T) {
	set := newBackendSet()
	l := NewWithBuilder(set.factory, envlog.ColorNever)
	c := l.Clone()
	copied := l

	c.SetColorChoice(envlog.ColorAlways)
	if l.Current().Generation != 2 || copied.Current().Choice != envlog.ColorAlways {
		t.Error("swap through a clone was not visible to the original")
	}

	if err := copied.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !l.Current().Closed {
		t.Error("close through a copy was not visible")
	}
	set.checkAllClosedOnce(t)
}

func TestClose(t *testing.T) {
	set := newBackendSet()
	set.closeErr = errors.New("disk gone")
	l := NewWithBuilder(set.factory, envlog.ColorNever)
	l.SetColorChoice(envlog.ColorAlways)

	if err := l.Close(); !errors.Is(err, set.closeErr) {
		t.Fatalf("Close() = %v, want %v", err, set.closeErr)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}

	// Reads after Close are no-ops.
	l.Log(newEntry("late"))
	l.Flush()
	if l.Enabled(core.Metadata{Level: core.ErrorLevel}) {
		t.Error("Enabled after Close should be false")
	}
	if l.Filter() != core.OffFilter {
		t.Errorf("Filter after Close = %v", l.Filter())
	}

	// A swap after Close closes the new backend at once.
	l.SetColorChoice(envlog.ColorAuto)
	if !l.Current().Closed {
		t.Error("swap after Close republished a backend")
	}

	set.checkAllClosedOnce(t)
	st := l.Stats()
	if st.Swaps != 1 || st.Pending() != 0 {
		t.Errorf("stats = %+v", st)
	}
}

func TestNilFactoryResult(t *testing.T) {
	l := NewWithBuilder(func(envlog.ColorChoice) Backend { return nil }, envlog.ColorNever)
	defer l.Close()

	l.Log(newEntry("dropped"))
	if l.Filter() != core.OffFilter {
		t.Errorf("Filter = %v, want off", l.Filter())
	}
}

// Readers log continuously while writers keep swapping; no read may ever
// observe a closed backend.
func TestConcurrentReadsDuringSwaps(t *testing.T) {
	set := newBackendSet()
	l := NewWithBuilder(set.factory, envlog.ColorAuto)

	const (
		readers = 8
		writers = 4
		swaps   = 500
	)
	choices := []envlog.ColorChoice{envlog.ColorAlways, envlog.ColorNever, envlog.ColorAuto}

	var stop atomic.Bool
	var reads atomic.Int64
	var rwg sync.WaitGroup
	for i := 0; i < readers; i++ {
		rwg.Add(1)
		go func() {
			defer rwg.Done()
			e := newEntry("stress")
			for !stop.Load() {
				if l.Enabled(e.Metadata()) {
					l.Log(e)
				}
				_ = l.Current()
				reads.Add(1)
			}
		}()
	}

	var wwg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wwg.Add(1)
		go func(w int) {
			defer wwg.Done()
			for i := 0; i < swaps; i++ {
				l.SetColorChoice(choices[(w+i)%len(choices)])
			}
		}(w)
	}
	wwg.Wait()
	stop.Store(true)
	rwg.Wait()

	// No lost updates: every build was published and then retired.
	if st := l.Stats(); st.Swaps != writers*swaps {
		t.Errorf("swaps = %d, want %d", st.Swaps, writers*swaps)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if n := len(set.all()); n != writers*swaps+1 {
		t.Errorf("built %d backends, want %d", n, writers*swaps+1)
	}
	set.checkAllClosedOnce(t)
	if reads.Load() == 0 {
		t.Error("readers made no progress")
	}
}

func TestReclamation_TenThousandSwaps(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	set := newBackendSet()
	l := NewWithBuilder(set.factory, envlog.ColorNever)

	var stop atomic.Bool
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := newEntry("r")
			for !stop.Load() {
				l.Log(e)
			}
		}()
	}

	for i := 0; i < 10000; i++ {
		if i%2 == 0 {
			l.SetColorChoice(envlog.ColorAlways)
		} else {
			l.SetColorChoice(envlog.ColorNever)
		}
	}
	stop.Store(true)
	wg.Wait()

	// Everything but the published backend is eventually closed.
	deadline := time.Now().Add(10 * time.Second)
	for l.Stats().Reclaimed < 10000 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if st := l.Stats(); st.Reclaimed != 10000 || st.Pending() != 0 {
		t.Fatalf("stats = %+v, want 10000 reclaimed", st)
	}
	if l.Current().Generation != 10001 {
		t.Errorf("generation = %d", l.Current().Generation)
	}

	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	set.checkAllClosedOnce(t)
}

func TestNew_DefaultFactoryIsDeterministic(t *testing.T) {
	t.Setenv("SWAPLOG_LOG", "warn,app/db=debug")
	t.Setenv("SWAPLOG_LOG_STYLE", "")

	a := New(envlog.ColorNever)
	b := New(envlog.ColorNever)
	defer a.Close()
	defer b.Close()

	ca, cb := a.Current(), b.Current()
	if ca.Filter != cb.Filter || ca.Choice != cb.Choice {
		t.Errorf("same inputs built different backends: %+v vs %+v", ca, cb)
	}
	if ca.Filter != core.DebugFilter {
		t.Errorf("Filter = %v, want debug", ca.Filter)
	}
}

// The registry accepts one sink per process, so every registration
// behavior is checked here.
func TestInit_SingleRegistration(t *testing.T) {
	var first, second bytes.Buffer
	factory := func(buf *bytes.Buffer) Factory {
		return func(choice envlog.ColorChoice) Backend {
			return envlog.NewBuilder().
				Parse("info").
				Target(buf).
				WriteStyle(envlog.WriteStyleFor(choice)).
				Diagnostics(nil).
				Build()
		}
	}

	winner := NewWithBuilder(factory(&first), envlog.ColorNever)
	loser := NewWithBuilder(factory(&second), envlog.ColorNever)
	defer winner.Close()
	defer loser.Close()

	if err := winner.Init(); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if logger.MaxLevel() != core.InfoFilter {
		t.Errorf("MaxLevel = %v, want info", logger.MaxLevel())
	}

	err := loser.Init()
	if !errors.Is(err, logger.ErrAlreadyRegistered) {
		t.Fatalf("second Init = %v, want ErrAlreadyRegistered", err)
	}
	func() {
		defer func() {
			if recover() == nil {
				t.Error("MustInit on a second handle should panic")
			}
		}()
		loser.MustInit()
	}()

	logger.Info("via registry")
	logger.Debug("filtered")
	logger.Flush()
	if !strings.Contains(first.String(), "via registry") {
		t.Errorf("winner output = %q", first.String())
	}
	if strings.Contains(first.String(), "filtered") || second.Len() != 0 {
		t.Errorf("unexpected output: winner=%q loser=%q", first.String(), second.String())
	}

	// The loser still works when called directly.
	loser.Log(newEntry("direct"))
	if !strings.Contains(second.String(), "direct") {
		t.Errorf("loser output = %q", second.String())
	}

	// A swap on the registered handle is picked up by global logging.
	first.Reset()
	winner.SetColorChoice(envlog.ColorAlways)
	logger.Warn("after swap")
	logger.Flush()
	if !strings.Contains(first.String(), "after swap") {
		t.Errorf("output after swap = %q", first.String())
	}
}

// slowFilterBackend stalls its first Filter call until gate is closed.
type slowFilterBackend struct {
	*testBackend
	once    sync.Once
	entered chan struct{}
	gate    chan struct{}
}

func (b *slowFilterBackend) Filter() core.LevelFilter {
	b.once.Do(func() {
		close(b.entered)
		<-b.gate
	})
	return b.testBackend.Filter()
}

func TestSwap_MaxLevelFollowsLastPublished(t *testing.T) {
	prev := logger.MaxLevel()
	t.Cleanup(func() { logger.SetMaxLevel(prev) })

	set := newBackendSet()
	entered := make(chan struct{})
	gate := make(chan struct{})
	factory := func(choice envlog.ColorChoice) Backend {
		b := set.factory(choice).(*testBackend)
		if choice == envlog.ColorAlways {
			b.filter = core.TraceFilter
			return &slowFilterBackend{testBackend: b, entered: entered, gate: gate}
		}
		b.filter = core.ErrorFilter
		return b
	}
	l := NewWithBuilder(factory, envlog.ColorNever)
	defer l.Close()
	// Same state Init leaves behind, without taking the process-wide slot.
	l.s.registered.Store(true)
	l.syncMaxLevel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		l.SetColorChoice(envlog.ColorAlways)
	}()
	// The first swap is published and stuck reading its filter.
	<-entered
	l.SetColorChoice(envlog.ColorNever)
	if got := logger.MaxLevel(); got != core.ErrorFilter {
		t.Fatalf("MaxLevel after second swap = %v, want error", got)
	}
	close(gate)
	<-done

	if got, cur := logger.MaxLevel(), l.Filter(); got != cur || cur != core.ErrorFilter {
		t.Errorf("MaxLevel = %v, current filter = %v, want both error", got, cur)
	}

	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if got := logger.MaxLevel(); got != core.OffFilter {
		t.Errorf("MaxLevel after Close = %v, want off", got)
	}
}

// blockingLogBackend parks its first Log call until release is closed.
type blockingLogBackend struct {
	*testBackend
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (b *blockingLogBackend) Log(e *core.Entry) {
	b.once.Do(func() {
		close(b.entered)
		<-b.release
	})
	b.testBackend.Log(e)
}

func TestReclamation_AfterReaderLeavesQuietly(t *testing.T) {
	set := newBackendSet()
	entered := make(chan struct{})
	release := make(chan struct{})
	first := true
	factory := func(choice envlog.ColorChoice) Backend {
		b := set.factory(choice).(*testBackend)
		if first {
			first = false
			return &blockingLogBackend{testBackend: b, entered: entered, release: release}
		}
		return b
	}
	l := NewWithBuilder(factory, envlog.ColorNever)
	defer l.Close()

	logged := make(chan struct{})
	go func() {
		defer close(logged)
		l.Log(newEntry("slow"))
	}()
	<-entered

	l.SetColorChoice(envlog.ColorAlways)
	old := set.all()[0]
	time.Sleep(5 * time.Millisecond)
	if old.closed.Load() {
		t.Fatal("backend closed while a reader was still inside it")
	}

	close(release)
	<-logged

	// No logging, swapping or explicit collection from here on.
	deadline := time.Now().Add(5 * time.Second)
	for old.closes.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if n := old.closes.Load(); n != 1 {
		t.Fatalf("retired backend closed %d times, want 1 (stats %+v)", n, l.Stats())
	}
	if st := l.Stats(); st.Pending() != 0 {
		t.Errorf("stats = %+v, want nothing pending", st)
	}
	if n := set.misuse.Load(); n != 0 {
		t.Errorf("%d calls reached a closed backend", n)
	}
}
