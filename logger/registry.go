package logger

import (
	"errors"
	"sync/atomic"

	"github.com/philipp01105/swaplog/core"
)

// Sink is what the registry dispatches records to. Implementations must
// be safe for concurrent use and must not retain the entry after Log
// returns.
type Sink interface {
	Log(entry *core.Entry)
	Enabled(md core.Metadata) bool
	Flush()
}

// ErrAlreadyRegistered is returned by SetSink after a sink was registered.
var ErrAlreadyRegistered = errors.New("logger: a sink is already registered")

const (
	uninitialized int32 = iota
	initializing
	initialized
)

var (
	state      atomic.Int32
	registered Sink // written once before state becomes initialized
	maxLevel   atomic.Int32
)

func init() {
	maxLevel.Store(int32(core.OffFilter))
}

type nopSink struct{}

func (nopSink) Log(*core.Entry)             {}
func (nopSink) Enabled(core.Metadata) bool { return false }
func (nopSink) Flush()                      {}

// SetSink registers s as the process-wide sink. Only the first call
// succeeds; later calls return ErrAlreadyRegistered and leave the first
// sink in place.
func SetSink(s Sink) error {
	if s == nil {
		return errors.New("logger: nil sink")
	}
	if !state.CompareAndSwap(uninitialized, initializing) {
		return ErrAlreadyRegistered
	}
	registered = s
	state.Store(initialized)
	return nil
}

// CurrentSink returns the registered sink, or a sink that drops
// everything if none is registered yet.
func CurrentSink() Sink {
	if state.Load() == initialized {
		return registered
	}
	return nopSink{}
}

// SetMaxLevel sets the global level gate checked before any sink is
// consulted. It starts at OffFilter.
func SetMaxLevel(f core.LevelFilter) {
	maxLevel.Store(int32(f))
}

// MaxLevel returns the global level gate.
func MaxLevel() core.LevelFilter {
	return core.LevelFilter(maxLevel.Load())
}

// Flush flushes the registered sink.
func Flush() {
	CurrentSink().Flush()
}

// registrySink forwards to whatever sink is registered at call time.
type registrySink struct{}

func (registrySink) Log(e *core.Entry) {
	if MaxLevel().Allows(e.Level) {
		CurrentSink().Log(e)
	}
}

func (registrySink) Enabled(md core.Metadata) bool {
	return MaxLevel().Allows(md.Level) && CurrentSink().Enabled(md)
}

func (registrySink) Flush() {
	CurrentSink().Flush()
}

// Registry returns a Sink that dispatches through the global registry.
func Registry() Sink {
	return registrySink{}
}
