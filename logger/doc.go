// Package logger is the process-wide logging front end.
//
// A single Sink can be registered with SetSink; the first registration
// wins and later calls return ErrAlreadyRegistered. Until a sink is
// registered, and while MaxLevel is OffFilter, the package-level
// functions Info, Error, Debugf, etc. drop every record:
//
//	logger.SetMaxLevel(core.InfoFilter)
//	logger.Info("ready", logger.Int("port", 8080))
//
// The structured Logger built by Builder carries a target, default
// fields and optional caller information. It writes to any Sink, or to
// the registry when none is given:
//
//	log := logger.NewBuilder().
//	    WithTarget("api").
//	    WithFields(logger.String("service", "users")).
//	    Build()
//
// A Logger is immutable; With and Named return copies. Level checks
// happen before an entry is taken from the pool, so filtered records
// do not allocate.
//
// NewSlogHandler and NewZapCore let code written against log/slog or
// go.uber.org/zap log through a Sink.
package logger
