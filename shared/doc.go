// Package shared provides Logger, a process-wide logging handle whose
// backend can be rebuilt at runtime, for example when a user toggles
// colored output, while other goroutines keep logging through it.
//
//	log := shared.New(envlog.ColorAuto)
//	log.MustInit()
//	logger.Info("started")
//
//	log.SetColorChoice(envlog.ColorNever) // from any goroutine
//
// Reads (Log, Enabled, Flush) pin an epoch, load the backend pointer and
// delegate; they never block on a swap. A replaced backend is closed by
// an epoch collector once every read that could have loaded it is done.
package shared
