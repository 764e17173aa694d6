// Package epoch implements epoch-based reclamation for objects that are
// published through an atomic pointer and may still be in use by
// lock-free readers after they are replaced.
//
// Readers bracket each access with Pin and Unpin. A writer that swaps an
// object out hands the old one to Retire together with a reclaim
// function. The function runs only after the global epoch has advanced
// twice past the epoch the object was retired in, and the epoch can only
// advance once every guard pinned two epochs back has been released, so
// no reader that could have loaded the old object is still using it.
//
// Readers never take a lock. Retire never blocks: reclaim functions run on
// a background goroutine, started by Retire or by every 128th Unpin.
// Synchronize is the blocking variant for shutdown and tests.
//
// Go's garbage collector already keeps memory alive while referenced, so
// reclaim functions are used for what the GC does not handle: closing
// handlers, stopping goroutines and releasing file descriptors.
package epoch
