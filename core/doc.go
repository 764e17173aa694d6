// Package core defines the shared types used across swaplog.
//
// Level is the severity of a record and LevelFilter is the minimum level a
// sink lets through (OffFilter lets nothing through). Metadata carries the
// level and target of a record, which is all a sink needs to answer
// Enabled. Entry is the record itself.
//
// Entry objects are pooled via sync.Pool to keep the hot path
// allocation-free. Callers get an Entry with GetEntry and return it with
// PutEntry once the sink has returned. A handler that needs the entry
// after Handle returns takes its own copy with CloneEntry.
//
// Field encodes values into fixed-size numeric fields (Int64, Float64)
// wherever possible so that common types like int, bool, and time.Time
// never escape to the heap. The Any field exists as a fallback for
// arbitrary types but will cause an allocation.
package core
