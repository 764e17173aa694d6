// Package envlog builds immutable logging backends from the environment.
//
// A backend (Logger) combines a target filter, a write style and a
// handler. Filters come from the SWAPLOG_LOG variable as a comma-separated
// list of directives:
//
//	SWAPLOG_LOG=warn,net/http=debug,db=off
//
// A bare level sets the default, target=level sets the level for every
// target starting with that prefix (the longest prefix wins) and a bare
// target enables everything for it. Malformed directives are skipped with
// a warning on stderr. With no usable directive the filter is "error".
//
// SWAPLOG_LOG_STYLE selects the write style (always, auto, never); a
// style set on the Builder after FromEnv takes precedence, which is how
// Build applies the caller's ColorChoice. StyleAuto is resolved once,
// when the backend is built: output is colored only when the target is a
// terminal, NO_COLOR is unset and TERM is not "dumb".
//
// Backends are never modified after Build. To change configuration,
// build a new one and swap it in (see package shared).
package envlog
