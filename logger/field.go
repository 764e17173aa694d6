package logger

import (
	"github.com/philipp01105/swaplog/core"
)

// Field helpers re-exported from core so callers only import logger.
var (
	String   = core.String
	Int      = core.Int
	Int64    = core.Int64
	Float64  = core.Float64
	Bool     = core.Bool
	Time     = core.Time
	Duration = core.Duration
	Err      = core.Err
	Any      = core.Any
)
