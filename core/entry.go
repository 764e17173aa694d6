package core

import (
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// Metadata is the part of a record a sink needs to decide whether it
// wants the record at all.
type Metadata struct {
	Level  Level
	Target string
}

// Entry represents a log record with all its metadata
type Entry struct {
	Time    time.Time
	Level   Level
	Target  string
	Message string
	Fields  []Field
	Caller  CallerInfo
}

// Metadata returns the level and target of the entry
func (e *Entry) Metadata() Metadata {
	return Metadata{Level: e.Level, Target: e.Target}
}

// CallerInfo contains information about the caller
type CallerInfo struct {
	File      string
	ShortFile string
	Line      int
	Function  string
	Defined   bool
}

var entryPool = sync.Pool{
	New: func() any { return &Entry{Fields: make([]Field, 0, 8)} },
}

// GetEntry returns a pooled entry stamped with the current time.
func GetEntry() *Entry {
	e := entryPool.Get().(*Entry)
	e.Time = time.Now()
	return e
}

// PutEntry clears e and returns it to the pool. e must not be used after.
func PutEntry(e *Entry) {
	if e == nil {
		return
	}
	*e = Entry{Fields: e.Fields[:0]}
	entryPool.Put(e)
}

// CloneEntry copies e into a pooled Entry the caller owns. Handlers that
// keep an entry past the end of Handle (async queues) must clone it, since
// the caller recycles its entry as soon as the sink returns.
func CloneEntry(e *Entry) *Entry {
	c := entryPool.Get().(*Entry)
	fields := append(c.Fields[:0], e.Fields...)
	*c = *e
	c.Fields = fields
	return c
}

// GetCaller describes the frame skip levels up the stack, counting
// GetCaller itself as 0 like runtime.Caller.
func GetCaller(skip int) CallerInfo {
	var pcs [1]uintptr
	if runtime.Callers(skip+1, pcs[:]) == 0 {
		return CallerInfo{}
	}
	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	if frame.File == "" {
		return CallerInfo{}
	}
	return CallerInfo{
		File:      frame.File,
		ShortFile: filepath.Base(frame.File),
		Line:      frame.Line,
		Function:  frame.Function,
		Defined:   true,
	}
}
