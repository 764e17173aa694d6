package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/swaplog/core"
)

func TestSlogHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	sh := NewSlogHandler(newTextSink(&buf, "info"))

	if sh.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Debug should not be enabled when level is Info")
	}
	for _, l := range []slog.Level{slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if !sh.Enabled(context.Background(), l) {
			t.Errorf("%v should be enabled when level is Info", l)
		}
	}
}

func TestSlogHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(newTextSink(&buf, "")))

	logger.Info("test message", "key", "value", "count", 42)

	output := buf.String()
	for _, want := range []string{"test message", "key=value", "count=42"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output, got: %s", want, output)
		}
	}
}

func TestSlogHandler_AttrsAndGroups(t *testing.T) {
	sink := &recordSink{level: core.TraceFilter}
	logger := slog.New(NewSlogHandler(sink).WithTarget("api")).
		With("service", "users").
		WithGroup("req")

	logger.Warn("slow", "ms", 120, slog.Group("peer", "ip", "10.0.0.1"), "err", errors.New("boom"))

	sink.mu.Lock()
	defer sink.mu.Unlock()
	e := sink.entries[0]
	if e.Target != "api" || e.Level != core.WarnLevel {
		t.Errorf("entry target/level = %q/%v", e.Target, e.Level)
	}
	keys := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		keys[i] = f.Key + "=" + f.StringValue()
	}
	got := strings.Join(keys, " ")
	want := "service=users req.ms=120 req.peer.ip=10.0.0.1 req.err=boom"
	if got != want {
		t.Errorf("fields = %q, want %q", got, want)
	}
}

func TestSlogLevelToCore(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want core.Level
	}{
		{slog.LevelDebug - 4, core.TraceLevel},
		{slog.LevelDebug, core.DebugLevel},
		{slog.LevelInfo, core.InfoLevel},
		{slog.LevelWarn + 1, core.WarnLevel},
		{slog.LevelError, core.ErrorLevel},
		{slog.LevelError + 8, core.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogLevelToCore(tt.in); got != tt.want {
			t.Errorf("slogLevelToCore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestZapCore(t *testing.T) {
	var buf bytes.Buffer
	zl := zap.New(NewZapCore(newTextSink(&buf, "warn,db=debug"))).Named("db")

	zl.Debug("query", zap.String("table", "users"), zap.Int("rows", 3), zap.Duration("took", time.Second))
	zl.Info("connected", zap.Bool("tls", true), zap.Error(errors.New("retry")))
	zap.New(NewZapCore(newTextSink(&buf, "warn"))).Info("dropped")
	_ = zl.Sync()

	output := buf.String()
	for _, want := range []string{"db: query", "table=users", "rows=3", "took=1s", "tls=true", "error=retry"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output, got: %s", want, output)
		}
	}
	if strings.Contains(output, "dropped") {
		t.Errorf("info should be filtered, got: %s", output)
	}
}

func TestZapCore_WithFields(t *testing.T) {
	sink := &recordSink{level: core.InfoFilter}
	zl := zap.New(NewZapCore(sink)).With(zap.String("svc", "api"), zap.Strings("tags", []string{"a"}))

	zl.Debug("skipped")
	zl.Error("failed", zap.Float64("ratio", 0.5))

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(sink.entries))
	}
	e := sink.entries[0]
	if e.Level != core.ErrorLevel || len(e.Fields) != 3 {
		t.Fatalf("entry = %+v", e)
	}
	if e.Fields[0].StringValue() != "api" || e.Fields[1].Key != "tags" || e.Fields[2].StringValue() != "0.5" {
		t.Errorf("fields = %+v", e.Fields)
	}
}

func TestZapLevelToCore(t *testing.T) {
	tests := []struct {
		in   zapcore.Level
		want core.Level
	}{
		{zapcore.DebugLevel - 1, core.TraceLevel},
		{zapcore.DebugLevel, core.DebugLevel},
		{zapcore.InfoLevel, core.InfoLevel},
		{zapcore.WarnLevel, core.WarnLevel},
		{zapcore.ErrorLevel, core.ErrorLevel},
		{zapcore.DPanicLevel, core.ErrorLevel},
		{zapcore.PanicLevel, core.PanicLevel},
		{zapcore.FatalLevel, core.FatalLevel},
	}
	for _, tt := range tests {
		if got := zapLevelToCore(tt.in); got != tt.want {
			t.Errorf("zapLevelToCore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
