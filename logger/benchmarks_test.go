package logger

import (
	"io"
	"testing"

	"github.com/philipp01105/swaplog/envlog"
)

func discardSink(directives, format string) *envlog.Logger {
	return envlog.NewBuilder().
		Target(io.Discard).
		WriteStyle(envlog.StyleNever).
		Format(format).
		Parse(directives).
		Build()
}

// BenchmarkInfoNoFields benchmarks Info() with no fields using a discard writer.
func BenchmarkInfoNoFields(b *testing.B) {
	sink := discardSink("info", "text")
	defer sink.Close()

	logger := NewBuilder().WithSink(sink).Build()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		logger.Info("test message")
	}
}

// BenchmarkInfoWith2Fields benchmarks Info() with 2 string fields using a discard writer.
func BenchmarkInfoWith2Fields(b *testing.B) {
	sink := discardSink("info", "text")
	defer sink.Close()

	logger := NewBuilder().WithSink(sink).Build()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		logger.Info("test message", String("key1", "value1"), String("key2", "value2"))
	}
}

// BenchmarkFilteredTarget benchmarks a record rejected by a target directive.
func BenchmarkFilteredTarget(b *testing.B) {
	sink := discardSink("info,app/db=error", "text")
	defer sink.Close()

	logger := NewBuilder().WithSink(sink).WithTarget("app/db/query").Build()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		logger.Info("filtered", String("key", "value"))
	}
}

// BenchmarkJSON benchmarks Info() with JSON formatter.
func BenchmarkJSON(b *testing.B) {
	sink := discardSink("info", "json")
	defer sink.Close()

	logger := NewBuilder().WithSink(sink).Build()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		logger.Info("test message", String("key1", "value1"), String("key2", "value2"))
	}
}
