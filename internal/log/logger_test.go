package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("%q: expected %v, got %v", in, want, got)
		}
	}
}

func TestLoggerWritesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Format: "json", Component: ComponentPipeline, Output: &buf})

	fields := NewFields().WithOperation(OpExtract).WithFile("a.pdf").WithError(errors.New("boom"))
	logger.Info("document failed", fields.ToSlice()...)

	out := buf.String()
	for _, want := range []string{`"component":"pipeline"`, `"operation":"extract"`, `"file":"a.pdf"`, `"error":"boom"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line %s missing %s", out, want)
		}
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Output: &buf})
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("warn should be logged, got %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	logger := Discard().WithComponent(ComponentStore)
	if logger.Component() != ComponentStore {
		t.Fatalf("unexpected component %q", logger.Component())
	}
}
