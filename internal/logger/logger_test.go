package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitWriter_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelInfo)

	Debug("hidden")
	Info("chart rendered", "unit", "hr")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if rec["msg"] != "chart rendered" || rec["unit"] != "hr" {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestCapture_CountsWarningsAndErrors(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)

	Info("ignored")
	Warn("series not sorted")
	With("series", "p95").Error("save failed")

	warn, errs := GetCounts()
	if warn != 1 || errs != 1 {
		t.Errorf("counts = %d warn, %d error", warn, errs)
	}

	entries := GetEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "series not sorted" || entries[1].Level != slog.LevelError {
		t.Errorf("unexpected entries %+v", entries)
	}
	if !IsDebugEnabled() {
		t.Error("expected debug to be enabled")
	}
}

func TestRingBuffer_Wraps(t *testing.T) {
	rb := newRingBuffer(2)
	for _, msg := range []string{"a", "b", "c"} {
		rb.add(LogEntry{Level: slog.LevelWarn, Message: msg})
	}

	got := rb.all()
	if len(got) != 2 || got[0].Message != "b" || got[1].Message != "c" {
		t.Errorf("unexpected entries %+v", got)
	}
}

func TestLogEntry_Format(t *testing.T) {
	e := LogEntry{
		Time:    time.Date(2025, 1, 1, 9, 5, 7, 0, time.UTC),
		Level:   slog.LevelWarn,
		Message: "slow",
	}
	if got := e.Format(); got != "09:05:07 WARN  slow" {
		t.Errorf("Format() = %q", got)
	}
}
