// Package logger configures the process-wide slog logger. Output is JSON
// written to a rotating file, and recent warnings and errors are kept in
// memory so the CLI can replay them on exit.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogEntry is a captured WARN or ERROR record.
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// Format renders the entry on a single line.
func (e LogEntry) Format() string {
	return fmt.Sprintf("%s %-5s %s", e.Time.Format("15:04:05"), e.Level.String(), e.Message)
}

type ringBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	head    int
	count   int

	warnCount  int
	errorCount int
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{entries: make([]LogEntry, size)}
}

func (rb *ringBuffer) add(entry LogEntry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.entries[rb.head] = entry
	rb.head = (rb.head + 1) % len(rb.entries)
	if rb.count < len(rb.entries) {
		rb.count++
	}

	if entry.Level >= slog.LevelError {
		rb.errorCount++
	} else {
		rb.warnCount++
	}
}

func (rb *ringBuffer) all() []LogEntry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	size := len(rb.entries)
	out := make([]LogEntry, rb.count)
	for i := range out {
		out[i] = rb.entries[(rb.head-rb.count+i+size)%size]
	}
	return out
}

func (rb *ringBuffer) counts() (warn, err int) {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.warnCount, rb.errorCount
}

// captureHandler forwards to inner and records WARN+ entries.
type captureHandler struct {
	inner  slog.Handler
	buffer *ringBuffer
}

func (h *captureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *captureHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		h.buffer.add(LogEntry{Time: r.Time, Level: r.Level, Message: r.Message})
	}
	return h.inner.Handle(ctx, r)
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &captureHandler{inner: h.inner.WithAttrs(attrs), buffer: h.buffer}
}

func (h *captureHandler) WithGroup(name string) slog.Handler {
	return &captureHandler{inner: h.inner.WithGroup(name), buffer: h.buffer}
}

var (
	// Log is the global structured logger.
	Log *slog.Logger
	// LogPath is the file the logger writes to.
	LogPath string

	logWriter    *lumberjack.Logger
	captured     *ringBuffer
	debugEnabled bool
)

// LogLevel is the minimum level written to the log file.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps "debug", "info", "warn" and "error" to a LogLevel.
// Unknown names fall back to LevelInfo.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultLogPath returns ~/.config/tickwise/tickwise.log, falling back to
// the temp directory when there is no home directory.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".config", "tickwise", "tickwise.log")
}

// InitLogger installs the global logger. An empty logPath selects
// DefaultLogPath.
func InitLogger(level LogLevel, logPath string) {
	debugEnabled = level == LevelDebug

	if logPath == "" {
		logPath = DefaultLogPath()
	}
	_ = os.MkdirAll(filepath.Dir(logPath), 0755)
	LogPath = logPath

	logWriter = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	}
	install(logWriter, level)
}

// InitWriter installs the global logger over an arbitrary writer. It is
// meant for tests.
func InitWriter(w io.Writer, level LogLevel) {
	debugEnabled = level == LevelDebug
	LogPath = ""
	install(w, level)
}

func install(w io.Writer, level LogLevel) {
	captured = newRingBuffer(100)
	handler := &captureHandler{
		inner:  slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level.slogLevel()}),
		buffer: captured,
	}
	Log = slog.New(handler)
	slog.SetDefault(Log)
}

// Close flushes and closes the log file.
func Close() {
	if logWriter != nil {
		_ = logWriter.Close()
	}
}

func get() *slog.Logger {
	if Log != nil {
		return Log
	}
	return slog.Default()
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	get().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	get().Error(msg, args...)
}

// With returns a logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return get().With(args...)
}

// GetCounts returns how many warnings and errors were logged.
func GetCounts() (warn, err int) {
	if captured == nil {
		return 0, 0
	}
	return captured.counts()
}

// GetEntries returns the captured WARN and ERROR entries, oldest first.
func GetEntries() []LogEntry {
	if captured == nil {
		return nil
	}
	return captured.all()
}

// IsDebugEnabled reports whether the logger was initialised at debug level.
func IsDebugEnabled() bool {
	return debugEnabled
}
