// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/warren/internal/core/ports"
)

// messager describes an error that can report its own message and metadata without the chain.
// This matches the methods provided by zerr.Error (go.trai.ch/zerr v0.3.0+).
type messager interface {
	Message() string
	Metadata() map[string]any
}

// ErrorEntry is one level of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	level    *slog.LevelVar
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger writing human-readable output to stderr at info level.
func New() ports.Logger {
	return newLogger()
}

func newLogger() *Logger {
	level := &slog.LevelVar{}
	level.Set(slog.LevelInfo)

	l := &Logger{
		level:  level,
		output: os.Stderr,
	}
	l.rebuild()
	return l
}

// SetOutput updates the logger's output destination.
// It preserves the current JSON mode and level. If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// SetLevel sets the minimum level by name. Unknown names leave the level unchanged.
func (l *Logger) SetLevel(name string) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return
	}
	l.level.Set(level)
}

// rebuild must be called with mu held.
func (l *Logger) rebuild() {
	w := l.output
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: l.level}

	var handler slog.Handler
	if l.jsonMode {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = NewPrettyHandler(w, opts)
	}
	l.logger = slog.New(handler)
}

// Debug logs a diagnostic message.
func (l *Logger) Debug(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg, args...)
}

// Info logs an informational message.
func (l *Logger) Info(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg, args...)
}

// Error logs an error together with its cause chain.
func (l *Logger) Error(err error, args ...any) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		l.logger.Error("operation failed", append([]any{"error", err}, args...)...)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)), args...)
}

// collectErrorEntries walks the chain of err. zerr levels contribute their own
// message and metadata; the first standard error contributes its full text and ends the walk.
// Levels without a message only carry metadata, which is folded into a neighbouring entry.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var pending map[string]any

	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: pending})
			break
		}

		meta := m.Metadata()
		if m.Message() == "" {
			if len(entries) > 0 {
				last := &entries[len(entries)-1]
				if last.Metadata == nil {
					last.Metadata = map[string]any{}
				}
				maps.Copy(last.Metadata, meta)
			} else {
				if pending == nil {
					pending = map[string]any{}
				}
				maps.Copy(pending, meta)
			}
			current = errors.Unwrap(current)
			continue
		}

		if pending != nil {
			maps.Copy(meta, pending)
			pending = nil
		}
		entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: meta})
		current = errors.Unwrap(current)
	}

	return entries
}

// formatErrorEntries renders entries as the main error followed by an indented "Caused by" list.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		var first, indent string
		if i == 0 {
			first = "Error: "
			indent = "       "
		} else {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			first = "    → "
			indent = "      "
		}

		lines = append(lines, first+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}

		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, indent+key+": "+formatMetadataValue(entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}

func formatMetadataValue(v any) string {
	return slog.AnyValue(v).String()
}
