package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/warren/internal/ui/output"
	"go.trai.ch/warren/internal/ui/style"
)

// envKey is the attribute naming the environment a record concerns. Outside any group it
// is shown as a "[name]" prefix instead of a key=value pair.
const envKey = "env"

// PrettyHandler is a slog.Handler that renders records as single colored lines using the
// shared UI components.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	env   string
	attrs []string
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
// A Leveler in opts is consulted on every record, so a *slog.LevelVar can change it later.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var prefix string
	var color termenv.Color

	switch {
	case r.Level >= slog.LevelError:
		prefix = style.Cross + " "
		color = termenv.RGBColor(string(style.Red))
	case r.Level >= slog.LevelWarn:
		prefix = style.Warning + " "
		color = termenv.RGBColor(string(style.Yellow))
	case r.Level >= slog.LevelInfo:
		color = termenv.RGBColor(string(style.Slate))
	default:
		prefix = style.Dot + " "
		color = termenv.RGBColor(string(style.Iris))
	}

	env := h.env
	parts := slices.Clone(h.attrs)
	r.Attrs(func(attr slog.Attr) bool {
		if h.group == "" && attr.Key == envKey {
			env = attr.Value.String()
			return true
		}
		parts = appendAttr(parts, h.group, attr)
		return true
	})

	var b strings.Builder
	b.WriteString(prefix)
	if env != "" {
		b.WriteString("[" + env + "] ")
	}
	b.WriteString(r.Message)
	for _, part := range parts {
		b.WriteString(" " + part)
	}

	styled := h.out.String(b.String()).Foreground(color)
	_, err := h.out.WriteString(styled.String() + "\n")

	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
// Attributes are qualified by the group that is open when they are added.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, attr := range attrs {
		if h.group == "" && attr.Key == envKey {
			next.env = attr.Value.String()
			continue
		}
		next.attrs = appendAttr(next.attrs, h.group, attr)
	}
	return next
}

// WithGroup returns a new Handler that nests subsequent attributes under name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.group = qualify(h.group, name)
	return next
}

func (h *PrettyHandler) clone() *PrettyHandler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		env:   h.env,
		attrs: slices.Clip(h.attrs),
		group: h.group,
	}
}

// appendAttr renders attr as key=value, flattening group values into dotted keys.
func appendAttr(parts []string, group string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return parts
	}
	if attr.Value.Kind() == slog.KindGroup {
		inner := qualify(group, attr.Key)
		for _, a := range attr.Value.Group() {
			parts = appendAttr(parts, inner, a)
		}
		return parts
	}
	return append(parts, qualify(group, attr.Key)+"="+formatValue(attr.Value))
}

func qualify(group, key string) string {
	switch {
	case group == "":
		return key
	case key == "":
		return group
	default:
		return group + "." + key
	}
}

// formatValue quotes values that would otherwise be ambiguous on a key=value line,
// such as commands with arguments and multi-line stderr excerpts.
func formatValue(v slog.Value) string {
	s := v.String()
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
