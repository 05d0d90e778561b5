package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/warren/internal/adapters/logger"
)

func TestPrettyHandler_Handle_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{name: "info level", level: slog.LevelInfo, msg: "information message", goldenName: "handler_info"},
		{name: "warn level", level: slog.LevelWarn, msg: "warning message", goldenName: "handler_warn"},
		{name: "error level", level: slog.LevelError, msg: "error message", goldenName: "handler_error"},
		{name: "debug level filtered", level: slog.LevelDebug, msg: "debug message", goldenName: "handler_debug_filtered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			handler := logger.NewPrettyHandler(buf, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			})
			lg := slog.New(handler)

			lg.Log(t.Context(), tt.level, tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_WithAttrsAndGroup(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	handler := logger.NewPrettyHandler(buf, nil)
	lg := slog.New(handler.WithAttrs([]slog.Attr{slog.String("env", "data")}).WithGroup("pip"))

	lg.Info("grouped message", "packages", 2, "tier", "bulk", "command", "pip install --no-binary=shapely -- shapely")

	g := goldie.New(t)
	g.Assert(t, "handler_group_attrs", buf.Bytes())
}

func TestPrettyHandler_AttrFormatting(t *testing.T) {
	tests := []struct {
		name string
		log  func(lg *slog.Logger)
		want string
	}{
		{
			name: "env becomes a prefix",
			log:  func(lg *slog.Logger) { lg.Info("environment deleted", "env", "scratch") },
			want: "[scratch] environment deleted\n",
		},
		{
			name: "record env overrides handler env",
			log:  func(lg *slog.Logger) { lg.With("env", "default").Info("packages installed", "env", "data", "tier", "bulk") },
			want: "[data] packages installed tier=bulk\n",
		},
		{
			name: "grouped env stays a pair",
			log:  func(lg *slog.Logger) { lg.WithGroup("req").Info("tool called", "env", "data") },
			want: "tool called req.env=data\n",
		},
		{
			name: "values needing quotes",
			log:  func(lg *slog.Logger) { lg.Info("pip failed", "stderr", "line one\nline two", "version", "") },
			want: "pip failed stderr=\"line one\\nline two\" version=\"\"\n",
		},
		{
			name: "group values flatten",
			log: func(lg *slog.Logger) {
				lg.Info("timeouts", slog.Group("timeouts", slog.Int("execMs", 30000), slog.Int("runMs", 1000)))
			},
			want: "timeouts timeouts.execMs=30000 timeouts.runMs=1000\n",
		},
		{
			name: "nested groups accumulate",
			log:  func(lg *slog.Logger) { lg.WithGroup("mcp").WithGroup("tool").Info("called", "name", "install") },
			want: "called mcp.tool.name=install\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			tt.log(slog.New(logger.NewPrettyHandler(buf, nil)))

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_LevelVar(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	level := &slog.LevelVar{}
	level.Set(slog.LevelWarn)

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}))

	lg.Info("hidden")
	level.Set(slog.LevelInfo)
	lg.Info("visible")

	g := goldie.New(t)
	g.Assert(t, "handler_levelvar", buf.Bytes())
}
