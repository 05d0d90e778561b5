package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/warren/internal/core/ports"
)

// LogBridge implements sdktrace.SpanProcessor and reports finished spans to a Logger at debug level.
type LogBridge struct {
	logger ports.Logger
}

// NewLogBridge returns a new LogBridge.
func NewLogBridge(logger ports.Logger) *LogBridge {
	return &LogBridge{logger: logger}
}

// OnStart does nothing; spans are reported once they end.
func (b *LogBridge) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}

	args := []any{"span", s.Name(), "duration", s.EndTime().Sub(s.StartTime()).String()}
	for _, kv := range s.Attributes() {
		args = append(args, string(kv.Key), kv.Value.Emit())
	}

	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "span failed"
		}
		args = append(args, "error", desc)
	}

	b.logger.Debug("span finished", args...)
}

// ForceFlush does nothing.
func (b *LogBridge) ForceFlush(context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *LogBridge) Shutdown(context.Context) error {
	return nil
}
