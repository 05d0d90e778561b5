package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/warren/internal/adapters/telemetry"
	"go.trai.ch/warren/internal/core/ports"
	"go.trai.ch/warren/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type stringer struct{}

func (stringer) String() string { return "stringer-value" }

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = telemetry.NoOpSpan{}
	var _ sdktrace.SpanProcessor = (*telemetry.LogBridge)(nil)
}

func TestOTelTracer_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	tracer := telemetry.NewOTelTracer(tp)

	_, span := tracer.Start(context.Background(), "env.create")
	span.SetAttribute("env", "data")
	span.SetAttribute("packages", 3)
	span.SetAttribute("bytes", int64(42))
	span.SetAttribute("ratio", 0.5)
	span.SetAttribute("forced", true)
	span.SetAttribute("names", []string{"numpy", "pandas"})
	span.SetAttribute("timeout", 5*time.Second)
	span.SetAttribute("custom", stringer{})
	span.SetAttribute("other", struct{ A int }{A: 1})
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "env.create", ended[0].Name())
	assert.Equal(t, codes.Unset, ended[0].Status().Code)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range ended[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "data", attrs["env"].AsString())
	assert.Equal(t, int64(3), attrs["packages"].AsInt64())
	assert.Equal(t, int64(42), attrs["bytes"].AsInt64())
	assert.InDelta(t, 0.5, attrs["ratio"].AsFloat64(), 0.0001)
	assert.True(t, attrs["forced"].AsBool())
	assert.Equal(t, []string{"numpy", "pandas"}, attrs["names"].AsStringSlice())
	assert.Equal(t, "5s", attrs["timeout"].AsString())
	assert.Equal(t, "stringer-value", attrs["custom"].AsString())
	assert.Equal(t, "{1}", attrs["other"].AsString())
}

func TestOTelSpan_RecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := telemetry.NewOTelTracer(tp).Start(context.Background(), "packages.install")
	span.RecordError(nil)
	span.RecordError(errors.New("pip exited with status 1"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "pip exited with status 1", ended[0].Status().Description)
	assert.Len(t, ended[0].Events(), 1, "only the non-nil error is recorded")
}

func TestNoOpTracer_Start(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()

	ctx := context.Background()
	got, span := tracer.Start(ctx, "test-span")
	assert.Equal(t, ctx, got)
	assert.NotNil(t, span)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	span.End()
}

func TestLogBridge_LogsFinishedSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	var got []any
	mockLogger.EXPECT().Debug("span finished", gomock.Any()).Do(func(_ string, args ...any) {
		got = args
	}).Times(1)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewLogBridge(mockLogger)))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := telemetry.NewOTelTracer(tp).Start(context.Background(), "env.delete")
	span.SetAttribute("env", "scratch")
	span.RecordError(errors.New("permission denied"))
	span.End()

	require.GreaterOrEqual(t, len(got), 8)
	assert.Equal(t, []any{"span", "env.delete"}, got[:2])
	assert.Equal(t, "duration", got[2])
	assert.Contains(t, got, "scratch")
	assert.Equal(t, []any{"error", "permission denied"}, got[len(got)-2:])
}

func TestLogBridge_NilLogger(t *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewLogBridge(nil)))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	assert.NotPanics(t, func() {
		_, span := telemetry.NewOTelTracer(tp).Start(context.Background(), "env.list")
		span.End()
	})
}

func TestNewProvider_InstallsGlobalProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug("span finished", gomock.Any()).AnyTimes()

	recorder := tracetest.NewSpanRecorder()
	tp := telemetry.NewProvider(mockLogger, recorder)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := telemetry.NewOTelTracer(tp).Start(context.Background(), "env.details")
	span.End()

	assert.Len(t, recorder.Ended(), 1)
}
