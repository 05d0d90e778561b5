package ports

import (
	"context"
	"time"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string) (context.Context, Span)
}

// Span represents a unit of work.
type Span interface {
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// Metrics records operation outcomes.
type Metrics interface {
	// ObserveOperation records one finished operation with its boundary status.
	ObserveOperation(op, status string, elapsed time.Duration)
	// ObserveInstallTier records that an install tier ran and how it ended.
	ObserveInstallTier(tier, outcome string)
}
