package app

import (
	"go.trai.ch/warren/internal/adapters/metrics" //nolint:depguard // Wired in app layer
	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/warren/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App     *App
	Logger  ports.Logger
	Config  *domain.Config
	Metrics *metrics.Collector
}
