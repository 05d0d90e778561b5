// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/warren/internal/adapters/config"
	_ "go.trai.ch/warren/internal/adapters/lock"
	_ "go.trai.ch/warren/internal/adapters/logger"
	_ "go.trai.ch/warren/internal/adapters/metadata"
	_ "go.trai.ch/warren/internal/adapters/metrics"
	_ "go.trai.ch/warren/internal/adapters/pip"
	_ "go.trai.ch/warren/internal/adapters/process"
	_ "go.trai.ch/warren/internal/adapters/telemetry"
	_ "go.trai.ch/warren/internal/adapters/venv"
	// Register app nodes.
	_ "go.trai.ch/warren/internal/app"
)
