package pip

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/warren/internal/adapters/config"
	"go.trai.ch/warren/internal/adapters/logger"
	"go.trai.ch/warren/internal/adapters/metrics"
	"go.trai.ch/warren/internal/adapters/process"
	"go.trai.ch/warren/internal/adapters/telemetry"
	"go.trai.ch/warren/internal/adapters/venv"
	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/warren/internal/core/ports"
)

// NodeID is the unique identifier for the package installer Graft node.
const NodeID graft.ID = "adapter.pip"

func init() {
	graft.Register(graft.Node[ports.PackageInstaller]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ConfigNodeID,
			venv.NodeID,
			process.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			metrics.NodeID,
		},
		Run: runNode,
	})
}

func runNode(ctx context.Context) (ports.PackageInstaller, error) {
	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	envs, err := graft.Dep[ports.EnvironmentManager](ctx)
	if err != nil {
		return nil, err
	}

	runner, err := graft.Dep[ports.ProcessRunner](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	collector, err := graft.Dep[*metrics.Collector](ctx)
	if err != nil {
		return nil, err
	}

	return NewInstaller(cfg, envs, runner, log, tracer, collector), nil
}
