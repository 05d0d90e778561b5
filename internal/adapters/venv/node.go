package venv

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/warren/internal/adapters/config"
	"go.trai.ch/warren/internal/adapters/lock"
	"go.trai.ch/warren/internal/adapters/logger"
	"go.trai.ch/warren/internal/adapters/metadata"
	"go.trai.ch/warren/internal/adapters/process"
	"go.trai.ch/warren/internal/adapters/telemetry"
	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/warren/internal/core/ports"
)

// NodeID is the unique identifier for the environment manager Graft node.
const NodeID graft.ID = "adapter.venv"

func init() {
	graft.Register(graft.Node[ports.EnvironmentManager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ConfigNodeID,
			lock.NodeID,
			process.NodeID,
			metadata.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runNode,
	})
}

func runNode(ctx context.Context) (ports.EnvironmentManager, error) {
	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	locker, err := graft.Dep[ports.Locker](ctx)
	if err != nil {
		return nil, err
	}

	runner, err := graft.Dep[ports.ProcessRunner](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.MetadataStore](ctx)
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

	return NewManager(cfg, locker, runner, store, log, tracer), nil
}
