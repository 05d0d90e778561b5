package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/warren/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/warren/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/warren/internal/adapters/metrics" //nolint:depguard // Wired in app layer
	"go.trai.ch/warren/internal/adapters/pip"     //nolint:depguard // Wired in app layer
	"go.trai.ch/warren/internal/adapters/process" //nolint:depguard // Wired in app layer
	"go.trai.ch/warren/internal/adapters/venv"    //nolint:depguard // Wired in app layer
	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/warren/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ConfigNodeID,
			venv.NodeID,
			pip.NodeID,
			process.ActivatorNodeID,
			metrics.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.ConfigNodeID,
			metrics.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	envs, err := graft.Dep[ports.EnvironmentManager](ctx)
	if err != nil {
		return nil, err
	}

	installer, err := graft.Dep[ports.PackageInstaller](ctx)
	if err != nil {
		return nil, err
	}

	activator, err := graft.Dep[ports.ActivationRunner](ctx)
	if err != nil {
		return nil, err
	}

	collector, err := graft.Dep[*metrics.Collector](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(cfg, envs, installer, activator, collector, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	collector, err := graft.Dep[*metrics.Collector](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:     app,
		Logger:  log,
		Config:  cfg,
		Metrics: collector,
	}, nil
}
