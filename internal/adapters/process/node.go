package process

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/warren/internal/adapters/logger"
	"go.trai.ch/warren/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the process runner Graft node.
	NodeID graft.ID = "adapter.process_runner"
	// ActivatorNodeID is the unique identifier for the activation runner Graft node.
	ActivatorNodeID graft.ID = "adapter.activation_runner"
)

func init() {
	graft.Register(graft.Node[ports.ProcessRunner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ProcessRunner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewRunner(log), nil
		},
	})

	graft.Register(graft.Node[ports.ActivationRunner]{
		ID:        ActivatorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.ActivationRunner, error) {
			runner, err := graft.Dep[ports.ProcessRunner](ctx)
			if err != nil {
				return nil, err
			}
			return NewActivator(runner), nil
		},
	})
}
