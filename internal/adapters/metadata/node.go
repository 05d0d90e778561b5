package metadata

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/warren/internal/adapters/config"
	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/warren/internal/core/ports"
)

// NodeID is the unique identifier for the metadata store Graft node.
const NodeID graft.ID = "adapter.metadata_store"

func init() {
	graft.Register(graft.Node[ports.MetadataStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID},
		Run: func(ctx context.Context) (ports.MetadataStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewStoreInDir(cfg.BasePath), nil
		},
	})
}
