package installer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nuance/internal/adapters/cache"
	"go.trai.ch/nuance/internal/adapters/logger"
	"go.trai.ch/nuance/internal/core/ports"
)

// NodeID is the unique identifier for the installer Graft node.
const NodeID graft.ID = "engine.installer"

func init() {
	graft.Register(graft.Node[*Installer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{cache.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Installer, error) {
			contentCache, err := graft.Dep[ports.ContentCache](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewInstaller(contentCache, log), nil
		},
	})
}
