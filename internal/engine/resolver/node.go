package resolver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nuance/internal/adapters/cache"
	"go.trai.ch/nuance/internal/adapters/logger"
	"go.trai.ch/nuance/internal/adapters/modfile"
	"go.trai.ch/nuance/internal/adapters/refs"
	"go.trai.ch/nuance/internal/core/ports"
)

// NodeID is the unique identifier for the reconciler Graft node.
const NodeID graft.ID = "engine.resolver"

func init() {
	graft.Register(graft.Node[*Reconciler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{refs.NodeID, cache.NodeID, modfile.ManifestNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Reconciler, error) {
			refResolver, err := graft.Dep[ports.RefResolver](ctx)
			if err != nil {
				return nil, err
			}
			contentCache, err := graft.Dep[ports.ContentCache](ctx)
			if err != nil {
				return nil, err
			}
			manifests, err := graft.Dep[ports.ManifestStore](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewReconciler(NewBuilder(refResolver, contentCache, manifests, log)), nil
		},
	})
}
