package refs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nuance/internal/adapters/git"
	"go.trai.ch/nuance/internal/core/ports"
)

// NodeID is the unique identifier for the ref resolver Graft node.
const NodeID graft.ID = "adapter.refs"

func init() {
	graft.Register(graft.Node[ports.RefResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{git.NodeID},
		Run: func(ctx context.Context) (ports.RefResolver, error) {
			client, err := graft.Dep[ports.GitClient](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(client), nil
		},
	})
}
