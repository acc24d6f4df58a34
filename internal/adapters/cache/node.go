package cache

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/nuance/internal/adapters/git"
	"go.trai.ch/nuance/internal/adapters/logger"
	"go.trai.ch/nuance/internal/core/domain"
	"go.trai.ch/nuance/internal/core/ports"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the content cache Graft node.
const NodeID graft.ID = "adapter.cache"

func init() {
	graft.Register(graft.Node[ports.ContentCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{git.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ContentCache, error) {
			client, err := graft.Dep[ports.GitClient](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			userCache, err := os.UserCacheDir()
			if err != nil {
				return nil, zerr.Wrap(domain.ErrCacheCreateFailed, err.Error())
			}
			return NewStore(domain.ContentCacheDir(userCache), client, log)
		},
	})
}
