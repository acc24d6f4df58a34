package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/nuance/internal/core/domain"
	"go.trai.ch/nuance/internal/core/ports"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the config store Graft node.
const NodeID graft.ID = "adapter.config_store"

func init() {
	graft.Register(graft.Node[ports.ConfigStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ConfigStore, error) {
			userConfigDir, err := os.UserConfigDir()
			if err != nil {
				return nil, zerr.Wrap(domain.ErrConfigReadFailed, err.Error())
			}
			return NewStore(userConfigDir), nil
		},
	})
}
