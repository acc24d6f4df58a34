package modfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nuance/internal/core/ports"
)

const (
	// ManifestNodeID is the unique identifier for the manifest store Graft node.
	ManifestNodeID graft.ID = "adapter.manifest_store"
	// LockfileNodeID is the unique identifier for the lockfile store Graft node.
	LockfileNodeID graft.ID = "adapter.lockfile_store"
)

func init() {
	graft.Register(graft.Node[ports.ManifestStore]{
		ID:        ManifestNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ManifestStore, error) {
			return NewManifestStore(), nil
		},
	})

	graft.Register(graft.Node[ports.LockfileStore]{
		ID:        LockfileNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.LockfileStore, error) {
			return NewLockfileStore(), nil
		},
	})
}
