package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nuance/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/nuance/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/nuance/internal/adapters/modfile"
	"go.trai.ch/nuance/internal/adapters/refs"
	"go.trai.ch/nuance/internal/core/ports"
	"go.trai.ch/nuance/internal/engine/installer"
	"go.trai.ch/nuance/internal/engine/resolver"
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
			modfile.ManifestNodeID,
			modfile.LockfileNodeID,
			config.NodeID,
			refs.NodeID,
			resolver.NodeID,
			installer.NodeID,
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
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	manifests, err := graft.Dep[ports.ManifestStore](ctx)
	if err != nil {
		return nil, err
	}

	lockfiles, err := graft.Dep[ports.LockfileStore](ctx)
	if err != nil {
		return nil, err
	}

	configStore, err := graft.Dep[ports.ConfigStore](ctx)
	if err != nil {
		return nil, err
	}

	refResolver, err := graft.Dep[ports.RefResolver](ctx)
	if err != nil {
		return nil, err
	}

	rec, err := graft.Dep[*resolver.Reconciler](ctx)
	if err != nil {
		return nil, err
	}

	inst, err := graft.Dep[*installer.Installer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(manifests, lockfiles, configStore, refResolver, rec, inst, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    application,
		Logger: log,
	}, nil
}
