package resolver

import (
	"context"

	"go.trai.ch/nuance/internal/core/domain"
)

// Reconciler turns a manifest plus prior lockfile into the graph to install
// and the lockfile state to persist.
//
// Write discipline per mode: install and update always produce a lockfile,
// even when resolution changed nothing, so a partially written or manually
// edited file is repaired; frozen never produces one.
type Reconciler struct {
	builder *Builder
}

// NewReconciler creates a new Reconciler.
func NewReconciler(builder *Builder) *Reconciler {
	return &Reconciler{builder: builder}
}

// Reconcile resolves the manifest under the given mode. The returned lockfile
// is nil when the caller must not write one.
func (r *Reconciler) Reconcile(ctx context.Context, m *domain.Manifest, prior *domain.Lockfile, mode domain.Mode) (*domain.Graph, *domain.Lockfile, error) {
	graph, err := r.builder.Build(ctx, m, prior, mode)
	if err != nil {
		return nil, nil, err
	}

	if mode == domain.ModeFrozen {
		return graph, nil, nil
	}
	return graph, graph.Lockfile(), nil
}
