// Package resolver builds the resolved dependency graph for a manifest,
// reconciling it against the prior lockfile.
package resolver

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/nuance/internal/core/domain"
	"go.trai.ch/nuance/internal/core/ports"
	"go.trai.ch/zerr"
)

// defaultWorkers bounds concurrent per-node resolution work.
const defaultWorkers = 8

// Builder resolves a manifest's dependency closure into a graph of pinned
// packages.
type Builder struct {
	refs      ports.RefResolver
	cache     ports.ContentCache
	manifests ports.ManifestStore
	logger    ports.Logger
	workers   int
}

// NewBuilder creates a new Builder.
func NewBuilder(refs ports.RefResolver, cache ports.ContentCache, manifests ports.ManifestStore, logger ports.Logger) *Builder {
	return &Builder{
		refs:      refs,
		cache:     cache,
		manifests: manifests,
		logger:    logger,
		workers:   defaultWorkers,
	}
}

// Build resolves the manifest's declared and transitive dependencies under
// the given mode and returns the validated graph.
//
// Nodes are processed breadth-first: each frontier resolves concurrently
// under a bounded worker limit, and a package's own dependencies join the
// next frontier only once its content is available. Resolution failures are
// collected across the whole frontier; a dependency conflict is fatal
// immediately and cancels in-flight siblings.
func (b *Builder) Build(ctx context.Context, m *domain.Manifest, prior *domain.Lockfile, mode domain.Mode) (*domain.Graph, error) {
	if mode == domain.ModeFrozen {
		return b.buildFrozen(m, prior)
	}

	graph := domain.NewGraph()
	visited := make(map[string]bool)

	var mu sync.Mutex

	frontier := m.SortedDependencies()
	for len(frontier) > 0 {
		specs := dedupe(frontier, visited)
		frontier = nil

		var nodeErrs []error

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(b.workers)

		for _, spec := range specs {
			g.Go(func() error {
				node, children, err := b.resolveOne(gctx, spec, prior, mode)
				if err != nil {
					mu.Lock()
					nodeErrs = append(nodeErrs, zerr.With(err, "dependency", spec.Name))
					mu.Unlock()
					return nil
				}

				mu.Lock()
				defer mu.Unlock()
				if err := graph.Add(node); err != nil {
					// A conflict poisons the whole resolution.
					return err
				}
				frontier = append(frontier, children...)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
		if len(nodeErrs) > 0 {
			return nil, errors.Join(nodeErrs...)
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, err
	}
	return graph, nil
}

// resolveOne pins a single dependency spec to a commit, materializes its
// content, and reads its own manifest for transitive dependencies.
func (b *Builder) resolveOne(ctx context.Context, spec domain.DependencySpec, prior *domain.Lockfile, mode domain.Mode) (domain.ResolvedPackage, []domain.DependencySpec, error) {
	url := domain.NormalizeURL(spec.URL)

	commit, lockedChecksum, reused := b.priorPin(spec.Name, url, spec.Ref, prior, mode)
	if !reused {
		var err error
		commit, err = b.refs.Resolve(ctx, url, spec.Ref)
		if err != nil {
			return domain.ResolvedPackage{}, nil, err
		}
		b.logger.Info("resolved", "name", spec.Name, "ref", spec.Ref.String(), "commit", commit)
	}

	snapshot, err := b.cache.Ensure(ctx, url, commit)
	if err != nil {
		return domain.ResolvedPackage{}, nil, err
	}
	if reused && lockedChecksum != "" && lockedChecksum != snapshot.Checksum {
		err := zerr.Wrap(domain.ErrContentMismatch, "reused pin no longer matches cached content")
		err = zerr.With(err, "commit", commit)
		err = zerr.With(err, "locked", lockedChecksum)
		return domain.ResolvedPackage{}, nil, zerr.With(err, "cached", snapshot.Checksum)
	}

	children, childNames, err := b.childDependencies(snapshot.Path)
	if err != nil {
		return domain.ResolvedPackage{}, nil, err
	}

	node := domain.ResolvedPackage{
		Name:         spec.Name,
		URL:          url,
		Ref:          spec.Ref,
		Commit:       commit,
		Checksum:     snapshot.Checksum,
		Dependencies: childNames,
	}
	return node, children, nil
}

// priorPin decides whether the prior lockfile's pin may be reused: only in
// install mode, and only when the locked entry matches the spec's URL and
// satisfies its ref. Update mode re-resolves everything.
func (b *Builder) priorPin(name, url string, ref domain.Ref, prior *domain.Lockfile, mode domain.Mode) (commit, checksum string, ok bool) {
	if mode != domain.ModeInstall || prior == nil {
		return "", "", false
	}
	locked := prior.Find(name)
	if locked == nil || locked.URL != url || !locked.Satisfies(ref) {
		return "", "", false
	}
	return locked.Commit, locked.Checksum, true
}

// childDependencies reads the dependency's own manifest from its snapshot.
// A snapshot without a manifest is a plain module with no dependencies.
func (b *Builder) childDependencies(snapshotPath string) ([]domain.DependencySpec, []string, error) {
	childManifest, ok, err := b.manifests.LoadAt(filepath.Join(snapshotPath, domain.ManifestFileName))
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, nil
	}

	children := childManifest.SortedDependencies()
	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, c.Name)
	}
	return children, names, nil
}

// buildFrozen reproduces the graph purely from the lockfile. It never touches
// the resolver or the cache: missing or mismatched pins fail with
// ErrLockfileIncomplete, and locked entries unreachable from the manifest
// fail with ErrLockfileInconsistent.
func (b *Builder) buildFrozen(m *domain.Manifest, prior *domain.Lockfile) (*domain.Graph, error) {
	graph := domain.NewGraph()
	reachable := make(map[string]bool)

	var queue []string
	for _, spec := range m.SortedDependencies() {
		url := domain.NormalizeURL(spec.URL)

		var locked *domain.LockedPackage
		if prior != nil {
			locked = prior.Find(spec.Name)
		}
		if locked == nil || locked.URL != url || !locked.Satisfies(spec.Ref) {
			return nil, zerr.With(zerr.Wrap(domain.ErrLockfileIncomplete,
				"manifest entry has no matching pin"), "dependency", spec.Name)
		}

		if !reachable[spec.Name] {
			reachable[spec.Name] = true
			queue = append(queue, spec.Name)
		}
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		locked := prior.Find(name)
		if locked == nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrLockfileIncomplete,
				"pinned dependency missing from lockfile"), "dependency", name)
		}

		if err := graph.Add(domain.ResolvedPackage{
			Name:         locked.Name,
			URL:          locked.URL,
			Ref:          locked.Ref,
			Commit:       locked.Commit,
			Checksum:     locked.Checksum,
			Dependencies: locked.Dependencies,
		}); err != nil {
			return nil, err
		}

		for _, dep := range locked.Dependencies {
			if !reachable[dep] {
				reachable[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	if prior != nil {
		var stale []string
		for _, locked := range prior.Packages {
			if !reachable[locked.Name] {
				stale = append(stale, locked.Name)
			}
		}
		if len(stale) > 0 {
			sort.Strings(stale)
			return nil, zerr.With(zerr.Wrap(domain.ErrLockfileInconsistent,
				"lockfile pins packages unreachable from the manifest"), "stale", strings.Join(stale, ", "))
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, err
	}
	return graph, nil
}

// dedupe drops specs already scheduled in a previous frontier. The key covers
// name, URL and ref so conflicting re-declarations still resolve and surface
// as conflicts instead of being skipped.
func dedupe(specs []domain.DependencySpec, visited map[string]bool) []domain.DependencySpec {
	out := specs[:0]
	for _, spec := range specs {
		key := spec.Name + "\x00" + domain.NormalizeURL(spec.URL) + "\x00" + spec.Ref.String()
		if visited[key] {
			continue
		}
		visited[key] = true
		out = append(out, spec)
	}
	return out
}
