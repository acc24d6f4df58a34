// Package app implements the application layer for nuance.
package app

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/nuance/internal/core/domain"
	"go.trai.ch/nuance/internal/core/ports"
	"go.trai.ch/zerr"
)

// Reconciler resolves a manifest plus prior lockfile into the graph to
// install and the lockfile state to persist (nil when nothing must be written).
type Reconciler interface {
	Reconcile(ctx context.Context, m *domain.Manifest, prior *domain.Lockfile, mode domain.Mode) (*domain.Graph, *domain.Lockfile, error)
}

// Installer materializes a resolved graph into a modules directory.
type Installer interface {
	Install(ctx context.Context, graph *domain.Graph, modulesDir string) error
}

// App wires the stores, the reconciler, and the installer behind the
// operations the CLI exposes. Project operations act on an explicit project
// directory; the global variants act on the per-user config and the global
// modules directory instead, through the same reconcile-then-install path.
type App struct {
	manifests  ports.ManifestStore
	lockfiles  ports.LockfileStore
	config     ports.ConfigStore
	refs       ports.RefResolver
	reconciler Reconciler
	installer  Installer
	logger     ports.Logger
}

// New creates a new App instance.
func New(
	manifests ports.ManifestStore,
	lockfiles ports.LockfileStore,
	config ports.ConfigStore,
	refs ports.RefResolver,
	rec Reconciler,
	inst Installer,
	logger ports.Logger,
) *App {
	return &App{
		manifests:  manifests,
		lockfiles:  lockfiles,
		config:     config,
		refs:       refs,
		reconciler: rec,
		installer:  inst,
		logger:     logger,
	}
}

// InitOptions configures Init. Name defaults to the directory name.
type InitOptions struct {
	Name        string
	Version     string
	Description string
}

// AddOptions configures Add. At most one of Tag, Branch, Rev, and Ref may be
// set; with none, the remote's latest tag is used, falling back to its
// default branch.
type AddOptions struct {
	Source string
	Tag    string
	Branch string
	Rev    string
	Ref    string
	Global bool
}

// Init creates mod.toml and a stub mod.nu in the given directory.
func (a *App) Init(dir string, opts InitOptions) error {
	if _, ok, err := a.manifests.LoadAt(domain.ManifestPath(dir)); err != nil {
		return err
	} else if ok {
		return zerr.With(zerr.Wrap(domain.ErrManifestExists, "already initialized"), "dir", dir)
	}

	name := opts.Name
	if name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return zerr.Wrap(domain.ErrManifestWriteFailed, err.Error())
		}
		name = filepath.Base(abs)
	}
	version := opts.Version
	if version == "" {
		version = "0.1.0"
	}

	m := &domain.Manifest{
		Package: domain.Package{
			Name:        name,
			Version:     version,
			Description: opts.Description,
		},
	}
	if err := a.manifests.Save(dir, m); err != nil {
		return err
	}
	a.logger.Info("created manifest", "package", name)

	entry := filepath.Join(dir, domain.EntryFileName)
	if _, err := os.Stat(entry); err == nil {
		return nil
	}
	stub := "# Module entry point\n# Export your commands here with: export use <submodule>\n"
	if err := os.WriteFile(entry, []byte(stub), domain.FilePerm); err != nil {
		return zerr.Wrap(domain.ErrManifestWriteFailed, err.Error())
	}
	a.logger.Info("created module entry point", "file", domain.EntryFileName)
	return nil
}

// Install resolves the manifest and materializes the result. With frozen set
// the lockfile is the sole source of truth: nothing is resolved and nothing
// is written back.
func (a *App) Install(ctx context.Context, dir string, frozen, global bool) error {
	ws, err := a.workspace(dir, global)
	if err != nil {
		return err
	}
	mode := domain.ModeInstall
	if frozen {
		mode = domain.ModeFrozen
	}
	return a.sync(ctx, ws, mode)
}

// Update re-resolves every dependency, refreshing branch heads and floating
// pins, then installs and rewrites the lockfile.
func (a *App) Update(ctx context.Context, dir string, global bool) error {
	ws, err := a.workspace(dir, global)
	if err != nil {
		return err
	}
	return a.sync(ctx, ws, domain.ModeUpdate)
}

// Add declares a new dependency and installs the updated dependency set.
func (a *App) Add(ctx context.Context, dir string, opts AddOptions) error {
	cfg, err := a.config.Load()
	if err != nil {
		return err
	}

	url, err := a.expandSource(opts.Source, cfg)
	if err != nil {
		return err
	}
	name := domain.RepoNameFromURL(url)
	if name == "" {
		return zerr.With(zerr.Wrap(domain.ErrInvalidSource, "cannot derive a package name"), "source", opts.Source)
	}

	ref, err := a.addRef(ctx, url, opts)
	if err != nil {
		return err
	}
	spec := domain.DependencySpec{Name: name, URL: url, Ref: ref}
	if err := spec.Validate(); err != nil {
		return err
	}

	if opts.Global {
		if _, exists := cfg.Dependencies[name]; exists {
			return zerr.With(zerr.Wrap(domain.ErrDependencyExists, "already declared globally"), "package", name)
		}
		if cfg.Dependencies == nil {
			cfg.Dependencies = make(map[string]domain.DependencySpec)
		}
		cfg.Dependencies[name] = spec
		if err := a.config.Save(cfg); err != nil {
			return err
		}
	} else {
		m, err := a.manifests.Load(dir)
		if err != nil {
			return err
		}
		if _, exists := m.Dependencies[name]; exists {
			return zerr.With(zerr.Wrap(domain.ErrDependencyExists, "already declared in manifest"), "package", name)
		}
		if m.Dependencies == nil {
			m.Dependencies = make(map[string]domain.DependencySpec)
		}
		m.Dependencies[name] = spec
		if err := a.manifests.Save(dir, m); err != nil {
			return err
		}
	}
	a.logger.Info("added dependency", "package", name, "ref", ref.String())

	ws, err := a.workspace(dir, opts.Global)
	if err != nil {
		return err
	}
	return a.sync(ctx, ws, domain.ModeInstall)
}

// Remove drops a declared dependency and re-resolves the remaining manifest,
// pruning lockfile entries and module directories no longer reachable from
// any remaining declaration.
func (a *App) Remove(ctx context.Context, dir, name string, global bool) error {
	if global {
		cfg, err := a.config.Load()
		if err != nil {
			return err
		}
		if _, ok := cfg.Dependencies[name]; !ok {
			return zerr.With(zerr.Wrap(domain.ErrDependencyNotFound, "not declared globally"), "package", name)
		}
		delete(cfg.Dependencies, name)
		if err := a.config.Save(cfg); err != nil {
			return err
		}
	} else {
		m, err := a.manifests.Load(dir)
		if err != nil {
			return err
		}
		if _, ok := m.Dependencies[name]; !ok {
			return zerr.With(zerr.Wrap(domain.ErrDependencyNotFound, "not declared in manifest"), "package", name)
		}
		delete(m.Dependencies, name)
		if err := a.manifests.Save(dir, m); err != nil {
			return err
		}
	}
	a.logger.Info("removed dependency", "package", name)

	ws, err := a.workspace(dir, global)
	if err != nil {
		return err
	}
	return a.sync(ctx, ws, domain.ModeInstall)
}

// workspace describes where one reconcile-then-install run reads and writes.
type workspace struct {
	manifest   *domain.Manifest
	lockPath   string
	modulesDir string
}

func (a *App) workspace(dir string, global bool) (workspace, error) {
	if !global {
		m, err := a.manifests.Load(dir)
		if err != nil {
			return workspace{}, err
		}
		return workspace{
			manifest:   m,
			lockPath:   domain.LockfilePath(dir),
			modulesDir: domain.ModulesDir(dir),
		}, nil
	}

	cfg, err := a.config.Load()
	if err != nil {
		return workspace{}, err
	}
	lockPath, err := a.config.LockfilePath()
	if err != nil {
		return workspace{}, err
	}
	modulesDir, err := a.config.ModulesDir(cfg)
	if err != nil {
		return workspace{}, err
	}
	return workspace{
		manifest:   cfg.Manifest(),
		lockPath:   lockPath,
		modulesDir: modulesDir,
	}, nil
}

// sync is the shared reconcile-then-install pipeline. The lockfile is written
// before installation so a failed materialization can be retried from the
// already pinned state, and only when the reconciler produced one.
func (a *App) sync(ctx context.Context, ws workspace, mode domain.Mode) error {
	prior, ok, err := a.lockfiles.Load(ws.lockPath)
	if err != nil {
		return err
	}
	if !ok {
		prior = nil
	}

	graph, lock, err := a.reconciler.Reconcile(ctx, ws.manifest, prior, mode)
	if err != nil {
		return err
	}
	if lock != nil {
		if err := a.lockfiles.Save(ws.lockPath, lock); err != nil {
			return err
		}
	}

	if err := a.installer.Install(ctx, graph, ws.modulesDir); err != nil {
		return err
	}
	a.logger.Info("install complete", "packages", graph.Len(), "dir", ws.modulesDir)
	return nil
}

// expandSource turns a source argument into a normalized git URL, expanding
// owner/repo shorthand against the configured default provider.
func (a *App) expandSource(source string, cfg *domain.GlobalConfig) (string, error) {
	base := ""
	if !domain.IsGitURL(source) {
		resolved, err := cfg.ProviderBaseURL()
		if err != nil {
			return "", err
		}
		base = resolved
	}
	return domain.ExpandSource(source, base)
}

// addRef determines the ref for a new dependency from the add flags.
func (a *App) addRef(ctx context.Context, url string, opts AddOptions) (domain.Ref, error) {
	given := 0
	for _, v := range []string{opts.Tag, opts.Branch, opts.Rev, opts.Ref} {
		if v != "" {
			given++
		}
	}
	if given > 1 {
		return domain.Ref{}, zerr.Wrap(domain.ErrManifestInvalid,
			"at most one of --tag, --branch, --rev, --ref may be given")
	}

	switch {
	case opts.Tag != "":
		return domain.TagRef(opts.Tag), nil
	case opts.Branch != "":
		return domain.BranchRef(opts.Branch), nil
	case opts.Rev != "":
		ref := domain.RevisionRef(opts.Rev)
		if err := ref.Validate(); err != nil {
			return domain.Ref{}, err
		}
		return ref, nil
	case opts.Ref != "":
		return a.refs.ResolveName(ctx, url, opts.Ref)
	}

	tag, ok, err := a.refs.LatestTag(ctx, url)
	if err != nil {
		return domain.Ref{}, err
	}
	if ok {
		return domain.TagRef(tag), nil
	}
	branch, err := a.refs.DefaultBranch(ctx, url)
	if err != nil {
		return domain.Ref{}, err
	}
	return domain.BranchRef(branch), nil
}
