// Package installer materializes a resolved dependency graph into a module
// directory and generates the activation script.
package installer

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/nuance/internal/core/domain"
	"go.trai.ch/nuance/internal/core/ports"
	"go.trai.ch/zerr"
)

// Installer copies package snapshots from the content cache into a module
// directory and keeps the activation script in sync with the graph.
//
// Installation is idempotent: every materialized package directory carries a
// pin file recording the commit it was built from, and packages whose pin
// already matches the graph are left untouched. A mismatched directory is
// replaced wholesale, never patched in place.
type Installer struct {
	cache  ports.ContentCache
	logger ports.Logger
}

// NewInstaller creates a new Installer backed by the given content cache.
func NewInstaller(cache ports.ContentCache, logger ports.Logger) *Installer {
	return &Installer{cache: cache, logger: logger}
}

// Install materializes every package of the validated graph into modulesDir,
// removes previously installed packages the graph no longer contains, and
// regenerates the activation script. An empty graph still produces the
// directory and an activation script, so a project whose last dependency was
// removed ends up clean rather than stale.
func (i *Installer) Install(ctx context.Context, graph *domain.Graph, modulesDir string) error {
	if err := os.MkdirAll(modulesDir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrInstallFailed, err.Error()), "dir", modulesDir)
	}

	for pkg := range graph.Walk() {
		if err := i.installPackage(ctx, pkg, modulesDir); err != nil {
			return err
		}
	}

	if err := i.removeStale(graph, modulesDir); err != nil {
		return err
	}

	return writeActivation(graph, modulesDir)
}

// installPackage places one package into the module directory. The snapshot
// checksum is verified against the graph's pin before anything is replaced,
// so a corrupted or tampered cache entry never reaches the module directory.
func (i *Installer) installPackage(ctx context.Context, pkg domain.ResolvedPackage, modulesDir string) error {
	dest := filepath.Join(modulesDir, pkg.Name)

	if installedCommit(dest) == pkg.Commit {
		return nil
	}

	snapshot, err := i.cache.Ensure(ctx, pkg.URL, pkg.Commit)
	if err != nil {
		return err
	}
	if pkg.Checksum != "" && snapshot.Checksum != pkg.Checksum {
		err := zerr.Wrap(domain.ErrContentMismatch, "cached content does not match the lockfile pin")
		err = zerr.With(err, "package", pkg.Name)
		err = zerr.With(err, "locked", pkg.Checksum)
		return zerr.With(err, "cached", snapshot.Checksum)
	}

	if err := os.RemoveAll(dest); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrInstallFailed, err.Error()), "package", pkg.Name)
	}
	if err := copyTree(snapshot.Path, dest); err != nil {
		return zerr.With(err, "package", pkg.Name)
	}

	pinPath := filepath.Join(dest, domain.PinFileName)
	if err := os.WriteFile(pinPath, []byte(pkg.Commit+"\n"), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrInstallFailed, err.Error()), "package", pkg.Name)
	}

	i.logger.Info("installed", "package", pkg.Name, "commit", shortCommit(pkg.Commit))
	return nil
}

// removeStale deletes module directories no longer present in the graph.
// Only directories carrying a pin file are touched: anything else in the
// module directory was not installed by us and is left alone.
func (i *Installer) removeStale(graph *domain.Graph, modulesDir string) error {
	entries, err := os.ReadDir(modulesDir)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrInstallFailed, err.Error()), "dir", modulesDir)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, ok := graph.Package(entry.Name()); ok {
			continue
		}

		dir := filepath.Join(modulesDir, entry.Name())
		if installedCommit(dir) == "" {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return zerr.With(zerr.Wrap(domain.ErrInstallFailed, err.Error()), "package", entry.Name())
		}
		i.logger.Info("removed", "package", entry.Name())
	}
	return nil
}

// installedCommit reads the pin file of a materialized package directory.
// It returns "" when the directory or its pin is absent or unreadable, which
// callers treat as "not installed".
func installedCommit(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, domain.PinFileName))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// copyTree copies a snapshot tree into dest, preserving the executable bit.
// Snapshots contain regular files and directories only.
func copyTree(src, dest string) error {
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		if d.IsDir() {
			return os.MkdirAll(target, domain.DirPerm)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, target, info.Mode().Perm())
	})
	if err != nil {
		return zerr.Wrap(domain.ErrInstallFailed, err.Error())
	}
	return nil
}

func copyFile(src, dest string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func shortCommit(commit string) string {
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}
