// Package config reads and writes the per-user global configuration.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/nuance/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.ConfigStore, backed by
// <user config dir>/nuance/config.toml.
type Store struct {
	configDir string
}

// NewStore creates a config store under the given user config directory
// (typically os.UserConfigDir).
func NewStore(userConfigDir string) *Store {
	return &Store{configDir: domain.GlobalConfigDir(userConfigDir)}
}

// configDoc is the on-disk shape of config.toml.
type configDoc struct {
	DefaultGitProvider string                   `toml:"default_git_provider,omitempty"`
	ModulesDir         string                   `toml:"modules_dir,omitempty"`
	Dependencies       map[string]dependencyDoc `toml:"dependencies,omitempty"`
}

type dependencyDoc struct {
	Git    string `toml:"git"`
	Tag    string `toml:"tag,omitempty"`
	Branch string `toml:"branch,omitempty"`
	Rev    string `toml:"rev,omitempty"`
}

// Load reads the global config, returning defaults when none exists.
func (s *Store) Load() (*domain.GlobalConfig, error) {
	path := filepath.Join(s.configDir, domain.GlobalConfigFileName)

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &domain.GlobalConfig{
				DefaultGitProvider: domain.DefaultGitProvider,
				Dependencies:       map[string]domain.DependencySpec{},
			}, nil
		}
		return nil, zerr.Wrap(domain.ErrConfigReadFailed, err.Error())
	}

	var doc configDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
	}

	cfg := &domain.GlobalConfig{
		DefaultGitProvider: doc.DefaultGitProvider,
		ModulesDir:         doc.ModulesDir,
		Dependencies:       make(map[string]domain.DependencySpec, len(doc.Dependencies)),
	}
	if cfg.DefaultGitProvider == "" {
		cfg.DefaultGitProvider = domain.DefaultGitProvider
	}

	for name, dep := range doc.Dependencies {
		ref, err := dep.ref()
		if err != nil {
			return nil, zerr.With(zerr.With(err, "path", path), "dependency", name)
		}
		cfg.Dependencies[name] = domain.DependencySpec{Name: name, URL: dep.Git, Ref: ref}
	}
	return cfg, nil
}

// Save writes the global config back to disk.
func (s *Store) Save(cfg *domain.GlobalConfig) error {
	doc := configDoc{
		DefaultGitProvider: cfg.DefaultGitProvider,
		ModulesDir:         cfg.ModulesDir,
	}
	if len(cfg.Dependencies) > 0 {
		doc.Dependencies = make(map[string]dependencyDoc, len(cfg.Dependencies))
		for name, dep := range cfg.Dependencies {
			d := dependencyDoc{Git: dep.URL}
			switch dep.Ref.Kind {
			case domain.RefTag:
				d.Tag = dep.Ref.Value
			case domain.RefBranch:
				d.Branch = dep.Ref.Value
			case domain.RefRevision:
				d.Rev = dep.Ref.Value
			}
			doc.Dependencies[name] = d
		}
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return zerr.Wrap(domain.ErrConfigWriteFailed, err.Error())
	}

	if err := os.MkdirAll(s.configDir, domain.DirPerm); err != nil {
		return zerr.Wrap(domain.ErrConfigWriteFailed, err.Error())
	}
	path := filepath.Join(s.configDir, domain.GlobalConfigFileName)
	if err := writeFileAtomic(path, data); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigWriteFailed, err.Error()), "path", path)
	}
	return nil
}

// writeFileAtomic replaces path via a temporary sibling and rename, so a
// crashed write never leaves a truncated config behind.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ModulesDir returns the directory global modules install into: the
// configured override, or the Nushell vendor autoload location.
func (s *Store) ModulesDir(cfg *domain.GlobalConfig) (string, error) {
	if cfg.ModulesDir != "" {
		return cfg.ModulesDir, nil
	}
	// The default lives under the same root the config dir was derived from.
	return domain.DefaultGlobalModulesDir(filepath.Dir(s.configDir)), nil
}

// LockfilePath returns the path of the global lockfile.
func (s *Store) LockfilePath() (string, error) {
	return filepath.Join(s.configDir, domain.GlobalLockFileName), nil
}

// ref maps the tag/branch/rev keys to a domain ref, requiring exactly one.
func (d dependencyDoc) ref() (domain.Ref, error) {
	var refs []domain.Ref
	if d.Tag != "" {
		refs = append(refs, domain.TagRef(d.Tag))
	}
	if d.Branch != "" {
		refs = append(refs, domain.BranchRef(d.Branch))
	}
	if d.Rev != "" {
		refs = append(refs, domain.RevisionRef(d.Rev))
	}

	switch len(refs) {
	case 0:
		return domain.Ref{}, zerr.Wrap(domain.ErrConfigReadFailed, "dependency needs one of tag, branch or rev")
	case 1:
		return refs[0], nil
	default:
		return domain.Ref{}, zerr.Wrap(domain.ErrConfigReadFailed, "dependency declares more than one of tag, branch and rev")
	}
}
