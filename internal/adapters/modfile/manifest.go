// Package modfile reads and writes the project manifest (mod.toml) and
// lockfile (mod.lock).
package modfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/nuance/internal/core/domain"
	"go.trai.ch/zerr"
)

// ManifestStore implements ports.ManifestStore on the local filesystem.
type ManifestStore struct{}

// NewManifestStore creates a new ManifestStore.
func NewManifestStore() *ManifestStore {
	return &ManifestStore{}
}

// manifestDoc is the on-disk shape of mod.toml.
type manifestDoc struct {
	Package      packageDoc               `toml:"package"`
	Dependencies map[string]dependencyDoc `toml:"dependencies,omitempty"`
}

type packageDoc struct {
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	Description string   `toml:"description,omitempty"`
	License     string   `toml:"license,omitempty"`
	Authors     []string `toml:"authors,omitempty"`
}

type dependencyDoc struct {
	Git    string `toml:"git"`
	Tag    string `toml:"tag,omitempty"`
	Branch string `toml:"branch,omitempty"`
	Rev    string `toml:"rev,omitempty"`
}

// Load reads and validates the manifest in the given project directory.
func (s *ManifestStore) Load(projectDir string) (*domain.Manifest, error) {
	m, ok, err := s.LoadAt(domain.ManifestPath(projectDir))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrManifestNotFound, "no mod.toml in directory"), "dir", projectDir)
	}
	return m, nil
}

// LoadAt reads and validates a manifest at an explicit file path, reporting
// ok=false without error when the file does not exist.
func (s *ManifestStore) LoadAt(path string) (*domain.Manifest, bool, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, zerr.Wrap(domain.ErrManifestReadFailed, err.Error())
	}

	var doc manifestDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, false, zerr.With(zerr.Wrap(domain.ErrManifestInvalid, err.Error()), "path", path)
	}

	m, err := doc.toDomain()
	if err != nil {
		return nil, false, zerr.With(err, "path", path)
	}
	if err := m.Validate(); err != nil {
		return nil, false, zerr.With(err, "path", path)
	}
	return m, true, nil
}

// Save writes the manifest into the project directory.
func (s *ManifestStore) Save(projectDir string, m *domain.Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}

	data, err := toml.Marshal(fromDomainManifest(m))
	if err != nil {
		return zerr.Wrap(domain.ErrManifestWriteFailed, err.Error())
	}

	path := domain.ManifestPath(projectDir)
	if err := writeFileAtomic(path, data); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrManifestWriteFailed, err.Error()), "path", path)
	}
	return nil
}

func (d *manifestDoc) toDomain() (*domain.Manifest, error) {
	m := &domain.Manifest{
		Package: domain.Package{
			Name:        d.Package.Name,
			Version:     d.Package.Version,
			Description: d.Package.Description,
			License:     d.Package.License,
			Authors:     d.Package.Authors,
		},
		Dependencies: make(map[string]domain.DependencySpec, len(d.Dependencies)),
	}

	for name, dep := range d.Dependencies {
		ref, err := dep.ref()
		if err != nil {
			return nil, zerr.With(err, "dependency", name)
		}
		m.Dependencies[name] = domain.DependencySpec{
			Name: name,
			URL:  dep.Git,
			Ref:  ref,
		}
	}
	return m, nil
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
		return domain.Ref{}, zerr.Wrap(domain.ErrManifestInvalid, "dependency needs one of tag, branch or rev")
	case 1:
		return refs[0], nil
	default:
		return domain.Ref{}, zerr.Wrap(domain.ErrManifestInvalid, "dependency declares more than one of tag, branch and rev")
	}
}

func fromDomainManifest(m *domain.Manifest) manifestDoc {
	doc := manifestDoc{
		Package: packageDoc{
			Name:        m.Package.Name,
			Version:     m.Package.Version,
			Description: m.Package.Description,
			License:     m.Package.License,
			Authors:     m.Package.Authors,
		},
	}
	if len(m.Dependencies) == 0 {
		return doc
	}

	doc.Dependencies = make(map[string]dependencyDoc, len(m.Dependencies))
	for name, dep := range m.Dependencies {
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
	return doc
}
