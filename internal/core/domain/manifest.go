package domain

import (
	"sort"

	"go.trai.ch/zerr"
)

// Package is the [package] section of a manifest.
type Package struct {
	Name        string
	Version     string
	Description string
	License     string
	Authors     []string
}

// DependencySpec is a single declared dependency: a git source plus exactly
// one ref kind.
type DependencySpec struct {
	// Name is the package name, unique within a manifest.
	Name string
	// URL is the git repository URL, normalized via NormalizeURL.
	URL string
	// Ref is the declared tag, branch, or revision.
	Ref Ref
}

// Validate checks that the spec has a source and exactly one well-formed ref.
func (s DependencySpec) Validate() error {
	if s.Name == "" {
		return zerr.Wrap(ErrManifestInvalid, "dependency with empty name")
	}
	if s.URL == "" {
		return zerr.With(zerr.Wrap(ErrManifestInvalid, "dependency missing git source"), "dependency", s.Name)
	}
	if err := s.Ref.Validate(); err != nil {
		return zerr.With(err, "dependency", s.Name)
	}
	return nil
}

// Manifest is the in-memory representation of a project's mod.toml.
type Manifest struct {
	Package      Package
	Dependencies map[string]DependencySpec
}

// Validate checks the package metadata and every dependency spec. It is run
// after parsing and before any resolution, so malformed manifests fail before
// any network access.
func (m *Manifest) Validate() error {
	if m.Package.Name == "" {
		return zerr.Wrap(ErrManifestInvalid, "package name cannot be empty")
	}
	if m.Package.Version == "" {
		return zerr.Wrap(ErrManifestInvalid, "package version cannot be empty")
	}
	for name, spec := range m.Dependencies {
		if spec.Name != "" && spec.Name != name {
			return zerr.With(zerr.Wrap(ErrManifestInvalid, "dependency name mismatch"), "dependency", name)
		}
		spec.Name = name
		if err := spec.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SortedDependencies returns the declared dependency specs ordered by name.
// Map iteration order is random; every consumer that needs determinism goes
// through this accessor.
func (m *Manifest) SortedDependencies() []DependencySpec {
	specs := make([]DependencySpec, 0, len(m.Dependencies))
	for name, spec := range m.Dependencies {
		spec.Name = name
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}
