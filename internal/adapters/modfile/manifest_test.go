package modfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/nuance/internal/adapters/modfile"
	"go.trai.ch/nuance/internal/core/domain"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ManifestFileName), []byte(content), 0o644))
}

func TestManifestStore_Load(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
name = "my-tool"
version = "0.1.0"
description = "a tool"
license = "MIT"
authors = ["a@example.com"]

[dependencies.http-kit]
git = "https://github.com/someuser/http-kit"
tag = "v1.0.0"

[dependencies.str-extras]
git = "https://github.com/someuser/str-extras"
branch = "main"
`)

	m, err := modfile.NewManifestStore().Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "my-tool", m.Package.Name)
	assert.Equal(t, "0.1.0", m.Package.Version)
	assert.Equal(t, "MIT", m.Package.License)
	assert.Equal(t, []string{"a@example.com"}, m.Package.Authors)

	require.Len(t, m.Dependencies, 2)
	assert.Equal(t, domain.TagRef("v1.0.0"), m.Dependencies["http-kit"].Ref)
	assert.Equal(t, domain.BranchRef("main"), m.Dependencies["str-extras"].Ref)
	assert.Equal(t, "https://github.com/someuser/http-kit", m.Dependencies["http-kit"].URL)
}

func TestManifestStore_Load_NotFound(t *testing.T) {
	t.Parallel()
	_, err := modfile.NewManifestStore().Load(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrManifestNotFound)
}

func TestManifestStore_Load_RejectsMissingRef(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
name = "my-tool"
version = "0.1.0"

[dependencies.bare]
git = "https://github.com/someuser/bare"
`)

	_, err := modfile.NewManifestStore().Load(dir)
	assert.ErrorIs(t, err, domain.ErrManifestInvalid)
}

func TestManifestStore_Load_RejectsMultipleRefs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
name = "my-tool"
version = "0.1.0"

[dependencies.torn]
git = "https://github.com/someuser/torn"
tag = "v1.0.0"
branch = "main"
`)

	_, err := modfile.NewManifestStore().Load(dir)
	assert.ErrorIs(t, err, domain.ErrManifestInvalid)
}

func TestManifestStore_Load_RejectsMalformedTOML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeManifest(t, dir, "[package\nname =")

	_, err := modfile.NewManifestStore().Load(dir)
	assert.ErrorIs(t, err, domain.ErrManifestInvalid)
}

func TestManifestStore_SaveLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := modfile.NewManifestStore()

	m := &domain.Manifest{
		Package: domain.Package{Name: "my-tool", Version: "0.1.0"},
		Dependencies: map[string]domain.DependencySpec{
			"http-kit": {
				Name: "http-kit",
				URL:  "https://github.com/someuser/http-kit",
				Ref:  domain.RevisionRef("d4e8f1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8"),
			},
		},
	}
	require.NoError(t, store.Save(dir, m))

	loaded, err := store.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, m.Package, loaded.Package)
	assert.Equal(t, m.Dependencies, loaded.Dependencies)
}

func TestManifestStore_LoadAt_MissingFileIsNotAnError(t *testing.T) {
	t.Parallel()
	m, ok, err := modfile.NewManifestStore().LoadAt(filepath.Join(t.TempDir(), domain.ManifestFileName))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, m)
}
