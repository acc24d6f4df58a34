package ports

import "go.trai.ch/nuance/internal/core/domain"

// ManifestStore reads and writes mod.toml files.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ManifestStore interface {
	// Load reads and validates the manifest in the given project directory.
	// Fails with ErrManifestNotFound when no manifest exists.
	Load(projectDir string) (*domain.Manifest, error)

	// LoadAt reads and validates a manifest at an explicit file path,
	// reporting ok=false without error when the file does not exist. Used for
	// the capability check on fetched dependency content.
	LoadAt(path string) (m *domain.Manifest, ok bool, err error)

	// Save writes the manifest into the project directory.
	Save(projectDir string, m *domain.Manifest) error
}

// LockfileStore reads and writes lockfiles.
type LockfileStore interface {
	// Load reads and validates the lockfile at path, reporting ok=false
	// without error when no lockfile exists yet.
	Load(path string) (lf *domain.Lockfile, ok bool, err error)

	// Save atomically replaces the lockfile at path. The lockfile is sorted
	// before writing so identical state serializes byte-identically.
	Save(path string, lf *domain.Lockfile) error
}

// ConfigStore reads and writes the per-user global configuration.
type ConfigStore interface {
	// Load reads the global config, returning defaults when none exists.
	Load() (*domain.GlobalConfig, error)

	// Save writes the global config back to disk.
	Save(cfg *domain.GlobalConfig) error

	// ModulesDir returns the directory global modules install into.
	ModulesDir(cfg *domain.GlobalConfig) (string, error)

	// LockfilePath returns the path of the global lockfile.
	LockfilePath() (string, error)
}
