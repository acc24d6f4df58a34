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

// lockfileHeader precedes the TOML body of every written lockfile.
const lockfileHeader = "# This file is generated automatically. Do not edit.\n"

// LockfileStore implements ports.LockfileStore on the local filesystem.
type LockfileStore struct{}

// NewLockfileStore creates a new LockfileStore.
func NewLockfileStore() *LockfileStore {
	return &LockfileStore{}
}

// lockfileDoc is the on-disk shape of mod.lock.
type lockfileDoc struct {
	Version  int                `toml:"version"`
	Packages []lockedPackageDoc `toml:"package,omitempty"`
}

type lockedPackageDoc struct {
	Name         string   `toml:"name"`
	Git          string   `toml:"git"`
	Tag          string   `toml:"tag,omitempty"`
	Branch       string   `toml:"branch,omitempty"`
	Rev          string   `toml:"rev"`
	Sha256       string   `toml:"sha256"`
	Dependencies []string `toml:"dependencies,omitempty"`
}

// Load reads and validates the lockfile at path, reporting ok=false without
// error when no lockfile exists yet.
func (s *LockfileStore) Load(path string) (*domain.Lockfile, bool, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, zerr.Wrap(domain.ErrLockfileReadFailed, err.Error())
	}

	var doc lockfileDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, false, zerr.With(zerr.Wrap(domain.ErrLockfileInvalid, err.Error()), "path", path)
	}
	if doc.Version != domain.LockfileVersion {
		err := zerr.Wrap(domain.ErrLockfileInvalid, "unsupported lockfile version")
		err = zerr.With(err, "path", path)
		err = zerr.With(err, "version", doc.Version)
		return nil, false, zerr.With(err, "supported", domain.LockfileVersion)
	}

	lf := doc.toDomain()
	if err := lf.Validate(); err != nil {
		return nil, false, zerr.With(err, "path", path)
	}
	return lf, true, nil
}

// Save atomically replaces the lockfile at path. The lockfile is sorted
// before writing so identical state serializes byte-identically.
func (s *LockfileStore) Save(path string, lf *domain.Lockfile) error {
	if err := lf.Validate(); err != nil {
		return err
	}

	sorted := domain.Lockfile{
		Version:  lf.Version,
		Packages: append([]domain.LockedPackage(nil), lf.Packages...),
	}
	sorted.Sort()

	body, err := toml.Marshal(fromDomainLockfile(&sorted))
	if err != nil {
		return zerr.Wrap(domain.ErrLockfileWriteFailed, err.Error())
	}

	data := append([]byte(lockfileHeader), body...)
	if err := writeFileAtomic(path, data); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrLockfileWriteFailed, err.Error()), "path", path)
	}
	return nil
}

func (d *lockfileDoc) toDomain() *domain.Lockfile {
	lf := &domain.Lockfile{
		Version:  d.Version,
		Packages: make([]domain.LockedPackage, 0, len(d.Packages)),
	}

	for _, p := range d.Packages {
		ref := domain.RevisionRef(p.Rev)
		switch {
		case p.Tag != "":
			ref = domain.TagRef(p.Tag)
		case p.Branch != "":
			ref = domain.BranchRef(p.Branch)
		}

		lf.Packages = append(lf.Packages, domain.LockedPackage{
			Name:         p.Name,
			URL:          p.Git,
			Commit:       p.Rev,
			Ref:          ref,
			Checksum:     p.Sha256,
			Dependencies: p.Dependencies,
		})
	}
	return lf
}

func fromDomainLockfile(lf *domain.Lockfile) lockfileDoc {
	doc := lockfileDoc{Version: lf.Version}

	for _, p := range lf.Packages {
		entry := lockedPackageDoc{
			Name:         p.Name,
			Git:          p.URL,
			Rev:          p.Commit,
			Sha256:       p.Checksum,
			Dependencies: p.Dependencies,
		}
		switch p.Ref.Kind {
		case domain.RefTag:
			entry.Tag = p.Ref.Value
		case domain.RefBranch:
			entry.Branch = p.Ref.Value
		case domain.RefRevision:
			// The pin itself is the rev; no symbolic ref to record.
		}
		doc.Packages = append(doc.Packages, entry)
	}
	return doc
}
