package domain

import (
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

// LockfileVersion is the current lockfile format version.
const LockfileVersion = 1

// LockedPackage is a single pinned entry in the lockfile.
type LockedPackage struct {
	// Name is the package name, unique across the lockfile.
	Name string
	// URL is the normalized git repository URL.
	URL string
	// Commit is the full commit SHA the ref resolved to.
	Commit string
	// Ref is the declared spec that produced this pin.
	Ref Ref
	// Checksum is the sha256 digest of the exported tree, recorded as a
	// corruption guard for installed content.
	Checksum string
	// Dependencies holds the names of this package's own resolved
	// dependencies, used for transitive installs and activation ordering.
	Dependencies []string
}

// Lockfile is the in-memory representation of mod.lock: the complete pinned
// closure of a project's dependencies.
type Lockfile struct {
	Version  int
	Packages []LockedPackage
}

// Find returns the locked package with the given name, or nil.
func (l *Lockfile) Find(name string) *LockedPackage {
	for i := range l.Packages {
		if l.Packages[i].Name == name {
			return &l.Packages[i]
		}
	}
	return nil
}

// Satisfies reports whether this pin was produced by the given spec and may
// be reused without re-resolving. Tags and branches must match structurally.
// A revision spec also matches when it is a prefix of the pinned commit, so
// an abbreviated rev in the manifest keeps matching the full SHA the
// lockfile records.
func (p *LockedPackage) Satisfies(ref Ref) bool {
	if p.Ref.Equal(ref) {
		return true
	}
	if ref.Kind == RefRevision && p.Ref.Kind == RefRevision {
		return strings.HasPrefix(strings.ToLower(p.Commit), strings.ToLower(ref.Value))
	}
	return false
}

// Sort orders packages by name. Serialization always happens on a sorted
// lockfile so repeated runs produce byte-identical files.
func (l *Lockfile) Sort() {
	sort.Slice(l.Packages, func(i, j int) bool {
		return l.Packages[i].Name < l.Packages[j].Name
	})
	for i := range l.Packages {
		sort.Strings(l.Packages[i].Dependencies)
	}
}

// Validate checks the lockfile invariants: unique names, closure completeness
// (every dependency edge points at a top-level entry), and acyclic edges.
func (l *Lockfile) Validate() error {
	seen := make(map[string]bool, len(l.Packages))
	for _, p := range l.Packages {
		if seen[p.Name] {
			return zerr.With(zerr.Wrap(ErrLockfileInvalid, "duplicate entry"), "package", p.Name)
		}
		seen[p.Name] = true
	}
	for _, p := range l.Packages {
		for _, dep := range p.Dependencies {
			if !seen[dep] {
				err := zerr.Wrap(ErrLockfileInvalid, "dependency has no lockfile entry")
				err = zerr.With(err, "package", p.Name)
				return zerr.With(err, "dependency", dep)
			}
		}
	}
	return l.checkAcyclic()
}

func (l *Lockfile) checkAcyclic() error {
	deps := make(map[string][]string, len(l.Packages))
	for _, p := range l.Packages {
		deps[p.Name] = p.Dependencies
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(deps))

	var visit func(name string) error
	visit = func(name string) error {
		state[name] = visiting
		for _, dep := range deps[name] {
			switch state[dep] {
			case visiting:
				return zerr.With(zerr.Wrap(ErrLockfileInvalid, "cyclic dependencies"), "package", dep)
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		state[name] = done
		return nil
	}

	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if state[name] == unvisited {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return nil
}
