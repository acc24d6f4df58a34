package domain

import (
	"iter"
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

// ResolvedPackage is a node in the dependency graph: a package whose ref has
// been resolved to an exact commit.
type ResolvedPackage struct {
	Name         string
	URL          string
	Ref          Ref
	Commit       string
	Checksum     string
	Dependencies []string
}

// Pin renders the package identity as "url@commit" for conflict reports.
func (p ResolvedPackage) Pin() string {
	return p.URL + "@" + p.Commit
}

// SameNode reports whether two resolutions describe the identical node:
// same normalized URL and same resolved commit. Packages sharing a name but
// differing in either are a conflict, never silently deduplicated.
func (p ResolvedPackage) SameNode(other ResolvedPackage) bool {
	return p.URL == other.URL && p.Commit == other.Commit
}

// Graph is the dependency graph produced by one resolution run. Nodes are
// resolved packages keyed by name; edges are the per-package dependency name
// lists.
type Graph struct {
	packages map[string]ResolvedPackage
	order    []string
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		packages: make(map[string]ResolvedPackage),
	}
}

// Add inserts a resolved package. Adding the identical node twice is a no-op;
// adding a package whose name is already taken by a different URL or commit
// fails with ErrDependencyConflict naming both candidates.
func (g *Graph) Add(p ResolvedPackage) error {
	existing, ok := g.packages[p.Name]
	if !ok {
		g.packages[p.Name] = p
		g.order = nil
		return nil
	}
	if existing.SameNode(p) {
		// Two refs can legitimately land on the same commit (a tag and the
		// branch head it marks). Keep the lexicographically smaller ref so
		// the recorded pin does not depend on resolution completion order.
		if !existing.Ref.Equal(p.Ref) && p.Ref.String() < existing.Ref.String() {
			g.packages[p.Name] = p
			g.order = nil
		}
		return nil
	}
	err := zerr.Wrap(ErrDependencyConflict, "same name resolved to different sources")
	err = zerr.With(err, "package", p.Name)
	err = zerr.With(err, "candidate_a", existing.Pin())
	err = zerr.With(err, "candidate_b", p.Pin())
	return err
}

// Package returns the resolved package with the given name.
func (g *Graph) Package(name string) (ResolvedPackage, bool) {
	p, ok := g.packages[name]
	return p, ok
}

// Len returns the number of packages in the graph.
func (g *Graph) Len() int {
	return len(g.packages)
}

// Validate checks that every dependency edge has a node and that the graph is
// acyclic, then computes the topological order used for the lockfile and
// activation script. A cycle fails with ErrCyclicDependency carrying the full
// cycle path.
func (g *Graph) Validate() error {
	if err := g.checkCycles(); err != nil {
		return err
	}
	g.order = g.topoSort()
	return nil
}

// checkCycles runs a depth-first walk over sorted names so the reported cycle
// path is stable across runs.
func (g *Graph) checkCycles() error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(g.packages))
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		state[name] = visiting
		path = append(path, name)

		p, ok := g.packages[name]
		if !ok {
			return zerr.With(zerr.Wrap(ErrLockfileInvalid, "edge to unknown package"), "dependency", name)
		}
		for _, dep := range sortedCopy(p.Dependencies) {
			switch state[dep] {
			case visiting:
				return g.cycleError(path, dep)
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		state[name] = done
		path = path[:len(path)-1]
		return nil
	}

	for _, name := range g.sortedNames() {
		if state[name] == unvisited {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Graph) cycleError(path []string, dep string) error {
	start := 0
	for i, node := range path {
		if node == dep {
			start = i
			break
		}
	}
	cycle := append(append([]string{}, path[start:]...), dep)
	return zerr.With(zerr.Wrap(ErrCyclicDependency, "dependency cycle"), "cycle", strings.Join(cycle, " -> "))
}

// topoSort orders packages so every package appears after all of its
// dependencies. Ties are broken by name: at each step the lexicographically
// smallest ready package is emitted, making the order independent of which
// concurrent resolution finished first. Assumes checkCycles passed.
func (g *Graph) topoSort() []string {
	inDegree := make(map[string]int, len(g.packages))
	dependents := make(map[string][]string, len(g.packages))
	for name, p := range g.packages {
		inDegree[name] += 0
		for _, dep := range p.Dependencies {
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for name, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.packages))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		released := false
		for _, dependent := range dependents[name] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
				released = true
			}
		}
		if released {
			sort.Strings(ready)
		}
	}
	return order
}

// TopologicalOrder returns package names with dependencies before dependents.
// It assumes Validate() has been called and returned nil.
func (g *Graph) TopologicalOrder() []string {
	return g.order
}

// Walk returns an iterator yielding packages in topological order. It assumes
// Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[ResolvedPackage] {
	return func(yield func(ResolvedPackage) bool) {
		for _, name := range g.order {
			if !yield(g.packages[name]) {
				return
			}
		}
	}
}

// Lockfile converts the validated graph into a lockfile sorted by name.
func (g *Graph) Lockfile() *Lockfile {
	lf := &Lockfile{Version: LockfileVersion}
	for p := range g.Walk() {
		lf.Packages = append(lf.Packages, LockedPackage{
			Name:         p.Name,
			URL:          p.URL,
			Commit:       p.Commit,
			Ref:          p.Ref,
			Checksum:     p.Checksum,
			Dependencies: sortedCopy(p.Dependencies),
		})
	}
	lf.Sort()
	return lf
}

func (g *Graph) sortedNames() []string {
	names := make([]string, 0, len(g.packages))
	for name := range g.packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedCopy(in []string) []string {
	out := append([]string{}, in...)
	sort.Strings(out)
	return out
}
