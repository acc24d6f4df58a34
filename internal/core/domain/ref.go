// Package domain contains the core domain models for dependency resolution:
// manifests, refs, lockfiles, and the resolved package graph.
package domain

import "go.trai.ch/zerr"

// RefKind identifies which kind of git pointer a dependency tracks.
type RefKind string

const (
	// RefTag pins a dependency to a git tag.
	RefTag RefKind = "tag"
	// RefBranch tracks the head of a git branch. Branch heads move, so a
	// branch pin is only refreshed by an explicit update.
	RefBranch RefKind = "branch"
	// RefRevision pins a dependency to an exact commit.
	RefRevision RefKind = "rev"
)

// Ref is a git pointer to a commit, expressed as exactly one of tag, branch,
// or revision.
type Ref struct {
	Kind  RefKind
	Value string
}

// TagRef returns a Ref pinning the given tag.
func TagRef(name string) Ref { return Ref{Kind: RefTag, Value: name} }

// BranchRef returns a Ref tracking the given branch.
func BranchRef(name string) Ref { return Ref{Kind: RefBranch, Value: name} }

// RevisionRef returns a Ref pinning the given commit.
func RevisionRef(commit string) Ref { return Ref{Kind: RefRevision, Value: commit} }

// Equal reports whether two refs have the same kind and value. Structural
// equality is what decides whether an existing lockfile pin may be reused.
func (r Ref) Equal(other Ref) bool {
	return r.Kind == other.Kind && r.Value == other.Value
}

// IsZero reports whether the ref is unset.
func (r Ref) IsZero() bool {
	return r.Kind == "" && r.Value == ""
}

// String renders the ref as "kind:value" for error metadata and logs.
func (r Ref) String() string {
	return string(r.Kind) + ":" + r.Value
}

// Validate checks that the ref names a known kind and a non-empty value.
func (r Ref) Validate() error {
	switch r.Kind {
	case RefTag, RefBranch, RefRevision:
	default:
		return zerr.With(zerr.Wrap(ErrManifestInvalid, "unknown ref kind"), "ref_kind", string(r.Kind))
	}
	if r.Value == "" {
		return zerr.With(zerr.Wrap(ErrManifestInvalid, "empty ref value"), "ref_kind", string(r.Kind))
	}
	if r.Kind == RefRevision && !IsCommitSHA(r.Value) {
		return zerr.With(zerr.Wrap(ErrManifestInvalid, "rev is not a commit SHA"), "rev", r.Value)
	}
	return nil
}

// IsCommitSHA reports whether s looks like a full or abbreviated (>= 7 hex
// digits) git commit SHA.
func IsCommitSHA(s string) bool {
	if len(s) < 7 || len(s) > 40 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
