// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/nuance/internal/core/domain"
)

// RemoteRef is a single advertised ref of a remote repository.
type RemoteRef struct {
	// Name is the short ref name (tag or branch name without the refs/ prefix).
	Name string
	// Kind is RefTag or RefBranch.
	Kind domain.RefKind
	// Commit is the commit the ref points at, fully peeled for annotated tags.
	Commit string
}

// GitClient is the git collaborator consumed by the ref resolver and the
// content cache. Implementations handle transport, auth, and bounded retries;
// callers see only domain errors (ErrRefNotFound, ErrRemoteUnreachable,
// ErrFetchFailed).
//
//go:generate mockgen -source=git.go -destination=mocks/mock_git.go -package=mocks
type GitClient interface {
	// ListRefs advertises the remote's tags and branch heads.
	ListRefs(ctx context.Context, url string) ([]RemoteRef, error)

	// ResolveRef resolves a ref to a full commit SHA against the remote's
	// current state.
	ResolveRef(ctx context.Context, url string, ref domain.Ref) (string, error)

	// DefaultBranch reports the branch the remote's HEAD points at.
	DefaultBranch(ctx context.Context, url string) (string, error)

	// FetchContent materializes exactly the given commit's tree (no history,
	// no .git directory) into dest and returns the commit actually fetched so
	// callers can guard against content mismatch.
	FetchContent(ctx context.Context, url, commit, dest string) (string, error)
}
