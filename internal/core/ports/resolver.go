package ports

import (
	"context"

	"go.trai.ch/nuance/internal/core/domain"
)

// RefResolver resolves dependency specs to exact commits.
//
// Tag and revision refs resolve deterministically for a given remote state;
// branch refs resolve to the branch's current head and are therefore not
// stable across invocations.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type RefResolver interface {
	// Resolve resolves a ref against the remote to a full commit SHA.
	Resolve(ctx context.Context, url string, ref domain.Ref) (string, error)

	// ResolveName resolves a bare ref name whose kind is unknown. It fails
	// with ErrAmbiguousRef when the name matches both a tag and a branch.
	ResolveName(ctx context.Context, url, name string) (domain.Ref, error)

	// LatestTag returns the remote's newest tag, ordering parseable versions
	// semantically and falling back to lexicographic comparison. ok is false
	// when the repository has no tags.
	LatestTag(ctx context.Context, url string) (tag string, ok bool, err error)

	// DefaultBranch returns the remote's default branch name.
	DefaultBranch(ctx context.Context, url string) (string, error)
}
