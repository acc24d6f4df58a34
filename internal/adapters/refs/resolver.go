// Package refs provides the ref resolver adapter, turning symbolic refs into
// pinned commits against a remote's advertised state.
package refs

import (
	"context"
	"sort"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/nuance/internal/core/domain"
	"go.trai.ch/nuance/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver implements ports.RefResolver on top of a git client.
type Resolver struct {
	git ports.GitClient
}

// NewResolver creates a new Resolver.
func NewResolver(git ports.GitClient) *Resolver {
	return &Resolver{git: git}
}

// Resolve resolves a ref to a full commit SHA.
func (r *Resolver) Resolve(ctx context.Context, url string, ref domain.Ref) (string, error) {
	if err := ref.Validate(); err != nil {
		return "", err
	}
	return r.git.ResolveRef(ctx, url, ref)
}

// ResolveName classifies a bare ref name against the remote's advertised
// refs. A name advertised as both a tag and a branch is ambiguous and must be
// disambiguated by the caller. A name advertised as neither falls back to a
// revision when it looks like a commit SHA.
func (r *Resolver) ResolveName(ctx context.Context, url, name string) (domain.Ref, error) {
	remoteRefs, err := r.git.ListRefs(ctx, url)
	if err != nil {
		return domain.Ref{}, err
	}

	var isTag, isBranch bool
	for _, rr := range remoteRefs {
		if rr.Name != name {
			continue
		}
		switch rr.Kind {
		case domain.RefTag:
			isTag = true
		case domain.RefBranch:
			isBranch = true
		}
	}

	switch {
	case isTag && isBranch:
		err := zerr.Wrap(domain.ErrAmbiguousRef, "name matches both a tag and a branch")
		err = zerr.With(err, "url", url)
		return domain.Ref{}, zerr.With(err, "name", name)
	case isTag:
		return domain.TagRef(name), nil
	case isBranch:
		return domain.BranchRef(name), nil
	case domain.IsCommitSHA(name):
		return domain.RevisionRef(name), nil
	default:
		err := zerr.Wrap(domain.ErrRefNotFound, "no tag, branch, or commit with this name")
		err = zerr.With(err, "url", url)
		return domain.Ref{}, zerr.With(err, "name", name)
	}
}

// LatestTag picks the highest tag of the remote. Tags parsing as semantic
// versions (with or without a leading v) are preferred and ordered by
// version; when none parse, the lexicographically greatest tag is used.
// ok is false when the remote has no tags at all.
func (r *Resolver) LatestTag(ctx context.Context, url string) (string, bool, error) {
	remoteRefs, err := r.git.ListRefs(ctx, url)
	if err != nil {
		return "", false, err
	}

	var tags []string
	for _, rr := range remoteRefs {
		if rr.Kind == domain.RefTag {
			tags = append(tags, rr.Name)
		}
	}
	if len(tags) == 0 {
		return "", false, nil
	}

	type versioned struct {
		name    string
		version *semver.Version
	}
	var parsed []versioned
	for _, tag := range tags {
		if v, err := semver.NewVersion(tag); err == nil {
			parsed = append(parsed, versioned{name: tag, version: v})
		}
	}

	if len(parsed) > 0 {
		sort.Slice(parsed, func(i, j int) bool {
			if parsed[i].version.Equal(parsed[j].version) {
				// Stable pick when v1.0.0 and 1.0.0 coexist.
				return parsed[i].name < parsed[j].name
			}
			return parsed[i].version.LessThan(parsed[j].version)
		})
		return parsed[len(parsed)-1].name, true, nil
	}

	sort.Strings(tags)
	return tags[len(tags)-1], true, nil
}

// DefaultBranch reports the branch the remote's HEAD points at.
func (r *Resolver) DefaultBranch(ctx context.Context, url string) (string, error) {
	return r.git.DefaultBranch(ctx, url)
}
