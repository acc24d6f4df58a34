package refs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/nuance/internal/adapters/refs"
	"go.trai.ch/nuance/internal/core/domain"
	"go.trai.ch/nuance/internal/core/ports"
	"go.trai.ch/nuance/internal/core/ports/mocks"
)

const (
	repoURL = "https://example.com/repo"
	shaA    = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	shaB    = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func TestResolver_Resolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockGitClient(ctrl)
	client.EXPECT().
		ResolveRef(gomock.Any(), repoURL, domain.TagRef("v1.0.0")).
		Return(shaA, nil)

	r := refs.NewResolver(client)
	commit, err := r.Resolve(context.Background(), repoURL, domain.TagRef("v1.0.0"))
	require.NoError(t, err)
	assert.Equal(t, shaA, commit)
}

func TestResolver_Resolve_InvalidRef(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockGitClient(ctrl)

	r := refs.NewResolver(client)
	_, err := r.Resolve(context.Background(), repoURL, domain.Ref{})
	assert.Error(t, err, "a zero ref must not reach the git client")
}

func TestResolver_ResolveName(t *testing.T) {
	tests := []struct {
		name    string
		refName string
		remote  []ports.RemoteRef
		want    domain.Ref
		wantErr error
	}{
		{
			name:    "tag only",
			refName: "v1.0.0",
			remote: []ports.RemoteRef{
				{Name: "v1.0.0", Kind: domain.RefTag, Commit: shaA},
			},
			want: domain.TagRef("v1.0.0"),
		},
		{
			name:    "branch only",
			refName: "main",
			remote: []ports.RemoteRef{
				{Name: "main", Kind: domain.RefBranch, Commit: shaA},
			},
			want: domain.BranchRef("main"),
		},
		{
			name:    "tag and branch is ambiguous",
			refName: "release",
			remote: []ports.RemoteRef{
				{Name: "release", Kind: domain.RefTag, Commit: shaA},
				{Name: "release", Kind: domain.RefBranch, Commit: shaB},
			},
			wantErr: domain.ErrAmbiguousRef,
		},
		{
			name:    "unknown name that looks like a commit",
			refName: "abc1234",
			remote:  nil,
			want:    domain.RevisionRef("abc1234"),
		},
		{
			name:    "unknown name",
			refName: "nope",
			remote:  nil,
			wantErr: domain.ErrRefNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockGitClient(ctrl)
			client.EXPECT().ListRefs(gomock.Any(), repoURL).Return(tt.remote, nil)

			r := refs.NewResolver(client)
			got, err := r.ResolveName(context.Background(), repoURL, tt.refName)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_LatestTag(t *testing.T) {
	tests := []struct {
		name   string
		remote []ports.RemoteRef
		want   string
		wantOK bool
	}{
		{
			name: "highest semver wins regardless of listing order",
			remote: []ports.RemoteRef{
				{Name: "v1.0.0", Kind: domain.RefTag, Commit: shaA},
				{Name: "v1.2.0", Kind: domain.RefTag, Commit: shaB},
				{Name: "v1.1.0", Kind: domain.RefTag, Commit: shaA},
			},
			want:   "v1.2.0",
			wantOK: true,
		},
		{
			name: "non-semver tags ignored when semver tags exist",
			remote: []ports.RemoteRef{
				{Name: "nightly", Kind: domain.RefTag, Commit: shaA},
				{Name: "v0.3.0", Kind: domain.RefTag, Commit: shaB},
			},
			want:   "v0.3.0",
			wantOK: true,
		},
		{
			name: "lexicographic fallback without semver tags",
			remote: []ports.RemoteRef{
				{Name: "release-a", Kind: domain.RefTag, Commit: shaA},
				{Name: "release-b", Kind: domain.RefTag, Commit: shaB},
			},
			want:   "release-b",
			wantOK: true,
		},
		{
			name: "no tags at all",
			remote: []ports.RemoteRef{
				{Name: "main", Kind: domain.RefBranch, Commit: shaA},
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockGitClient(ctrl)
			client.EXPECT().ListRefs(gomock.Any(), repoURL).Return(tt.remote, nil)

			r := refs.NewResolver(client)
			got, ok, err := r.LatestTag(context.Background(), repoURL)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestResolver_DefaultBranch(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockGitClient(ctrl)
	client.EXPECT().DefaultBranch(gomock.Any(), repoURL).Return("trunk", nil)

	r := refs.NewResolver(client)
	branch, err := r.DefaultBranch(context.Background(), repoURL)
	require.NoError(t, err)
	assert.Equal(t, "trunk", branch)
}
