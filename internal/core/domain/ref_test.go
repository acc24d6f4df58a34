package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.trai.ch/nuance/internal/core/domain"
)

func TestRef_Validate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		ref     domain.Ref
		wantErr bool
	}{
		{name: "tag", ref: domain.TagRef("v1.0.0")},
		{name: "branch", ref: domain.BranchRef("main")},
		{name: "full revision", ref: domain.RevisionRef(strings.Repeat("a", 40))},
		{name: "abbreviated revision", ref: domain.RevisionRef("abc1234")},
		{name: "zero ref", ref: domain.Ref{}, wantErr: true},
		{name: "unknown kind", ref: domain.Ref{Kind: "commit", Value: "x"}, wantErr: true},
		{name: "empty value", ref: domain.TagRef(""), wantErr: true},
		{name: "revision too short", ref: domain.RevisionRef("abc12"), wantErr: true},
		{name: "revision not hex", ref: domain.RevisionRef("not-a-sha"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.ref.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrManifestInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRef_Equal(t *testing.T) {
	t.Parallel()
	assert.True(t, domain.TagRef("v1").Equal(domain.TagRef("v1")))
	assert.False(t, domain.TagRef("v1").Equal(domain.BranchRef("v1")), "same value, different kind")
	assert.False(t, domain.TagRef("v1").Equal(domain.TagRef("v2")))
}

func TestIsCommitSHA(t *testing.T) {
	t.Parallel()
	assert.True(t, domain.IsCommitSHA(strings.Repeat("0", 40)))
	assert.True(t, domain.IsCommitSHA("deadbeef"))
	assert.False(t, domain.IsCommitSHA("main"))
	assert.False(t, domain.IsCommitSHA("v1.2.3"))
	assert.False(t, domain.IsCommitSHA(strings.Repeat("0", 41)))
}
