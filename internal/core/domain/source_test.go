package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/nuance/internal/core/domain"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"https://github.com/acme/nu-utils.git", "https://github.com/acme/nu-utils"},
		{"https://github.com/acme/nu-utils/", "https://github.com/acme/nu-utils"},
		{"HTTPS://GitHub.COM/acme/Nu-Utils", "https://github.com/acme/Nu-Utils"},
		{"  https://github.com/acme/nu-utils  ", "https://github.com/acme/nu-utils"},
		{"git@github.com:acme/nu-utils.git", "git@github.com:acme/nu-utils"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.NormalizeURL(tt.in), "input %q", tt.in)
	}
}

func TestExpandSource(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		source   string
		provider string
		want     string
		wantErr  bool
	}{
		{name: "explicit url passes through", source: "https://github.com/acme/nu-utils.git", want: "https://github.com/acme/nu-utils"},
		{name: "shorthand expands", source: "acme/nu-utils", provider: "https://github.com", want: "https://github.com/acme/nu-utils"},
		{name: "shorthand with trailing slash provider", source: "acme/nu-utils", provider: "https://github.com/", want: "https://github.com/acme/nu-utils"},
		{name: "shorthand without provider", source: "acme/nu-utils", wantErr: true},
		{name: "empty source", source: "  ", wantErr: true},
		{name: "garbage source", source: "just-a-name", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := domain.ExpandSource(tt.source, tt.provider)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidSource)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepoNameFromURL(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "nu-utils", domain.RepoNameFromURL("https://github.com/acme/nu-utils.git"))
	assert.Equal(t, "nu-utils", domain.RepoNameFromURL("git@github.com:acme/nu-utils"))
	assert.Equal(t, "nu-utils", domain.RepoNameFromURL("https://github.com/acme/nu-utils/"))
}

func TestIsRepoShorthand(t *testing.T) {
	t.Parallel()
	assert.True(t, domain.IsRepoShorthand("acme/nu-utils"))
	assert.False(t, domain.IsRepoShorthand("acme"))
	assert.False(t, domain.IsRepoShorthand("acme/nu/utils"))
	assert.False(t, domain.IsRepoShorthand("/nu-utils"))
	assert.False(t, domain.IsRepoShorthand("acme/"))
}
