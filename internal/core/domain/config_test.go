package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/nuance/internal/core/domain"
)

func TestGlobalConfig_ProviderBaseURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		provider string
		want     string
		wantErr  bool
	}{
		{name: "empty defaults to github", provider: "", want: "https://github.com"},
		{name: "known alias", provider: "codeberg", want: "https://codeberg.org"},
		{name: "alias is case insensitive", provider: "GitLab", want: "https://gitlab.com"},
		{name: "explicit url", provider: "https://git.example.com/", want: "https://git.example.com"},
		{name: "bare host", provider: "git.example.com", want: "https://git.example.com"},
		{name: "unknown word", provider: "somewhere", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := &domain.GlobalConfig{DefaultGitProvider: tt.provider}
			got, err := cfg.ProviderBaseURL()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnknownProvider)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGlobalConfig_ManifestCarriesDependencies(t *testing.T) {
	t.Parallel()
	cfg := &domain.GlobalConfig{
		DefaultGitProvider: "github",
		Dependencies: map[string]domain.DependencySpec{
			"nu-utils": {URL: "https://github.com/acme/nu-utils", Ref: domain.TagRef("v1.0.0")},
		},
	}

	m := cfg.Manifest()
	require.NoError(t, m.Validate())
	dep, ok := m.Dependencies["nu-utils"]
	require.True(t, ok)
	assert.Equal(t, "nu-utils", dep.Name, "name is filled in from the map key")
}
