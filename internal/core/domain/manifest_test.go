package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.trai.ch/nuance/internal/core/domain"
)

func TestManifest_Validate(t *testing.T) {
	t.Parallel()
	valid := func() *domain.Manifest {
		return &domain.Manifest{
			Package: domain.Package{Name: "demo", Version: "0.1.0"},
			Dependencies: map[string]domain.DependencySpec{
				"nu-utils": {URL: "https://github.com/acme/nu-utils", Ref: domain.TagRef("v1.0.0")},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*domain.Manifest)
		wantErr bool
	}{
		{name: "valid", mutate: func(*domain.Manifest) {}},
		{name: "empty package name", mutate: func(m *domain.Manifest) { m.Package.Name = "" }, wantErr: true},
		{name: "empty version", mutate: func(m *domain.Manifest) { m.Package.Version = "" }, wantErr: true},
		{
			name: "dependency name mismatch",
			mutate: func(m *domain.Manifest) {
				m.Dependencies["nu-utils"] = domain.DependencySpec{
					Name: "other", URL: "https://github.com/acme/nu-utils", Ref: domain.TagRef("v1.0.0"),
				}
			},
			wantErr: true,
		},
		{
			name: "dependency without source",
			mutate: func(m *domain.Manifest) {
				m.Dependencies["nu-utils"] = domain.DependencySpec{Ref: domain.TagRef("v1.0.0")}
			},
			wantErr: true,
		},
		{
			name: "dependency without ref",
			mutate: func(m *domain.Manifest) {
				m.Dependencies["nu-utils"] = domain.DependencySpec{URL: "https://github.com/acme/nu-utils"}
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := valid()
			tt.mutate(m)
			err := m.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrManifestInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestManifest_SortedDependencies(t *testing.T) {
	t.Parallel()
	m := &domain.Manifest{
		Package: domain.Package{Name: "demo", Version: "0.1.0"},
		Dependencies: map[string]domain.DependencySpec{
			"zeta":  {URL: "https://github.com/acme/zeta", Ref: domain.TagRef("v1")},
			"alpha": {URL: "https://github.com/acme/alpha", Ref: domain.TagRef("v1")},
			"mid":   {URL: "https://github.com/acme/mid", Ref: domain.TagRef("v1")},
		},
	}

	specs := m.SortedDependencies()
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}
