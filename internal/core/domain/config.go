package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// DefaultGitProvider is the provider used when the global config does not set one.
const DefaultGitProvider = "github"

// providerAliases maps recognized provider aliases to their base URLs.
var providerAliases = map[string]string{
	"github":    "https://github.com",
	"gitlab":    "https://gitlab.com",
	"codeberg":  "https://codeberg.org",
	"bitbucket": "https://bitbucket.org",
	"sourcehut": "https://git.sr.ht",
}

// GlobalConfig is the per-user configuration: the default provider for
// owner/repo shorthand, an optional override for the global modules
// directory, and the globally installed dependency set.
type GlobalConfig struct {
	DefaultGitProvider string
	ModulesDir         string
	Dependencies       map[string]DependencySpec
}

// ProviderBaseURL resolves default_git_provider to a base URL. The value may
// be a known alias, an explicit URL, or a bare host (taken as https).
func (c *GlobalConfig) ProviderBaseURL() (string, error) {
	provider := strings.TrimSpace(c.DefaultGitProvider)
	if provider == "" {
		provider = DefaultGitProvider
	}
	if base, ok := providerAliases[strings.ToLower(provider)]; ok {
		return base, nil
	}
	if strings.Contains(provider, "://") {
		return strings.TrimSuffix(provider, "/"), nil
	}
	if strings.Contains(provider, ".") && !strings.ContainsAny(provider, " \t/") {
		return "https://" + provider, nil
	}
	return "", zerr.With(zerr.Wrap(ErrUnknownProvider, "cannot expand owner/repo shorthand"), "provider", c.DefaultGitProvider)
}

// Manifest presents the global dependency set as a manifest so global
// installs go through the same reconciliation path as project installs.
func (c *GlobalConfig) Manifest() *Manifest {
	deps := make(map[string]DependencySpec, len(c.Dependencies))
	for name, spec := range c.Dependencies {
		spec.Name = name
		deps[name] = spec
	}
	return &Manifest{
		Package:      Package{Name: "global", Version: "0"},
		Dependencies: deps,
	}
}
