package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// NormalizeURL canonicalizes a git repository URL so cache keys and node
// identity do not depend on cosmetic differences: surrounding whitespace,
// a trailing slash, a ".git" suffix, and host-name case are all stripped.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	u = strings.TrimSuffix(u, "/")
	u = strings.TrimSuffix(u, ".git")

	if i := strings.Index(u, "://"); i >= 0 {
		rest := u[i+3:]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			u = strings.ToLower(u[:i+3]+rest[:j]) + rest[j:]
		} else {
			u = strings.ToLower(u)
		}
	}
	return u
}

// IsGitURL reports whether the value is an explicit git URL rather than an
// owner/repo shorthand.
func IsGitURL(value string) bool {
	return strings.Contains(value, "://") || strings.HasPrefix(value, "git@")
}

// IsRepoShorthand reports whether the value looks like "owner/repo".
func IsRepoShorthand(value string) bool {
	owner, repo, ok := strings.Cut(value, "/")
	if !ok || owner == "" || repo == "" {
		return false
	}
	if strings.ContainsAny(owner, " \t") || strings.ContainsAny(repo, " \t") {
		return false
	}
	return !strings.Contains(repo, "/")
}

// ExpandSource turns a dependency source into a normalized git URL. Explicit
// URLs pass through; owner/repo shorthand is expanded against the configured
// provider base URL, which must be non-empty in that case.
func ExpandSource(source, providerBaseURL string) (string, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return "", zerr.Wrap(ErrInvalidSource, "empty source")
	}
	if IsGitURL(trimmed) {
		return NormalizeURL(trimmed), nil
	}
	if IsRepoShorthand(trimmed) {
		if providerBaseURL == "" {
			return "", zerr.With(zerr.Wrap(ErrInvalidSource,
				"owner/repo shorthand requires a default git provider"), "source", source)
		}
		return NormalizeURL(strings.TrimSuffix(providerBaseURL, "/") + "/" + trimmed), nil
	}
	return "", zerr.With(zerr.Wrap(ErrInvalidSource,
		"expected a git URL or owner/repo shorthand"), "source", source)
}

// RepoNameFromURL derives a package name from a repository URL:
// "https://github.com/user/nu-utils.git" yields "nu-utils".
func RepoNameFromURL(url string) string {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(url), "/"), ".git")
	if i := strings.LastIndexAny(trimmed, "/:"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return trimmed
}
