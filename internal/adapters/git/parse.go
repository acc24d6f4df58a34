package git

import (
	"strings"

	"go.trai.ch/nuance/internal/core/domain"
	"go.trai.ch/nuance/internal/core/ports"
)

const (
	tagPrefix    = "refs/tags/"
	branchPrefix = "refs/heads/"
	peeledSuffix = "^{}"
)

// parseLsRemote parses `git ls-remote --tags --heads` output into remote
// refs. Annotated tags advertise both the tag object and a peeled `^{}`
// entry pointing at the commit; the peeled entry wins.
func parseLsRemote(out string) []ports.RemoteRef {
	tags := make(map[string]string)
	var order []string
	var branches []ports.RemoteRef

	for _, line := range strings.Split(out, "\n") {
		commit, refName, ok := strings.Cut(strings.TrimSpace(line), "\t")
		if !ok || commit == "" {
			continue
		}

		switch {
		case strings.HasPrefix(refName, branchPrefix):
			branches = append(branches, ports.RemoteRef{
				Name:   strings.TrimPrefix(refName, branchPrefix),
				Kind:   domain.RefBranch,
				Commit: commit,
			})
		case strings.HasPrefix(refName, tagPrefix):
			name := strings.TrimPrefix(refName, tagPrefix)
			if peeled := strings.TrimSuffix(name, peeledSuffix); peeled != name {
				// Peeled entries always follow the tag object entry.
				tags[peeled] = commit
				continue
			}
			if _, seen := tags[name]; !seen {
				order = append(order, name)
			}
			tags[name] = commit
		}
	}

	refs := make([]ports.RemoteRef, 0, len(order)+len(branches))
	for _, name := range order {
		refs = append(refs, ports.RemoteRef{
			Name:   name,
			Kind:   domain.RefTag,
			Commit: tags[name],
		})
	}
	return append(refs, branches...)
}

// parseSymrefHead extracts the default branch from
// `git ls-remote --symref <url> HEAD` output, whose first line looks like
// "ref: refs/heads/main\tHEAD".
func parseSymrefHead(out string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), "ref: ")
		if !ok {
			continue
		}
		target, _, _ := strings.Cut(rest, "\t")
		if branch := strings.TrimPrefix(target, branchPrefix); branch != target && branch != "" {
			return branch, true
		}
	}
	return "", false
}

// transientMarkers are stderr fragments indicating a transport failure worth
// retrying.
var transientMarkers = []string{
	"could not resolve host",
	"failed to connect",
	"connection refused",
	"connection reset",
	"connection timed out",
	"operation timed out",
	"early eof",
	"the remote end hung up unexpectedly",
	"gnutls",
	"tls",
	"503",
	"502",
	"429",
}

// isTransient classifies a git stderr as a retryable transport failure.
func isTransient(stderr string) bool {
	s := strings.ToLower(stderr)
	for _, marker := range transientMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// isRevisionUnknown reports whether a fetch failed because the server does
// not know (or refuses to serve) the requested object.
func isRevisionUnknown(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "not our ref") ||
		strings.Contains(s, "upload-pack: not our ref") ||
		strings.Contains(s, "couldn't find remote ref") ||
		strings.Contains(s, "no such remote ref") ||
		strings.Contains(s, "not a valid object name") ||
		strings.Contains(s, "unadvertised object")
}
