// Package git provides the git collaborator adapter, shelling out to the
// git binary.
package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.trai.ch/nuance/internal/core/domain"
	"go.trai.ch/nuance/internal/core/ports"
	"go.trai.ch/zerr"
)

// runner executes a git command in dir (empty for no working directory) and
// returns its stdout and stderr. It exists as a seam for tests.
type runner func(ctx context.Context, dir string, args ...string) (stdout, stderr string, err error)

// ShellClient implements ports.GitClient by shelling out to the git command.
type ShellClient struct {
	logger ports.Logger
	run    runner

	// maxRetries bounds retry attempts for transient transport failures.
	maxRetries uint64
}

// NewShellClient creates a git client that uses the git binary on PATH.
func NewShellClient(logger ports.Logger) *ShellClient {
	return &ShellClient{
		logger:     logger,
		run:        runGit,
		maxRetries: 2,
	}
}

// ListRefs advertises the remote's tags and branch heads. Annotated tags are
// reported fully peeled.
func (c *ShellClient) ListRefs(ctx context.Context, url string) ([]ports.RemoteRef, error) {
	stdout, err := c.retry(ctx, url, "ls-remote", "--tags", "--heads", url)
	if err != nil {
		return nil, err
	}
	return parseLsRemote(stdout), nil
}

// DefaultBranch reports the branch the remote's HEAD points at.
func (c *ShellClient) DefaultBranch(ctx context.Context, url string) (string, error) {
	stdout, err := c.retry(ctx, url, "ls-remote", "--symref", url, "HEAD")
	if err != nil {
		return "", err
	}

	branch, ok := parseSymrefHead(stdout)
	if !ok {
		return "", zerr.With(zerr.Wrap(domain.ErrRefNotFound, "remote did not advertise a default branch"), "url", url)
	}
	return branch, nil
}

// ResolveRef resolves a ref to a full commit SHA against the remote's current
// state. Revision refs that already carry a full SHA pass through unchanged;
// abbreviated revisions are expanded by fetching them into a throwaway
// repository.
func (c *ShellClient) ResolveRef(ctx context.Context, url string, ref domain.Ref) (string, error) {
	if ref.Kind == domain.RefRevision {
		return c.resolveRevision(ctx, url, ref.Value)
	}

	refs, err := c.ListRefs(ctx, url)
	if err != nil {
		return "", err
	}

	for _, r := range refs {
		if r.Kind == ref.Kind && r.Name == ref.Value {
			return r.Commit, nil
		}
	}

	err = zerr.Wrap(domain.ErrRefNotFound, "ref not advertised by remote")
	err = zerr.With(err, "url", url)
	return "", zerr.With(err, "ref", ref.String())
}

// FetchContent materializes exactly the given commit's tree into dest and
// returns the commit actually fetched. No history and no .git directory are
// left behind.
func (c *ShellClient) FetchContent(ctx context.Context, url, commit, dest string) (string, error) {
	if err := os.MkdirAll(dest, domain.DirPerm); err != nil {
		return "", zerr.Wrap(domain.ErrFetchFailed, err.Error())
	}

	if _, _, err := c.run(ctx, "", "init", "-q", dest); err != nil {
		return "", zerr.Wrap(domain.ErrFetchFailed, err.Error())
	}

	if _, err := c.retry(ctx, url, "-C", dest, "fetch", "-q", "--depth", "1", url, commit); err != nil {
		return "", err
	}

	actual, _, err := c.run(ctx, dest, "rev-parse", "FETCH_HEAD")
	if err != nil {
		return "", zerr.Wrap(domain.ErrFetchFailed, err.Error())
	}
	actualCommit := strings.TrimSpace(actual)

	if _, _, err := c.run(ctx, dest, "checkout", "-q", "--detach", "FETCH_HEAD"); err != nil {
		return "", zerr.Wrap(domain.ErrFetchFailed, err.Error())
	}

	if err := os.RemoveAll(filepath.Join(dest, ".git")); err != nil {
		return "", zerr.Wrap(domain.ErrFetchFailed, err.Error())
	}

	return actualCommit, nil
}

// resolveRevision expands a revision to a full commit SHA. Full SHAs are
// returned as-is; abbreviated ones are verified and expanded via a shallow
// fetch into a temporary repository.
func (c *ShellClient) resolveRevision(ctx context.Context, url, rev string) (string, error) {
	rev = strings.ToLower(rev)
	if len(rev) == 40 {
		return rev, nil
	}

	tmp, err := os.MkdirTemp("", "nuance-rev-*")
	if err != nil {
		return "", zerr.Wrap(domain.ErrFetchFailed, err.Error())
	}
	defer os.RemoveAll(tmp)

	if _, _, err := c.run(ctx, "", "init", "-q", tmp); err != nil {
		return "", zerr.Wrap(domain.ErrFetchFailed, err.Error())
	}

	if _, stderr, err := c.run(ctx, tmp, "fetch", "-q", "--depth", "1", url, rev); err != nil {
		if isRevisionUnknown(stderr) {
			err := zerr.Wrap(domain.ErrRefNotFound, "revision unknown to remote")
			err = zerr.With(err, "url", url)
			return "", zerr.With(err, "ref", "rev:"+rev)
		}
		return "", zerr.With(zerr.Wrap(domain.ErrRemoteUnreachable, err.Error()), "url", url)
	}

	out, _, err := c.run(ctx, tmp, "rev-parse", "FETCH_HEAD")
	if err != nil {
		return "", zerr.Wrap(domain.ErrFetchFailed, err.Error())
	}
	return strings.TrimSpace(out), nil
}

// retry runs a git command with bounded exponential backoff on transient
// transport failures. Permanent failures surface immediately as
// ErrRemoteUnreachable.
func (c *ShellClient) retry(ctx context.Context, url string, args ...string) (string, error) {
	var stdout string

	operation := func() error {
		out, stderr, err := c.run(ctx, "", args...)
		if err != nil {
			if !isTransient(stderr) {
				return backoff.Permanent(err)
			}
			c.logger.Warn("git command failed, retrying", "url", url)
			return err
		}
		stdout = out
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(newBackOff(), c.maxRetries), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrRemoteUnreachable, err.Error()), "url", url)
	}
	return stdout, nil
}

func newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 30 * time.Second
	return b
}

// runGit executes a git command and captures its output.
func runGit(ctx context.Context, dir string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	// Never prompt for credentials in a non-interactive tool.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
