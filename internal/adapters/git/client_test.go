package git_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/nuance/internal/adapters/git"
	"go.trai.ch/nuance/internal/core/domain"
	"go.trai.ch/nuance/internal/core/ports"
	"go.trai.ch/nuance/internal/core/ports/mocks"
)

const (
	shaA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	shaB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	shaC = "cccccccccccccccccccccccccccccccccccccccc"
)

func newClient(t *testing.T) *git.ShellClient {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	return git.NewShellClient(log)
}

func TestParseLsRemote(t *testing.T) {
	t.Parallel()

	out := strings.Join([]string{
		shaA + "\trefs/heads/main",
		shaB + "\trefs/tags/v1.0.0",
		shaC + "\trefs/tags/v1.0.0^{}",
		shaB + "\trefs/tags/v0.9.0",
		"",
	}, "\n")

	refs := git.ParseLsRemote(out)
	require.Len(t, refs, 3)

	byName := make(map[string]ports.RemoteRef)
	for _, r := range refs {
		byName[string(r.Kind)+":"+r.Name] = r
	}

	assert.Equal(t, shaA, byName["branch:main"].Commit)
	// The peeled entry wins for annotated tags.
	assert.Equal(t, shaC, byName["tag:v1.0.0"].Commit)
	assert.Equal(t, shaB, byName["tag:v0.9.0"].Commit)
}

func TestParseLsRemote_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, git.ParseLsRemote(""))
	assert.Empty(t, git.ParseLsRemote("\n\n"))
}

func TestParseSymrefHead(t *testing.T) {
	t.Parallel()

	out := "ref: refs/heads/develop\tHEAD\n" + shaA + "\tHEAD\n"
	branch, ok := git.ParseSymrefHead(out)
	require.True(t, ok)
	assert.Equal(t, "develop", branch)

	_, ok = git.ParseSymrefHead(shaA + "\tHEAD\n")
	assert.False(t, ok)
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	assert.True(t, git.IsTransient("fatal: unable to access 'x': Could not resolve host: example.com"))
	assert.True(t, git.IsTransient("fatal: the remote end hung up unexpectedly"))
	assert.False(t, git.IsTransient("remote: Repository not found."))
	assert.False(t, git.IsTransient("fatal: Authentication failed"))
}

func TestIsRevisionUnknown(t *testing.T) {
	t.Parallel()

	assert.True(t, git.IsRevisionUnknown("fatal: couldn't find remote ref deadbee"))
	assert.True(t, git.IsRevisionUnknown("error: upload-pack: not our ref deadbee"))
	assert.False(t, git.IsRevisionUnknown("fatal: Could not resolve host: example.com"))
}

func TestShellClient_ListRefs(t *testing.T) {
	c := newClient(t)
	c.SetRunner(func(_ context.Context, dir string, args ...string) (string, string, error) {
		assert.Empty(t, dir)
		assert.Equal(t, []string{"ls-remote", "--tags", "--heads", "https://example.com/repo"}, args)
		return shaA + "\trefs/heads/main\n", "", nil
	})

	refs, err := c.ListRefs(context.Background(), "https://example.com/repo")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "main", refs[0].Name)
	assert.Equal(t, domain.RefBranch, refs[0].Kind)
}

func TestShellClient_ListRefs_PermanentFailure(t *testing.T) {
	calls := 0
	c := newClient(t)
	c.SetRunner(func(context.Context, string, ...string) (string, string, error) {
		calls++
		return "", "remote: Repository not found.", errors.New("exit status 128")
	})

	_, err := c.ListRefs(context.Background(), "https://example.com/missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemoteUnreachable)
	assert.Equal(t, 1, calls, "permanent failures must not be retried")
}

func TestShellClient_ListRefs_TransientRetry(t *testing.T) {
	calls := 0
	c := newClient(t)
	c.SetMaxRetries(3)
	c.SetRunner(func(context.Context, string, ...string) (string, string, error) {
		calls++
		if calls < 3 {
			return "", "fatal: Could not resolve host: example.com", errors.New("exit status 128")
		}
		return shaA + "\trefs/heads/main\n", "", nil
	})

	refs, err := c.ListRefs(context.Background(), "https://example.com/repo")
	require.NoError(t, err)
	assert.Len(t, refs, 1)
	assert.Equal(t, 3, calls)
}

func TestShellClient_ResolveRef_Tag(t *testing.T) {
	c := newClient(t)
	c.SetRunner(func(context.Context, string, ...string) (string, string, error) {
		return shaB + "\trefs/tags/v1.0.0\n" + shaA + "\trefs/heads/v1.0.0\n", "", nil
	})

	commit, err := c.ResolveRef(context.Background(), "https://example.com/repo", domain.TagRef("v1.0.0"))
	require.NoError(t, err)
	assert.Equal(t, shaB, commit, "tag must win over a branch of the same name")
}

func TestShellClient_ResolveRef_NotFound(t *testing.T) {
	c := newClient(t)
	c.SetRunner(func(context.Context, string, ...string) (string, string, error) {
		return shaA + "\trefs/heads/main\n", "", nil
	})

	_, err := c.ResolveRef(context.Background(), "https://example.com/repo", domain.BranchRef("gone"))
	assert.ErrorIs(t, err, domain.ErrRefNotFound)
}

func TestShellClient_ResolveRef_FullRevisionPassesThrough(t *testing.T) {
	c := newClient(t)
	c.SetRunner(func(context.Context, string, ...string) (string, string, error) {
		t.Fatal("full SHA revisions must not hit the network")
		return "", "", nil
	})

	commit, err := c.ResolveRef(context.Background(), "https://example.com/repo", domain.RevisionRef(strings.ToUpper(shaA)))
	require.NoError(t, err)
	assert.Equal(t, shaA, commit)
}

func TestShellClient_DefaultBranch(t *testing.T) {
	c := newClient(t)
	c.SetRunner(func(_ context.Context, _ string, args ...string) (string, string, error) {
		assert.Equal(t, []string{"ls-remote", "--symref", "https://example.com/repo", "HEAD"}, args)
		return "ref: refs/heads/main\tHEAD\n" + shaA + "\tHEAD\n", "", nil
	})

	branch, err := c.DefaultBranch(context.Background(), "https://example.com/repo")
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}
