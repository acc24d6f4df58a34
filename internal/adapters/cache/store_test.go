package cache_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/nuance/internal/adapters/cache"
	"go.trai.ch/nuance/internal/core/domain"
	"go.trai.ch/nuance/internal/core/ports/mocks"
)

const (
	repoURL = "https://example.com/repo"
	shaA    = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

// writeTree populates dest the way a git fetch would, so tests can observe
// the cached result.
func writeTree(t *testing.T, dest string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dest, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func newStore(t *testing.T, client *mocks.MockGitClient) *cache.Store {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()

	s, err := cache.NewStore(t.TempDir(), client, log)
	require.NoError(t, err)
	return s
}

func TestStore_Ensure_FetchesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockGitClient(ctrl)
	client.EXPECT().
		FetchContent(gomock.Any(), repoURL, shaA, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, commit, dest string) (string, error) {
			writeTree(t, dest, map[string]string{"mod.nu": "export def hello [] {}"})
			return commit, nil
		}).
		Times(1)

	s := newStore(t, client)

	first, err := s.Ensure(context.Background(), repoURL, shaA)
	require.NoError(t, err)
	assert.DirExists(t, first.Path)
	assert.NotEmpty(t, first.Checksum)
	assert.FileExists(t, filepath.Join(first.Path, "mod.nu"))

	// Second call must be served from the cache without another fetch.
	second, err := s.Ensure(context.Background(), repoURL, shaA)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStore_Ensure_CollapsesConcurrentFetches(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockGitClient(ctrl)
	client.EXPECT().
		FetchContent(gomock.Any(), repoURL, shaA, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, commit, dest string) (string, error) {
			writeTree(t, dest, map[string]string{"mod.nu": "# module"})
			return commit, nil
		}).
		Times(1)

	s := newStore(t, client)

	const goroutines = 8
	var wg sync.WaitGroup
	results := make([]string, goroutines)
	errs := make([]error, goroutines)

	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := s.Ensure(context.Background(), repoURL, shaA)
			results[i] = snap.Checksum
			errs[i] = err
		}()
	}
	wg.Wait()

	for i := range goroutines {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
}

func TestStore_Ensure_ContentMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockGitClient(ctrl)
	client.EXPECT().
		FetchContent(gomock.Any(), repoURL, shaA, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, dest string) (string, error) {
			writeTree(t, dest, map[string]string{"mod.nu": "# module"})
			return "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", nil
		})

	s := newStore(t, client)

	_, err := s.Ensure(context.Background(), repoURL, shaA)
	assert.ErrorIs(t, err, domain.ErrContentMismatch)
}

func TestStore_Ensure_ChecksumIsDeterministic(t *testing.T) {
	files := map[string]string{
		"mod.nu":        "export def hello [] {}",
		"lib/util.nu":   "export def util [] {}",
		"lib/deep/x.nu": "# x",
	}

	checksums := make([]string, 2)
	for i := range checksums {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockGitClient(ctrl)
		client.EXPECT().
			FetchContent(gomock.Any(), repoURL, shaA, gomock.Any()).
			DoAndReturn(func(_ context.Context, _, commit, dest string) (string, error) {
				writeTree(t, dest, files)
				return commit, nil
			})

		s := newStore(t, client)
		snap, err := s.Ensure(context.Background(), repoURL, shaA)
		require.NoError(t, err)
		checksums[i] = snap.Checksum
	}

	assert.Equal(t, checksums[0], checksums[1], "identical trees must hash identically across stores")
}

func TestStore_Ensure_DistinctCommitsGetDistinctPaths(t *testing.T) {
	shaB := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

	ctrl := gomock.NewController(t)
	client := mocks.NewMockGitClient(ctrl)
	client.EXPECT().
		FetchContent(gomock.Any(), repoURL, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, commit, dest string) (string, error) {
			writeTree(t, dest, map[string]string{"mod.nu": "# " + commit})
			return commit, nil
		}).
		Times(2)

	s := newStore(t, client)

	a, err := s.Ensure(context.Background(), repoURL, shaA)
	require.NoError(t, err)
	b, err := s.Ensure(context.Background(), repoURL, shaB)
	require.NoError(t, err)

	assert.NotEqual(t, a.Path, b.Path)
	assert.NotEqual(t, a.Checksum, b.Checksum)
}
