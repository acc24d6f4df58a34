// Package cache implements the shared content cache, keyed by repository URL
// and commit.
package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"go.trai.ch/nuance/internal/core/domain"
	"go.trai.ch/nuance/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.ContentCache on the local filesystem.
//
// Layout: <root>/<repo>-<urlhash>/<commit>/ holds the extracted tree and
// <root>/<repo>-<urlhash>/<commit>.sum its checksum. Population is atomic:
// content is fetched into a temporary sibling and renamed into place, so a
// cache directory either exists completely or not at all.
type Store struct {
	root   string
	git    ports.GitClient
	logger ports.Logger
	group  singleflight.Group
}

// NewStore creates a content cache rooted at root.
func NewStore(root string, git ports.GitClient, logger ports.Logger) (*Store, error) {
	if err := os.MkdirAll(root, domain.DirPerm); err != nil {
		return nil, zerr.Wrap(domain.ErrCacheCreateFailed, err.Error())
	}
	return &Store{
		root:   filepath.Clean(root),
		git:    git,
		logger: logger,
	}, nil
}

// Ensure returns a snapshot of the given commit's tree, fetching it from the
// remote only when it is not cached yet. Concurrent calls for the same
// (url, commit) pair collapse into a single fetch.
func (s *Store) Ensure(ctx context.Context, url, commit string) (ports.Snapshot, error) {
	key := url + "@" + commit

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.ensure(ctx, url, commit)
	})
	if err != nil {
		return ports.Snapshot{}, err
	}

	snapshot, ok := v.(ports.Snapshot)
	if !ok {
		return ports.Snapshot{}, zerr.New("unexpected cache entry type")
	}
	return snapshot, nil
}

func (s *Store) ensure(ctx context.Context, url, commit string) (ports.Snapshot, error) {
	dir := s.entryDir(url, commit)

	if _, err := os.Stat(dir); err == nil {
		checksum, err := s.entryChecksum(dir)
		if err != nil {
			return ports.Snapshot{}, err
		}
		return ports.Snapshot{Path: dir, Checksum: checksum}, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return ports.Snapshot{}, zerr.Wrap(domain.ErrCacheCreateFailed, err.Error())
	}

	return s.populate(ctx, url, commit, dir)
}

func (s *Store) populate(ctx context.Context, url, commit, dir string) (ports.Snapshot, error) {
	if err := os.MkdirAll(filepath.Dir(dir), domain.DirPerm); err != nil {
		return ports.Snapshot{}, zerr.Wrap(domain.ErrCacheCreateFailed, err.Error())
	}

	tmp, err := os.MkdirTemp(filepath.Dir(dir), filepath.Base(dir)+".tmp-*")
	if err != nil {
		return ports.Snapshot{}, zerr.Wrap(domain.ErrCacheCreateFailed, err.Error())
	}
	defer os.RemoveAll(tmp)

	s.logger.Info("fetching", "url", url, "commit", shortCommit(commit))

	actual, err := s.git.FetchContent(ctx, url, commit, tmp)
	if err != nil {
		return ports.Snapshot{}, err
	}
	if actual != commit {
		err := zerr.Wrap(domain.ErrContentMismatch, "fetched commit differs from requested")
		err = zerr.With(err, "url", url)
		err = zerr.With(err, "requested", commit)
		return ports.Snapshot{}, zerr.With(err, "fetched", actual)
	}

	checksum, err := hashTree(tmp)
	if err != nil {
		return ports.Snapshot{}, err
	}

	if err := os.Rename(tmp, dir); err != nil {
		// Another process may have populated the entry first; its content is
		// identical by construction.
		if _, statErr := os.Stat(dir); statErr != nil {
			return ports.Snapshot{}, zerr.Wrap(domain.ErrCacheCreateFailed, err.Error())
		}
	}

	if err := os.WriteFile(dir+".sum", []byte(checksum+"\n"), domain.FilePerm); err != nil {
		return ports.Snapshot{}, zerr.Wrap(domain.ErrCacheCreateFailed, err.Error())
	}

	return ports.Snapshot{Path: dir, Checksum: checksum}, nil
}

// entryChecksum reads the recorded checksum of a cached entry, rehashing the
// tree when the sidecar file is missing.
func (s *Store) entryChecksum(dir string) (string, error) {
	data, err := os.ReadFile(dir + ".sum")
	if err == nil {
		return strings.TrimSpace(string(data)), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", zerr.Wrap(domain.ErrCacheCreateFailed, err.Error())
	}

	checksum, err := hashTree(dir)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(dir+".sum", []byte(checksum+"\n"), domain.FilePerm); err != nil {
		return "", zerr.Wrap(domain.ErrCacheCreateFailed, err.Error())
	}
	return checksum, nil
}

// entryDir derives the cache directory for a (url, commit) pair. The repo
// name is kept in the path for debuggability; the hash disambiguates repos
// with the same name on different hosts.
func (s *Store) entryDir(url, commit string) string {
	normalized := domain.NormalizeURL(url)
	repoDir := fmt.Sprintf("%s-%016x", domain.RepoNameFromURL(normalized), xxhash.Sum64String(normalized))
	return filepath.Join(s.root, repoDir, commit)
}

func shortCommit(commit string) string {
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}
