package ports

import "context"

// Snapshot is a published content cache entry.
type Snapshot struct {
	// Path is the directory holding the commit's exported tree.
	Path string
	// Checksum is the sha256 digest over the tree, computed when the entry
	// was first published.
	Checksum string
}

// ContentCache is the content-addressed store of fetched commit snapshots,
// keyed by (normalized URL, commit) and shared across projects. Entries are
// immutable once published: they are appended and reused, never invalidated.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type ContentCache interface {
	// Ensure returns the snapshot for (url, commit), fetching it exactly once
	// if absent. Concurrent calls for the same key collapse to a single
	// in-flight fetch. Idempotent: a complete entry is returned without any
	// network access.
	Ensure(ctx context.Context, url, commit string) (Snapshot, error)
}
