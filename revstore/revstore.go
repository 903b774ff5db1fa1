// Package revstore keeps the per-document revision counters used by store.
//
// A document's revision is the counter value at its last write. Readers
// compare the revision stamped into a stored entry with the current counter:
// an older entry is stale, a newer one means the counter was lost (process
// restart, expired key) and is raised back with Observe.
package revstore

import (
	"context"
	"time"
)

// Store abstracts where revisions live.
// Use Local (default) for in-process revisions, or Redis to share them.
type Store interface {
	// Snapshot returns the current revision; missing => 0.
	Snapshot(ctx context.Context, storageKey string) (uint64, error)
	// Bump atomically increments and returns the new revision.
	Bump(ctx context.Context, storageKey string) (uint64, error)
	// Observe raises the revision to at least rev and returns the result.
	// Used when a stored entry is newer than the counter (counter lost).
	Observe(ctx context.Context, storageKey string, rev uint64) (uint64, error)
	// Cleanup prunes old metadata if applicable (no-op for Redis).
	Cleanup(retention time.Duration)
	// Close releases resources (no-op ok).
	Close(context.Context) error
}
