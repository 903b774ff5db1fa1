// Package store keeps typed documents in a provider.Provider.
//
// Each document is written through a codec.Codec[V] into a wire envelope
// stamped with its revision. Revisions come from a revstore.Store and give
// optimistic concurrency: Update succeeds only when the caller's observed
// revision is still current.
//
// Entries that cannot be read back (corrupt envelope, foreign format, stale
// revision, payload the codec rejects) are deleted on read and reported as
// ErrNotFound; Hooks.StoreSelfHeal fires for each.
//
// Create and Update write the entry stamped with the next revision first
// and only then raise the revision counter to it, so a write the provider
// refuses leaves the previous document readable.
//
// Operations in one process are serialized per key. Writers in different
// processes sharing a revstore.Redis get conflict detection, but a writer
// that loses a race between its check and its commit leaves the key reading
// as not found until it is written again.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	jc "github.com/unkn0wn-root/jsoncodec"
	"github.com/unkn0wn-root/jsoncodec/codec"
	"github.com/unkn0wn-root/jsoncodec/internal/util"
	"github.com/unkn0wn-root/jsoncodec/internal/wire"
	pr "github.com/unkn0wn-root/jsoncodec/provider"
	"github.com/unkn0wn-root/jsoncodec/revstore"
)

// CostFunc returns the provider cost of a stored entry.
type CostFunc func(storageKey string, raw []byte) int64

// Options configure a Store.
// Only Namespace, Provider and Codec are required; others have sensible defaults.
type Options[V any] struct {
	// Required
	Namespace string // logical namespace to avoid collisions. e.g. "todo", "people"
	Provider  pr.Provider
	Codec     codec.Codec[V]

	Revisions       revstore.Store // nil => revstore.Local owned by the Store
	TTL             time.Duration  // 0 => documents never expire
	CleanupInterval time.Duration  // Local revisions only; 0 => no cleanup
	RevRetention    time.Duration  // Local revisions only; 0 => keep forever
	ComputeCost     CostFunc       // default 1
	Logger          jc.Logger      // if nil, NopLogger is used
	Hooks           jc.Hooks       // if nil, NopHooks is used
}

const lockStripes = 64

type Store[V any] struct {
	ns       string
	provider pr.Provider
	codec    codec.Codec[V]
	format   wire.Format
	revs     revstore.Store
	ownRevs  bool
	ttl      time.Duration
	cost     CostFunc
	log      jc.Logger
	hooks    jc.Hooks
	locks    [lockStripes]sync.Mutex
}

func New[V any](opts Options[V]) (*Store[V], error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("store: provider is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("store: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("store: namespace is required")
	}

	s := &Store[V]{
		ns:       opts.Namespace,
		provider: opts.Provider,
		codec:    opts.Codec,
		format:   formatOf(opts.Codec),
		ttl:      opts.TTL,
		log:      util.Coalesce[jc.Logger](opts.Logger, jc.NopLogger{}),
		hooks:    util.Coalesce[jc.Hooks](opts.Hooks, jc.NopHooks{}),
	}
	if opts.ComputeCost != nil {
		s.cost = opts.ComputeCost
	} else {
		s.cost = func(string, []byte) int64 { return 1 }
	}
	if opts.Revisions != nil {
		s.revs = opts.Revisions
	} else {
		s.revs = revstore.NewLocal(opts.CleanupInterval, opts.RevRetention)
		s.ownRevs = true
	}
	return s, nil
}

func formatOf(c any) wire.Format {
	if ct, ok := c.(interface{ ContentType() string }); ok {
		return wire.FormatOf(ct.ContentType())
	}
	return wire.FormatUnknown
}

// Close closes the revision store if the Store created it, then the provider.
func (s *Store[V]) Close(ctx context.Context) error {
	if s.ownRevs {
		_ = s.revs.Close(ctx)
	}
	return s.provider.Close(ctx)
}

func (s *Store[V]) key(id string) string { return util.DocKey(s.ns, id) }

func (s *Store[V]) lock(k string) *sync.Mutex {
	return &s.locks[xxhash.Sum64String(k)%lockStripes]
}

// Create stores v under a new id and returns its revision.
// It fails with ErrExists when a readable document is already there.
func (s *Store[V]) Create(ctx context.Context, id string, v V) (uint64, error) {
	k := s.key(id)
	mu := s.lock(k)
	mu.Lock()
	defer mu.Unlock()

	_, _, found, err := s.load(ctx, k)
	if err != nil {
		return 0, opErr("create", id, err)
	}
	if found {
		return 0, opErr("create", id, ErrExists)
	}
	cur, err := s.revs.Snapshot(ctx, k)
	if err != nil {
		return 0, opErr("create", id, err)
	}
	rev, err := s.commit(ctx, k, cur, v)
	if err != nil {
		return 0, opErr("create", id, err)
	}
	return rev, nil
}

// Read returns the document and its current revision.
func (s *Store[V]) Read(ctx context.Context, id string) (V, uint64, error) {
	k := s.key(id)
	mu := s.lock(k)
	mu.Lock()
	v, rev, found, err := s.load(ctx, k)
	mu.Unlock()
	if err != nil {
		var zero V
		return zero, 0, opErr("read", id, err)
	}
	if !found {
		var zero V
		return zero, 0, opErr("read", id, ErrNotFound)
	}
	return v, rev, nil
}

// Update replaces the document when observedRev is still its revision and
// returns the new revision. A stale observedRev yields ErrConflict.
func (s *Store[V]) Update(ctx context.Context, id string, v V, observedRev uint64) (uint64, error) {
	k := s.key(id)
	mu := s.lock(k)
	mu.Lock()
	defer mu.Unlock()

	_, cur, found, err := s.load(ctx, k)
	if err != nil {
		return 0, opErr("update", id, err)
	}
	if !found {
		return 0, opErr("update", id, ErrNotFound)
	}
	if cur != observedRev {
		s.log.Debug("update skipped (rev mismatch)", jc.Fields{"id": id, "obs": observedRev, "cur": cur})
		return 0, opErr("update", id, ErrConflict)
	}
	rev, err := s.commit(ctx, k, cur, v)
	if err != nil {
		return 0, opErr("update", id, err)
	}
	return rev, nil
}

// Delete removes the document. Its revision keeps counting, so a later
// Create under the same id starts above every revision handed out before.
func (s *Store[V]) Delete(ctx context.Context, id string) error {
	k := s.key(id)
	mu := s.lock(k)
	mu.Lock()
	defer mu.Unlock()

	_, _, found, err := s.load(ctx, k)
	if err != nil {
		return opErr("delete", id, err)
	}
	if !found {
		return opErr("delete", id, ErrNotFound)
	}
	newRev, err := s.revs.Bump(ctx, k)
	if err != nil {
		return opErr("delete", id, err)
	}
	if err := s.provider.Del(ctx, k); err != nil {
		return opErr("delete", id, err)
	}
	s.log.Debug("deleted document (bumped rev + cleared entry)", jc.Fields{"id": id, "newRev": newRev})
	return nil
}

// commit writes v at revision cur+1 and then raises the counter to it.
// The counter is untouched when the write fails. If the counter has moved
// past cur+1 meanwhile, the write is stale and commit reports ErrConflict.
func (s *Store[V]) commit(ctx context.Context, k string, cur uint64, v V) (uint64, error) {
	rev := cur + 1
	if err := s.write(ctx, k, rev, v); err != nil {
		return 0, err
	}
	got, err := s.revs.Observe(ctx, k, rev)
	if err != nil {
		return 0, err
	}
	if got != rev {
		// another process moved the revision between our check and our commit
		s.log.Warn("write lost race", jc.Fields{"key": k, "rev": rev, "cur": got})
		return 0, ErrConflict
	}
	return rev, nil
}

func (s *Store[V]) write(ctx context.Context, k string, rev uint64, v V) error {
	payload, err := s.codec.Encode(v)
	if err != nil {
		return err
	}
	raw := wire.EncodeDoc(s.format, rev, payload)
	ok, err := s.provider.Set(ctx, k, raw, s.cost(k, raw), s.ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Warn("write rejected by provider (pressure)", jc.Fields{"key": k, "rev": rev})
		return ErrRejected
	}
	return nil
}

// load reads and validates the entry at k. Unreadable entries are deleted
// and reported as not found.
func (s *Store[V]) load(ctx context.Context, k string) (V, uint64, bool, error) {
	var zero V
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil || !ok {
		return zero, 0, false, err
	}
	f, rev, payload, err := wire.DecodeDoc(raw)
	if err != nil {
		return zero, 0, false, s.heal(ctx, k, "corrupt")
	}
	if f != s.format {
		return zero, 0, false, s.heal(ctx, k, "format")
	}
	cur, err := s.revs.Snapshot(ctx, k)
	if err != nil {
		return zero, 0, false, err
	}
	switch {
	case rev < cur:
		return zero, 0, false, s.heal(ctx, k, "stale")
	case rev > cur:
		if cur, err = s.revs.Observe(ctx, k, rev); err != nil {
			return zero, 0, false, err
		}
		if rev != cur {
			return zero, 0, false, s.heal(ctx, k, "stale")
		}
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		return zero, 0, false, s.heal(ctx, k, "value_decode")
	}
	return v, rev, true, nil
}

func (s *Store[V]) heal(ctx context.Context, k, reason string) error {
	s.hooks.StoreSelfHeal(k, reason)
	s.log.Debug("dropped unreadable entry", jc.Fields{"key": k, "reason": reason})
	if err := s.provider.Del(ctx, k); err != nil {
		return fmt.Errorf("self-heal %s: %w", reason, err)
	}
	return nil
}

func opErr(op, id string, err error) error {
	var oe *OpError
	if errors.As(err, &oe) {
		return err
	}
	return &OpError{Op: op, ID: id, Err: err}
}
