package revstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// observeScript raises KEYS[1] to ARGV[1] when it is lower and returns the
// resulting value. ARGV[2] is a TTL in milliseconds, 0 for none.
var observeScript = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local want = tonumber(ARGV[1])
if cur < want then
  redis.call('SET', KEYS[1], ARGV[1])
  cur = want
end
if tonumber(ARGV[2]) > 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return tostring(cur)
`)

// Redis shares per-document revisions across processes and survives restarts.
// Optionally, a TTL can be applied to revision keys to prevent unbounded growth.
// If a revision key expires, readers observe rev=0 and stored entries self-heal.
type Redis struct {
	rdb redis.UniversalClient
	ns  string        // logical namespace; should match store Options.Namespace
	ttl time.Duration // optional TTL for revision keys; 0 disables expiry
}

var _ Store = (*Redis)(nil)

// NewRedis creates a Redis-backed revision store. If ttl <= 0, keys do not
// expire.
func NewRedis(client redis.UniversalClient, namespace string, ttl time.Duration) *Redis {
	return &Redis{rdb: client, ns: namespace, ttl: ttl}
}

func (s *Redis) key(k string) string { return "rev:" + s.ns + ":" + k }

// Snapshot returns the current revision.
// Missing keys are treated as revision 0.
func (s *Redis) Snapshot(ctx context.Context, storageKey string) (uint64, error) {
	res, err := s.rdb.Get(ctx, s.key(storageKey)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	u, err := strconv.ParseUint(res, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis rev parse: %w", err)
	}
	return u, nil
}

// Bump atomically increments the revision and (optionally) refreshes TTL.
// When ttl > 0, INCR + EXPIRE are pipelined in a single round-trip.
func (s *Redis) Bump(ctx context.Context, storageKey string) (uint64, error) {
	k := s.key(storageKey)

	if s.ttl <= 0 {
		v, err := s.rdb.Incr(ctx, k).Result()
		if err != nil {
			return 0, err
		}
		return uint64(v), nil
	}

	var incr *redis.IntCmd
	_, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, s.ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return uint64(incr.Val()), nil
}

// Observe runs as a server-side script so concurrent bumps are never lowered.
func (s *Redis) Observe(ctx context.Context, storageKey string, rev uint64) (uint64, error) {
	res, err := observeScript.Run(ctx, s.rdb, []string{s.key(storageKey)},
		strconv.FormatUint(rev, 10), s.ttl.Milliseconds()).Text()
	if err != nil {
		return 0, err
	}
	u, err := strconv.ParseUint(res, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis rev parse: %w", err)
	}
	return u, nil
}

// Cleanup is not applicable for Redis (Redis handles expiry if TTL is set).
func (s *Redis) Cleanup(time.Duration) {}

// Close closes the underlying Redis client.
func (s *Redis) Close(context.Context) error { return s.rdb.Close() }
