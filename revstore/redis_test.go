package revstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedis(client, "todo", ttl)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s, mr
}

func TestRedisSnapshotAndBump(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedis(t, 0)

	r, err := s.Snapshot(ctx, "doc:todo:1")
	require.NoError(t, err)
	assert.Zero(t, r)

	r, err = s.Bump(ctx, "doc:todo:1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), r)
	r, err = s.Bump(ctx, "doc:todo:1")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), r)

	got, err := mr.Get("rev:todo:doc:todo:1")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
	assert.Zero(t, mr.TTL("rev:todo:doc:todo:1"))
}

func TestRedisBumpRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedis(t, time.Minute)

	_, err := s.Bump(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL("rev:todo:k"))

	mr.FastForward(2 * time.Minute)
	r, err := s.Snapshot(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, r, "expired revision reads as 0")
}

func TestRedisSnapshotGarbage(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedis(t, 0)

	require.NoError(t, mr.Set("rev:todo:k", "not-a-number"))
	_, err := s.Snapshot(ctx, "k")
	assert.Error(t, err)
}

func TestRedisObserve(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedis(t, time.Minute)

	r, err := s.Observe(ctx, "k", 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), r)
	assert.Equal(t, time.Minute, mr.TTL("rev:todo:k"))

	r, err = s.Observe(ctx, "k", 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), r)

	r, err = s.Bump(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, uint64(8), r)
}
