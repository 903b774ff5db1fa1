package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "docs.jsonl")

	p, err := Open(path)
	require.NoError(t, err)
	raw := []byte{'J', 'S', 'N', 'C', 0x00, 0xff}
	ok, err := p.Set(ctx, "doc:todo:1", raw, 1, 0)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = p.Set(ctx, "doc:todo:2", []byte("two"), 1, 0)
	require.NoError(t, err)
	require.NoError(t, p.Del(ctx, "doc:todo:2"))
	require.NoError(t, p.Close(ctx))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(b), "\n"))

	p2, err := Open(path)
	require.NoError(t, err)
	got, ok, err := p2.Get(ctx, "doc:todo:1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, raw, got)
	_, ok, _ = p2.Get(ctx, "doc:todo:2")
	assert.False(t, ok)
}

func TestMissingFileIsEmpty(t *testing.T) {
	p, err := Open(filepath.Join(t.TempDir(), "none.jsonl"))
	require.NoError(t, err)
	_, ok, err := p.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCorruptFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{not json\n"), 0o600))
	_, err := Open(path)
	assert.Error(t, err)
}

func TestTTLAndClosed(t *testing.T) {
	ctx := context.Background()
	p, err := Open(filepath.Join(t.TempDir(), "ttl.jsonl"))
	require.NoError(t, err)
	clock := clockwork.NewFakeClockAt(time.Unix(1_000, 0))
	p.clock = clock

	_, err = p.Set(ctx, "k", []byte("v"), 1, time.Second)
	require.NoError(t, err)
	_, ok, _ := p.Get(ctx, "k")
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok, _ = p.Get(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, p.Close(ctx))
	_, _, err = p.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	p, err := Open(filepath.Join(t.TempDir(), "copy.jsonl"))
	require.NoError(t, err)
	_, err = p.Set(ctx, "k", []byte("abc"), 1, 0)
	require.NoError(t, err)

	got, ok, err := p.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	got[0] = 'x'

	again, _, err := p.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
