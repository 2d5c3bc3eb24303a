package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/artrec/core"
)

func newTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rs, err := NewRedisStore(context.Background(), RedisConfig{Addr: mr.Addr(), Prefix: "artrec:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rs.Close() })
	return rs, mr
}

func TestRedisStore_CRUD(t *testing.T) {
	ctx := context.Background()
	rs, mr := newTestRedis(t)

	_, err := rs.Get(ctx, "missing")
	assert.True(t, core.IsStoreNotFound(err))

	require.NoError(t, rs.Set(ctx, "recommendations.json", []byte(`{"u1":[]}`)))
	raw, err := mr.Get("artrec:recommendations.json")
	require.NoError(t, err)
	assert.Equal(t, `{"u1":[]}`, raw)

	got, err := rs.Get(ctx, "recommendations.json")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"u1":[]}`), got)

	require.NoError(t, rs.Set(ctx, "recommendations.json", []byte(`{}`)))
	got, err = rs.Get(ctx, "recommendations.json")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), got)
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	rs, mr := newTestRedis(t)

	require.NoError(t, rs.Set(ctx, "k", []byte("v"), 5))
	assert.Equal(t, 5*time.Second, mr.TTL("artrec:k"))

	mr.FastForward(6 * time.Second)
	_, err := rs.Get(ctx, "k")
	assert.True(t, core.IsStoreNotFound(err))
}

func TestRedisStore_LoadCorpus(t *testing.T) {
	ctx := context.Background()
	rs, _ := newTestRedis(t)
	require.NoError(t, rs.Set(ctx, embeddingsKey, []byte(`{"a": {"vector": [1, 0]}, "b": {"vector": [0, 1]}}`)))

	vs, err := NewVectorStore(rs, embeddingsKey, 4)
	require.NoError(t, err)
	c, err := vs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = NewRedisStore(ctx, RedisConfig{Addr: addr, ConnectRetries: 1})
	assert.Error(t, err)
}
