package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/artrec/core"
)

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	defer ms.Close()

	_, err := ms.Get(ctx, "k")
	assert.True(t, core.IsStoreNotFound(err))

	buf := []byte("v1")
	require.NoError(t, ms.Set(ctx, "k", buf))
	buf[0] = 'x'
	got, err := ms.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	got[0] = 'y'
	again, err := ms.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), again)
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ms.now = func() time.Time { return now }

	require.NoError(t, ms.Set(ctx, "k", []byte("v"), 10))
	_, err := ms.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(11 * time.Second)
	_, err = ms.Get(ctx, "k")
	assert.True(t, core.IsStoreNotFound(err))
}
