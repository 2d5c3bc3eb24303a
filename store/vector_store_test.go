package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/artrec/core"
)

const embeddingsKey = "embeddings/article_vectors.json"

func newLoadedStore(t *testing.T, doc string, cacheSize int) (*VectorStore, *MemoryStore) {
	t.Helper()
	ms := NewMemoryStore()
	require.NoError(t, ms.Set(context.Background(), embeddingsKey, []byte(doc)))
	vs, err := NewVectorStore(ms, embeddingsKey, cacheSize)
	require.NoError(t, err)
	_, err = vs.Load(context.Background())
	require.NoError(t, err)
	return vs, ms
}

func TestVectorStore_LoadAndLookup(t *testing.T) {
	vs, _ := newLoadedStore(t, `{"a": {"vector": [1, 0]}, "b": {"vector": [0, 1]}}`, 2)

	v, err := vs.GetVector("a")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, v)
	assert.Equal(t, 1, vs.CacheLen())

	_, err = vs.GetVector("missing")
	assert.True(t, errors.Is(err, core.ErrVectorNotFound))
	assert.True(t, core.IsNotFound(err))
}

func cached(t *testing.T, vs *VectorStore, id string) bool {
	t.Helper()
	c, err := vs.Corpus()
	require.NoError(t, err)
	return vs.cache.lru.Contains(cacheKey{gen: c.Generation(), id: id})
}

func TestVectorStore_LRUEviction(t *testing.T) {
	vs, _ := newLoadedStore(t, `{"a": {"vector": [1]}, "b": {"vector": [2]}, "c": {"vector": [3]}}`, 2)

	for _, id := range []string{"a", "b", "a", "c"} {
		_, err := vs.GetVector(id)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, vs.CacheLen())
	assert.True(t, cached(t, vs, "a"))
	assert.False(t, cached(t, vs, "b"), "least recently used entry is evicted")
	assert.True(t, cached(t, vs, "c"))

	v, err := vs.GetVector("b")
	require.NoError(t, err)
	assert.Equal(t, []float32{2}, v)
	assert.False(t, cached(t, vs, "a"))
}

func TestVectorStore_GetVectorReturnsCopy(t *testing.T) {
	vs, _ := newLoadedStore(t, `{"a": {"vector": [1, 0]}}`, 2)

	// 第一次未命中，第二次命中缓存，两条路径都不能暴露缓存中的切片
	for i := 0; i < 2; i++ {
		v, err := vs.GetVector("a")
		require.NoError(t, err)
		v[0] = 99
	}
	v, err := vs.GetVector("a")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, v)

	c, err := vs.Corpus()
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, c.Matrix()[:2])
}

func TestVectorStore_NotLoaded(t *testing.T) {
	vs, err := NewVectorStore(NewMemoryStore(), embeddingsKey, 0)
	require.NoError(t, err)

	_, err = vs.Corpus()
	assert.True(t, core.IsEmptyCorpus(err))

	_, err = vs.Load(context.Background())
	assert.True(t, core.IsDataLoad(err))
}

func TestVectorStore_ReloadSwapsSnapshot(t *testing.T) {
	vs, ms := newLoadedStore(t, `{"a": {"vector": [1, 0]}}`, 8)

	old, err := vs.Corpus()
	require.NoError(t, err)
	_, err = vs.GetVector("a")
	require.NoError(t, err)

	require.NoError(t, ms.Set(context.Background(), embeddingsKey, []byte(`{"a": {"vector": [0, 5]}, "b": {"vector": [1, 1]}}`)))
	fresh, err := vs.Reload(context.Background())
	require.NoError(t, err)
	assert.Greater(t, fresh.Generation(), old.Generation())

	// 旧快照保持不变
	assert.Equal(t, 1, old.Len())
	ov, err := old.GetVector("a")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, ov)

	nv, err := vs.GetVector("a")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 5}, nv)
}

func TestVectorStore_FailedReloadKeepsSnapshot(t *testing.T) {
	vs, ms := newLoadedStore(t, `{"a": {"vector": [1]}}`, 8)

	require.NoError(t, ms.Set(context.Background(), embeddingsKey, []byte(`{"a": {"vector": []}}`)))
	_, err := vs.Reload(context.Background())
	assert.True(t, core.IsEmptyCorpus(err))

	c, err := vs.Corpus()
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestVectorStore_ConcurrentLookups(t *testing.T) {
	vs, _ := newLoadedStore(t, `{"a": {"vector": [1]}, "b": {"vector": [2]}, "c": {"vector": [3]}}`, 2)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := []string{"a", "b", "c"}[i%3]
			_, err := vs.GetVector(id)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}

func TestNewVectorStore_Validation(t *testing.T) {
	_, err := NewVectorStore(nil, embeddingsKey, 1)
	assert.True(t, core.IsInvalidInput(err))

	_, err = NewVectorStore(NewMemoryStore(), embeddingsKey, 1,
		WithCorpusOptions(CorpusOptions{DimensionPolicy: "median"}))
	assert.True(t, core.IsInvalidInput(err))
}
