package store

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/logging"
	"github.com/rushteam/artrec/metrics"
)

type cacheKey struct {
	gen uint64
	id  string
}

// vectorCache 是 VectorStore 持有的按物品 ID 的向量 LRU 缓存。
// key 带快照代数，重新加载后旧快照的条目不会被新快照命中。
// 缓存中的切片不外泄，每次返回副本。
type vectorCache struct {
	lru *lru.Cache[cacheKey, []float32]
}

func newVectorCache(size int) (*vectorCache, error) {
	c, err := lru.New[cacheKey, []float32](size)
	if err != nil {
		return nil, err
	}
	return &vectorCache{lru: c}, nil
}

func (vc *vectorCache) get(c *Corpus, id string) ([]float32, error) {
	key := cacheKey{gen: c.generation, id: id}
	if v, ok := vc.lru.Get(key); ok {
		metrics.VectorCacheLookups.WithLabelValues("hit").Inc()
		return slices.Clone(v), nil
	}
	v, err := c.copyRow(id)
	if err != nil {
		metrics.VectorCacheLookups.WithLabelValues("not_found").Inc()
		return nil, err
	}
	metrics.VectorCacheLookups.WithLabelValues("miss").Inc()
	vc.lru.Add(key, v)
	return slices.Clone(v), nil
}

// VectorStore 从 core.Store 加载语料快照，并提供带 LRU 缓存的向量查找。
//
// 快照通过 atomic.Pointer 整体替换：已取得旧快照的请求继续看到一致的旧数据，
// 新请求看到新快照。缓存是实例状态，多个 VectorStore 互不影响。
type VectorStore struct {
	store   core.Store
	key     string
	opts    CorpusOptions
	timeout time.Duration

	cache   *vectorCache
	current atomic.Pointer[Corpus]
	gen     atomic.Uint64
	mu      sync.Mutex // 串行化 Load
}

// VectorStoreOption 配置 VectorStore。
type VectorStoreOption func(*VectorStore)

// WithCorpusOptions 设置维度策略。
func WithCorpusOptions(opts CorpusOptions) VectorStoreOption {
	return func(vs *VectorStore) { vs.opts = opts }
}

// WithLoadTimeout 设置 Load 在 ctx 无截止时间时的超时。
func WithLoadTimeout(d time.Duration) VectorStoreOption {
	return func(vs *VectorStore) { vs.timeout = d }
}

// NewVectorStore 创建 VectorStore。cacheSize <= 0 时使用默认容量。
// 创建后需调用 Load 才能查询。
func NewVectorStore(s core.Store, key string, cacheSize int, opts ...VectorStoreOption) (*VectorStore, error) {
	if s == nil {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "store: nil backend")
	}
	cfg := &core.DefaultRecommendConfig{}
	if cacheSize <= 0 {
		cacheSize = cfg.DefaultCacheSize()
	}
	cache, err := newVectorCache(cacheSize)
	if err != nil {
		return nil, err
	}
	vs := &VectorStore{
		store:   s,
		key:     key,
		timeout: cfg.DefaultLoadTimeout(),
		cache:   cache,
	}
	for _, opt := range opts {
		opt(vs)
	}
	if err := vs.opts.Validate(); err != nil {
		return nil, err
	}
	return vs, nil
}

// Load 读取并解析语料，成功后原子替换当前快照；失败时保留旧快照。
func (vs *VectorStore) Load(ctx context.Context) (*Corpus, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok && vs.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, vs.timeout)
		defer cancel()
	}

	log := logging.Ctx(ctx, logging.Component("store"))
	start := time.Now()

	data, err := vs.store.Get(ctx, vs.key)
	if err != nil {
		if errors.Is(err, core.ErrStoreNotFound) {
			return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeDataLoad,
				"store: embeddings not found at "+vs.key, err)
		}
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeDataLoad,
			"store: read embeddings from "+vs.store.Name(), err)
	}

	c, err := ParseCorpus(data, vs.opts)
	if err != nil {
		return nil, err
	}
	vs.install(c)

	elapsed := time.Since(start)
	metrics.CorpusLoadDuration.Observe(elapsed.Seconds())
	log.Info().
		Str("backend", vs.store.Name()).
		Str("key", vs.key).
		Int("items", c.Len()).
		Int("dimension", c.Dimension()).
		Int("discarded", len(c.Report.Discarded)).
		Int("repaired", len(c.Report.Padded)+len(c.Report.Truncated)).
		Int("rejected", len(c.Report.Rejected)).
		Dur("duration", elapsed).
		Msg("corpus loaded")
	return c, nil
}

// Reload 等价于 Load，语义上强调整体替换。
func (vs *VectorStore) Reload(ctx context.Context) (*Corpus, error) {
	return vs.Load(ctx)
}

func (vs *VectorStore) install(c *Corpus) {
	c.generation = vs.gen.Add(1)
	c.cache = vs.cache
	old := vs.current.Swap(c)
	if old != nil {
		vs.cache.lru.Purge()
	}
	metrics.CorpusItems.Set(float64(c.Len()))
	metrics.CorpusDimension.Set(float64(c.Dimension()))
}

// Corpus 返回当前快照，尚未加载时返回 EMPTY_CORPUS。
func (vs *VectorStore) Corpus() (*Corpus, error) {
	c := vs.current.Load()
	if c == nil {
		return nil, core.ErrEmptyCorpus
	}
	return c, nil
}

// GetVector 在当前快照中查找向量。
func (vs *VectorStore) GetVector(id string) ([]float32, error) {
	c, err := vs.Corpus()
	if err != nil {
		return nil, err
	}
	return c.GetVector(id)
}

// CacheLen 返回缓存中的条目数。
func (vs *VectorStore) CacheLen() int {
	return vs.cache.lru.Len()
}
