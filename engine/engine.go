// Package engine 编排一次推荐请求：聚合画像 -> 召回 -> 过滤 -> 打分 -> 重排 -> 输出。
package engine

import (
	"context"
	"time"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/filter"
	"github.com/rushteam/artrec/logging"
	"github.com/rushteam/artrec/metrics"
	"github.com/rushteam/artrec/pipeline"
	"github.com/rushteam/artrec/profile"
	"github.com/rushteam/artrec/rank"
	"github.com/rushteam/artrec/recall"
	"github.com/rushteam/artrec/rerank"
	"github.com/rushteam/artrec/store"
)

// Engine 是推荐引擎。语料快照由 VectorStore 持有，
// 每个请求开始时取一次快照，重新加载不影响进行中的请求。
// Engine 可被多个 goroutine 并发使用。
type Engine struct {
	vs         *store.VectorStore
	strategy   rank.Strategy
	aggregator profile.Aggregator
	pipeline   *pipeline.Pipeline

	topN        int
	concurrency int
	now         func() time.Time

	filters    []filter.Filter
	mmr        *rerank.MMRNode
	clusterCap int
}

// Option 配置 Engine。
type Option func(*Engine)

// WithTopN 设置默认返回数量。
func WithTopN(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topN = n
		}
	}
}

// WithConcurrency 设置 GenerateAll 的并发度。
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithClock 设置新鲜度计算使用的时钟。
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithAggregator 替换画像聚合方式。
func WithAggregator(a profile.Aggregator) Option {
	return func(e *Engine) {
		if a != nil {
			e.aggregator = a
		}
	}
}

// WithFilters 在剔除已读之外追加过滤器（黑名单、表达式等）。
func WithFilters(filters ...filter.Filter) Option {
	return func(e *Engine) { e.filters = append(e.filters, filters...) }
}

// WithMMR 在打分后追加 MMR 重排。
func WithMMR(node *rerank.MMRNode) Option {
	return func(e *Engine) { e.mmr = node }
}

// WithClusterCap 在打分后限制每个聚类的物品数量。
func WithClusterCap(maxPerCluster int) Option {
	return func(e *Engine) { e.clusterCap = maxPerCluster }
}

// WithPipeline 使用自定义 Pipeline 代替默认链路。
// 自定义链路需自行包含召回、剔除已读与截断节点。
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(e *Engine) { e.pipeline = p }
}

// New 用给定策略创建 Engine。
func New(vs *store.VectorStore, strategy rank.Strategy, opts ...Option) (*Engine, error) {
	if vs == nil {
		return nil, core.NewDomainError(core.ModulePipeline, core.ErrorCodeInvalidInput, "engine: nil vector store")
	}
	if strategy == nil {
		return nil, core.NewDomainError(core.ModulePipeline, core.ErrorCodeInvalidInput, "engine: nil strategy")
	}
	var cfg core.RecommendConfig = &core.DefaultRecommendConfig{}
	e := &Engine{
		vs:          vs,
		strategy:    strategy,
		aggregator:  profile.MeanAggregator{},
		topN:        cfg.DefaultTopN(),
		concurrency: 4,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pipeline == nil {
		e.pipeline = e.defaultPipeline()
	}
	return e, nil
}

// CreateEngine 按策略名（simple / advanced，大小写不敏感）创建 Engine。
// 权重非法时返回 INVALID_WEIGHT，策略名未知时返回 INVALID_INPUT。
func CreateEngine(vs *store.VectorStore, kind string, w rank.Weights, opts ...Option) (*Engine, error) {
	s, err := rank.New(kind, w)
	if err != nil {
		return nil, err
	}
	return New(vs, s, opts...)
}

func (e *Engine) defaultPipeline() *pipeline.Pipeline {
	filters := append([]filter.Filter{filter.ReadFilter{}}, e.filters...)
	nodes := []pipeline.Node{
		recall.CorpusRecall{},
		filter.NewFilterNode(filters...),
		&rank.ScoreNode{Strategy: e.strategy},
	}
	if e.clusterCap > 0 {
		nodes = append(nodes, &rerank.ClusterCap{MaxPerCluster: e.clusterCap})
	}
	if e.mmr != nil {
		nodes = append(nodes, e.mmr)
	}
	nodes = append(nodes, &rerank.TopNNode{})
	return pipeline.New(e.strategy.Name(), nodes...)
}

// Strategy 返回打分策略
func (e *Engine) Strategy() rank.Strategy { return e.strategy }

// Pipeline 返回执行链路
func (e *Engine) Pipeline() *pipeline.Pipeline { return e.pipeline }

// VectorStore 返回语料存储
func (e *Engine) VectorStore() *store.VectorStore { return e.vs }

// Reload 重新加载语料快照。
func (e *Engine) Reload(ctx context.Context) error {
	_, err := e.vs.Reload(ctx)
	return err
}

// RecommendForUser 为单个用户生成推荐，按分数降序，不含已读物品。
// 阅读历史为空、没有任何已知物品或候选为空时返回空列表，不是错误。
// topN <= 0 时使用默认值。
func (e *Engine) RecommendForUser(ctx context.Context, userID string, readItemIDs []string, topN int) ([]Recommendation, error) {
	c, err := e.vs.Corpus()
	if err != nil {
		return nil, err
	}
	return e.recommend(ctx, c, userID, readItemIDs, topN, false)
}

// SimilarTo 返回与 itemID 相似的物品（以它作为唯一的阅读历史）。
// itemID 不在语料中时返回 NOT_FOUND。
func (e *Engine) SimilarTo(ctx context.Context, itemID string, topN int) ([]Recommendation, error) {
	c, err := e.vs.Corpus()
	if err != nil {
		return nil, err
	}
	if _, err := c.GetVector(itemID); err != nil {
		return nil, err
	}
	return e.recommend(ctx, c, "", []string{itemID}, topN, false)
}

// recommend 在固定快照 c 上执行一次推荐。
// strict 为 true 时，非空阅读历史中没有任何已知物品视为画像错误（批量模式）。
func (e *Engine) recommend(
	ctx context.Context,
	c *store.Corpus,
	userID string,
	readItemIDs []string,
	topN int,
	strict bool,
) ([]Recommendation, error) {
	start := time.Now()
	strategy := e.strategy.Name()
	if topN <= 0 {
		topN = e.topN
	}

	p, err := e.aggregator.Build(readItemIDs, c)
	if err != nil {
		metrics.RecommendationsServed.WithLabelValues(strategy, "error").Inc()
		return nil, err
	}
	if p.Empty() {
		if strict && len(readItemIDs) > 0 {
			metrics.RecommendationsServed.WithLabelValues(strategy, "error").Inc()
			return nil, core.ErrMalformedProfile
		}
		metrics.RecommendationsServed.WithLabelValues(strategy, "empty").Inc()
		return []Recommendation{}, nil
	}

	rctx := &core.RecommendContext{
		UserID:      userID,
		ReadItemIDs: readItemIDs,
		Profile:     p,
		Corpus:      c,
		TopN:        topN,
		Now:         e.now(),
	}
	items, err := e.pipeline.Run(ctx, rctx, nil)
	if err != nil {
		metrics.RecommendationsServed.WithLabelValues(strategy, "error").Inc()
		return nil, err
	}

	out := make([]Recommendation, 0, len(items))
	for _, it := range items {
		a, ok := c.Article(it.ID)
		if !ok {
			continue
		}
		out = append(out, newRecommendation(it, a))
	}

	outcome := "ok"
	if len(out) == 0 {
		outcome = "empty"
	}
	metrics.RecommendationsServed.WithLabelValues(strategy, outcome).Inc()
	metrics.RecommendDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())

	log := logging.Ctx(ctx, logging.Component("engine"))
	log.Debug().
		Str("user_id", userID).
		Int("read", len(readItemIDs)).
		Int("resolved", p.Resolved).
		Int("returned", len(out)).
		Dur("took", time.Since(start)).
		Msg("recommendations computed")
	return out, nil
}
