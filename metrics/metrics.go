// Package metrics 定义推荐引擎的 Prometheus 指标。
//
// 指标通过 promauto 注册到默认 Registry，由宿主进程决定是否暴露 /metrics。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CorpusItems 是当前快照中的物品数量
	CorpusItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "artrec_corpus_items",
			Help: "Number of items in the loaded corpus snapshot",
		},
	)

	// CorpusDimension 是当前快照的向量维度
	CorpusDimension = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "artrec_corpus_dimension",
			Help: "Vector dimension of the loaded corpus snapshot",
		},
	)

	// CorpusRepairs 统计加载时的修复/丢弃次数
	CorpusRepairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artrec_corpus_repairs_total",
			Help: "Items repaired or dropped while loading the corpus",
		},
		[]string{"action"}, // padded / truncated / rejected / discarded
	)

	// CorpusLoadDuration 是加载语料耗时
	CorpusLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "artrec_corpus_load_duration_seconds",
			Help:    "Duration of corpus loads in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// VectorCacheLookups 统计向量缓存命中情况
	VectorCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artrec_vector_cache_lookups_total",
			Help: "Per-item vector lookups by cache result",
		},
		[]string{"result"}, // hit / miss / not_found
	)

	// RecommendationsServed 统计推荐请求数
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artrec_recommendations_total",
			Help: "Recommendation requests served by strategy and outcome",
		},
		[]string{"strategy", "outcome"}, // outcome: ok / empty / error
	)

	// RecommendDuration 是单用户推荐耗时
	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artrec_recommend_duration_seconds",
			Help:    "Duration of single-user recommendation in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"strategy"},
	)

	// BatchUsers 统计批量生成中每个用户的结果
	BatchUsers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artrec_batch_users_total",
			Help: "Users processed by batch generation by status",
		},
		[]string{"status"}, // ok / skipped
	)
)
