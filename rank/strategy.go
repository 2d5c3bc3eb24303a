// Package rank 提供打分策略（Simple / Advanced）以及把策略接入 Pipeline 的打分 Node。
package rank

import (
	"strings"
	"time"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/pkg/vecmath"
)

// 策略名称
const (
	KindSimple   = "simple"
	KindAdvanced = "advanced"
)

// Strategy 是打分策略：对单个候选给出最终分数，以及可选的分量解释。
// 实现必须是无状态的纯函数，同一 (Query, Article) 多次打分结果一致。
type Strategy interface {
	Name() string
	Score(q *Query, a *core.Article) (float64, *core.ScoreBreakdown)
}

// Query 是一次请求内所有候选共享的打分输入，预先计算画像范数与聚类计数。
type Query struct {
	Profile *core.ProfileVector
	Now     time.Time

	norm          float64
	clusterCounts map[int]int
	historyLen    int
}

// NewQuery 由画像与当前时间构造 Query。
func NewQuery(p *core.ProfileVector, now time.Time) *Query {
	q := &Query{Profile: p, Now: now}
	if p == nil {
		return q
	}
	q.norm = vecmath.Norm(p.Vector)
	q.historyLen = len(p.ClusterHistory)
	if q.historyLen > 0 {
		q.clusterCounts = make(map[int]int, q.historyLen)
		for _, c := range p.ClusterHistory {
			q.clusterCounts[c]++
		}
	}
	return q
}

// Semantic 返回画像与向量的余弦相似度。
func (q *Query) Semantic(v []float32) float64 {
	if q.Profile == nil {
		return 0
	}
	return vecmath.CosineWithNorm(q.Profile.Vector, q.norm, v)
}

// Topic 返回候选聚类在阅读历史中的占比；无历史或候选无标签时为 0。
func (q *Query) Topic(a *core.Article) float64 {
	if q.historyLen == 0 {
		return 0
	}
	c, ok := a.ClusterLabel()
	if !ok {
		return 0
	}
	return float64(q.clusterCounts[c]) / float64(q.historyLen)
}

// New 按名称（大小写不敏感）构造策略；simple 忽略权重。
func New(kind string, w Weights) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindSimple:
		return Simple{}, nil
	case KindAdvanced:
		return NewAdvanced(w)
	default:
		return nil, core.NewDomainError(core.ModuleRank, core.ErrorCodeInvalidInput,
			"rank: unknown strategy "+kind)
	}
}
