package rank

import (
	"fmt"
	"math"

	"github.com/rushteam/artrec/core"
)

const weightEpsilon = 1e-9

// Weights 是 Advanced 策略的构造参数。
//
//	final = semantic*(1-Diversity-Cluster) + freshness*Diversity + topic*Cluster
type Weights struct {
	// Diversity 是新鲜度分量的权重
	Diversity float64 `json:"diversity_weight" yaml:"diversity_weight"`

	// Cluster 是主题亲和分量的权重
	Cluster float64 `json:"cluster_weight" yaml:"cluster_weight"`

	// TimeDecayDays 是新鲜度指数衰减的时间常数，0 表示默认 30 天
	TimeDecayDays float64 `json:"time_decay_days" yaml:"time_decay_days"`
}

// DefaultWeights 返回默认权重 (0.3, 0.2, 30)。
func DefaultWeights() Weights {
	return Weights{
		Diversity:     core.DefaultDiversityWeight,
		Cluster:       core.DefaultClusterWeight,
		TimeDecayDays: core.DefaultTimeDecayDays,
	}
}

// Validate 检查权重约束：非负且 Diversity+Cluster <= 1；衰减常数不能为负或非有限值（0 由 NewAdvanced 取默认值）。
func (w Weights) Validate() error {
	if math.IsNaN(w.Diversity) || math.IsNaN(w.Cluster) || w.Diversity < 0 || w.Cluster < 0 {
		return core.WrapDomainError(core.ModuleRank, core.ErrorCodeInvalidWeight, "rank: invalid weights",
			fmt.Errorf("weights must be non-negative, got diversity=%v cluster=%v", w.Diversity, w.Cluster))
	}
	if w.Diversity+w.Cluster > 1+weightEpsilon {
		return core.WrapDomainError(core.ModuleRank, core.ErrorCodeInvalidWeight, "rank: invalid weights",
			fmt.Errorf("diversity + cluster must be <= 1, got %v", w.Diversity+w.Cluster))
	}
	if w.TimeDecayDays < 0 || math.IsNaN(w.TimeDecayDays) || math.IsInf(w.TimeDecayDays, 0) {
		return core.NewDomainError(core.ModuleRank, core.ErrorCodeInvalidInput,
			fmt.Sprintf("rank: time decay days must be a finite non-negative number, got %v", w.TimeDecayDays))
	}
	return nil
}

// Advanced 按固定权重混合语义相似度、新鲜度与主题亲和。
type Advanced struct {
	w        Weights
	semantic float64
}

var _ Strategy = (*Advanced)(nil)

// NewAdvanced 校验权重并构造策略；TimeDecayDays 为 0 时取默认值。
func NewAdvanced(w Weights) (*Advanced, error) {
	if w.TimeDecayDays == 0 {
		w.TimeDecayDays = core.DefaultTimeDecayDays
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Advanced{
		w:        w,
		semantic: math.Max(0, 1-w.Diversity-w.Cluster),
	}, nil
}

func (s *Advanced) Name() string { return KindAdvanced }

// Weights 返回构造时的权重。
func (s *Advanced) Weights() Weights { return s.w }

func (s *Advanced) Score(q *Query, a *core.Article) (float64, *core.ScoreBreakdown) {
	b := &core.ScoreBreakdown{
		Semantic:  q.Semantic(a.Vector),
		Freshness: s.Freshness(a, q),
		Topic:     q.Topic(a),
	}
	score := b.Semantic*s.semantic + b.Freshness*s.w.Diversity + b.Topic*s.w.Cluster
	return score, b
}

// Freshness 返回 exp(-daysOld/TimeDecayDays)；scraped_at 缺失或无法解析时为 1.0。
func (s *Advanced) Freshness(a *core.Article, q *Query) float64 {
	days, ok := a.DaysOld(q.Now)
	if !ok {
		return 1.0
	}
	return math.Exp(-float64(days) / s.w.TimeDecayDays)
}
