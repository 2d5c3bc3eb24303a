package core

import "github.com/rushteam/artrec/pkg/utils"

// ScoreBreakdown 是 Advanced 策略的可解释分量。
type ScoreBreakdown struct {
	Semantic  float64 `json:"semantic"`
	Freshness float64 `json:"freshness"`
	Topic     float64 `json:"topic"`
}

// Item 是推荐链路中的统一承载结构：候选 ID、语料行号、分数、分量与标签。
// Labels 用于解释与观测；Score 用于排序决策。
type Item struct {
	ID    string
	Index int // 在 CorpusView 枚举顺序中的位置
	Score float64

	// Breakdown 仅在策略给出分量时非空（Advanced）
	Breakdown *ScoreBreakdown

	Labels map[string]utils.Label
}

func NewItem(id string, index int) *Item {
	return &Item{
		ID:     id,
		Index:  index,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
