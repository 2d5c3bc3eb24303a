package rank

import (
	"context"
	"sort"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/pipeline"
	"github.com/rushteam/artrec/pkg/utils"
)

// ScoreNode 用 Strategy 对候选打分的排序 Node。
// - 写入 labels：rank_strategy
// - 更新 item.Score / item.Breakdown 并按分数降序稳定排序（同分保持语料枚举顺序）
type ScoreNode struct {
	Strategy Strategy
}

func (n *ScoreNode) Name() string        { return "rank." + n.Strategy.Name() }
func (n *ScoreNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ScoreNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	if rctx == nil || rctx.Corpus == nil {
		return nil, core.ErrEmptyCorpus
	}
	// 没有画像时无从打分
	if rctx.Profile.Empty() {
		return nil, nil
	}

	q := NewQuery(rctx.Profile, rctx.Clock())
	out := items[:0]
	for _, it := range items {
		if it == nil {
			continue
		}
		a := rctx.Corpus.At(it.Index)
		it.Score, it.Breakdown = n.Strategy.Score(q, a)
		it.PutLabel(utils.LabelRankStrategy, utils.Label{Value: n.Strategy.Name(), Source: "rank"})
		out = append(out, it)
	}

	SortByScore(out)
	return out, nil
}

// SortByScore 按分数降序稳定排序，同分按语料枚举顺序。
func SortByScore(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Index < items[j].Index
	})
}
