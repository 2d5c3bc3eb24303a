package rerank

import (
	"context"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个物品。
// 通常作为链路的最后一个节点，用于限制返回结果数量。
//
// 示例：
//
//	p := pipeline.New("default",
//	    recall.CorpusRecall{},
//	    filter.NewFilterNode(filter.ReadFilter{}),
//	    &rank.ScoreNode{Strategy: rank.Simple{}},
//	    &rerank.TopNNode{},  // N 取请求的 TopN
//	)
type TopNNode struct {
	// N 要保留的物品数量（Top N）
	// 如果 N <= 0，则使用请求的 rctx.TopN；两者都 <= 0 时不截断
	// 如果 N > len(items)，则返回所有物品
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := resolveN(n.N, rctx)
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
