package rerank

import (
	"context"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/pipeline"
	"github.com/rushteam/artrec/pkg/utils"
)

// ClusterCap 是按聚类去重的多样性 ReRank：每个聚类最多保留 MaxPerCluster 个物品，
// 保持输入顺序。没有聚类标签的物品不受限制。
type ClusterCap struct {
	// MaxPerCluster 默认 1
	MaxPerCluster int
}

func (n *ClusterCap) Name() string {
	return "rerank.cluster_cap"
}

func (n *ClusterCap) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *ClusterCap) Process(
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
	limit := n.MaxPerCluster
	if limit <= 0 {
		limit = 1
	}

	seen := make(map[int]int, 16)
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		c, ok := rctx.Corpus.At(it.Index).ClusterLabel()
		if !ok {
			out = append(out, it)
			continue
		}
		if seen[c] >= limit {
			continue
		}
		seen[c]++
		it.PutLabel(utils.LabelRerank, utils.Label{Value: "cluster_cap", Source: "rerank"})
		out = append(out, it)
	}
	return out, nil
}
