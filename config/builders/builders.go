// Package builders 注册内置 Node 的配置构建器。
package builders

import (
	"fmt"

	"github.com/rushteam/artrec/config"
	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/filter"
	"github.com/rushteam/artrec/pipeline"
	"github.com/rushteam/artrec/pkg/conv"
	"github.com/rushteam/artrec/rank"
	"github.com/rushteam/artrec/recall"
	"github.com/rushteam/artrec/rerank"
)

func init() {
	config.Register("recall.corpus", BuildCorpusRecallNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rank.simple", BuildSimpleRankNode)
	config.Register("rank.advanced", BuildAdvancedRankNode)
	config.Register("rerank.cluster_cap", BuildClusterCapNode)
	config.Register("rerank.mmr", BuildMMRNode)
	config.Register("rerank.topn", BuildTopNNode)
}

func BuildCorpusRecallNode(_ map[string]any) (pipeline.Node, error) {
	return recall.CorpusRecall{}, nil
}

// BuildFilterNode 构建过滤 Node。未配置 filters 时只剔除已读物品。
//
//	config:
//	  filters:
//	    - type: read
//	    - type: blacklist
//	      item_ids: ["x", "y"]
//	    - type: expr
//	      expr: 'item.days_old <= 30'
func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return filter.NewFilterNode(filter.ReadFilter{}), nil
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "read":
			filters = append(filters, filter.ReadFilter{})
		case "blacklist":
			ids := conv.SliceAnyToString(filterMap["item_ids"])
			if ids == nil {
				ids = []string{}
			}
			filters = append(filters, filter.NewBlacklistFilter(ids, nil, ""))
		case "expr":
			f, err := filter.NewExprFilter(conv.ConfigGet(filterMap, "expr", ""))
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return filter.NewFilterNode(filters...), nil
}

func BuildSimpleRankNode(_ map[string]any) (pipeline.Node, error) {
	return &rank.ScoreNode{Strategy: rank.Simple{}}, nil
}

// BuildAdvancedRankNode 读取 diversity_weight / cluster_weight / time_decay_days，缺省取默认权重。
func BuildAdvancedRankNode(cfg map[string]any) (pipeline.Node, error) {
	def := rank.DefaultWeights()
	s, err := rank.NewAdvanced(rank.Weights{
		Diversity:     conv.ConfigGetFloat64(cfg, "diversity_weight", def.Diversity),
		Cluster:       conv.ConfigGetFloat64(cfg, "cluster_weight", def.Cluster),
		TimeDecayDays: conv.ConfigGetFloat64(cfg, "time_decay_days", def.TimeDecayDays),
	})
	if err != nil {
		return nil, err
	}
	return &rank.ScoreNode{Strategy: s}, nil
}

func BuildClusterCapNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.ClusterCap{MaxPerCluster: conv.ConfigGetInt(cfg, "max_per_cluster", 1)}, nil
}

func BuildMMRNode(cfg map[string]any) (pipeline.Node, error) {
	return rerank.NewMMRNode(
		conv.ConfigGetFloat64(cfg, "lambda", core.DefaultMMRLambda),
		conv.ConfigGetInt(cfg, "n", 0),
	)
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}
