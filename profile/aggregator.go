// Package profile 由用户阅读历史聚合出画像向量。
package profile

import (
	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/pkg/vecmath"
)

// Aggregator 把阅读历史转成 core.ProfileVector。
type Aggregator interface {
	Build(readItemIDs []string, corpus core.Corpus) (*core.ProfileVector, error)
}

// MeanAggregator 取已读物品向量的逐维算术均值。
// 语料中不存在的 ID 被跳过；带聚类标签的已读物品贡献 ClusterHistory。
type MeanAggregator struct{}

var _ Aggregator = MeanAggregator{}

// Build 聚合画像。没有可解析的已读物品时返回空画像（Empty() == true），不是错误。
// 重复的 ID 按出现次数计入。
func (MeanAggregator) Build(readItemIDs []string, corpus core.Corpus) (*core.ProfileVector, error) {
	p := &core.ProfileVector{}
	if corpus == nil || len(readItemIDs) == 0 {
		return p, nil
	}

	vectors := make([][]float32, 0, len(readItemIDs))
	for _, id := range readItemIDs {
		a, ok := corpus.Article(id)
		if !ok {
			continue
		}
		v, err := corpus.GetVector(id)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		vectors = append(vectors, v)
		if c, ok := a.ClusterLabel(); ok {
			p.ClusterHistory = append(p.ClusterHistory, c)
		}
	}
	if len(vectors) == 0 {
		return p, nil
	}
	p.Vector = vecmath.Mean(vectors, corpus.Dimension())
	p.Resolved = len(vectors)
	return p, nil
}

// Build 使用 MeanAggregator 聚合画像。
func Build(readItemIDs []string, corpus core.Corpus) (*core.ProfileVector, error) {
	return MeanAggregator{}.Build(readItemIDs, corpus)
}
