// Package artrec 是基于文章向量的内容推荐引擎。
//
// 设计要点：
// - Pipeline-first: 一次推荐由 Node 串联（Recall → Filter → Rank → ReRank）
// - Snapshot 语料: 语料加载后只读，重新加载整体替换，进行中的请求不受影响
// - Labels-first: labels 全链路透传，便于 explain 与观测
package artrec

import (
	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/engine"
	"github.com/rushteam/artrec/pipeline"
	"github.com/rushteam/artrec/rank"
)

// 轻量 facade：便于用户直接 import "artrec" 使用核心抽象。
type (
	Engine         = engine.Engine
	Recommendation = engine.Recommendation
	Weights        = rank.Weights
	Pipeline       = pipeline.Pipeline
	Node           = pipeline.Node
	Kind           = pipeline.Kind
	DomainError    = core.DomainError
)

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank

	StrategySimple   = rank.KindSimple
	StrategyAdvanced = rank.KindAdvanced
)

var (
	CreateEngine   = engine.CreateEngine
	DefaultWeights = rank.DefaultWeights
)
