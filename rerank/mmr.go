package rerank

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/pipeline"
	"github.com/rushteam/artrec/pkg/utils"
	"github.com/rushteam/artrec/pkg/vecmath"
)

// Pick 是 MMR 的一次选择。
type Pick struct {
	// Index 是候选在输入中的下标
	Index int

	// Relevance 是候选的相关性分数
	Relevance float64

	// Marginal 是被选中时的边际分 λ·rel − (1−λ)·mean(sim)，首个选择等于 Relevance
	Marginal float64
}

// Select 按最大边际相关性贪心选择最多 n 个候选：
// 先取相关性最高者，之后每步取 λ·relevance − (1−λ)·(与已选集合的平均余弦相似度) 最大者。
// 同分取下标更小者。relevance 与 vectors 长度必须一致。
func Select(relevance []float64, vectors [][]float32, lambda float64, n int) []Pick {
	total := len(relevance)
	if total == 0 || n <= 0 || len(vectors) != total {
		return nil
	}
	n = min(n, total)

	norms := make([]float64, total)
	for i, v := range vectors {
		norms[i] = vecmath.Norm(v)
	}

	first := 0
	for i := 1; i < total; i++ {
		if relevance[i] > relevance[first] {
			first = i
		}
	}
	picks := make([]Pick, 0, n)
	picks = append(picks, Pick{Index: first, Relevance: relevance[first], Marginal: relevance[first]})

	selected := make([]bool, total)
	selected[first] = true
	simSum := make([]float64, total)
	last := first

	for len(picks) < n {
		best, bestScore := -1, 0.0
		count := float64(len(picks))
		for i := 0; i < total; i++ {
			if selected[i] {
				continue
			}
			simSum[i] += vecmath.CosineWithNorm(vectors[last], norms[last], vectors[i])
			score := lambda*relevance[i] - (1-lambda)*(simSum[i]/count)
			if best < 0 || score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		selected[best] = true
		picks = append(picks, Pick{Index: best, Relevance: relevance[best], Marginal: bestScore})
		last = best
	}
	return picks
}

// Scored 是 MMR 选出的物品及其与查询向量的相似度。
type Scored struct {
	ID    string
	Score float64
}

// MMR 以查询向量的余弦相似度作为相关性，对候选做 MMR 选择。
// 返回的 Score 是候选与查询向量的相似度，顺序即选择顺序。
func MMR(query []float32, candidates [][]float32, ids []string, lambda float64, n int) []Scored {
	if len(candidates) != len(ids) {
		return nil
	}
	qn := vecmath.Norm(query)
	relevance := make([]float64, len(candidates))
	for i, v := range candidates {
		relevance[i] = vecmath.CosineWithNorm(query, qn, v)
	}
	picks := Select(relevance, candidates, lambda, n)
	out := make([]Scored, len(picks))
	for i, p := range picks {
		out[i] = Scored{ID: ids[p.Index], Score: p.Relevance}
	}
	return out
}

// MMRNode 是 MMR 重排 Node：以 item.Score 为相关性，从排好序的候选中选出 N 个。
// 不修改 item.Score，只调整顺序并写入 label mmr_score。
type MMRNode struct {
	// Lambda ∈ [0, 1]，越大越偏向相关性
	Lambda float64

	// N <= 0 时使用请求的 TopN
	N int
}

// NewMMRNode 校验 lambda 并创建 Node。
func NewMMRNode(lambda float64, n int) (*MMRNode, error) {
	if math.IsNaN(lambda) || lambda < 0 || lambda > 1 {
		return nil, core.NewDomainError(core.ModuleRerank, core.ErrorCodeInvalidInput,
			fmt.Sprintf("rerank: mmr lambda must be in [0, 1], got %v", lambda))
	}
	return &MMRNode{Lambda: lambda, N: n}, nil
}

func (n *MMRNode) Name() string        { return "rerank.mmr" }
func (n *MMRNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *MMRNode) Process(
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
	limit := resolveN(n.N, rctx)
	if limit <= 0 {
		limit = len(items)
	}

	relevance := make([]float64, len(items))
	vectors := make([][]float32, len(items))
	for i, it := range items {
		relevance[i] = it.Score
		vectors[i] = rctx.Corpus.At(it.Index).Vector
	}

	picks := Select(relevance, vectors, n.Lambda, limit)
	out := make([]*core.Item, len(picks))
	for i, p := range picks {
		it := items[p.Index]
		it.PutLabel(utils.LabelMMRScore, utils.Label{
			Value:  strconv.FormatFloat(vecmath.Round(p.Marginal, 4), 'f', -1, 64),
			Source: "rerank",
		})
		it.PutLabel(utils.LabelRerank, utils.Label{Value: "mmr", Source: "rerank"})
		out[i] = it
	}
	return out, nil
}

func resolveN(n int, rctx *core.RecommendContext) int {
	if n > 0 {
		return n
	}
	if rctx != nil {
		return rctx.TopN
	}
	return 0
}
