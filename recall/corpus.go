package recall

import (
	"context"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/pipeline"
	"github.com/rushteam/artrec/pkg/utils"
)

// CorpusRecall 把快照中的全部物品作为候选，顺序即语料枚举顺序。
// 语料是全量内存快照，不做近似检索。
// CorpusRecall 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type CorpusRecall struct{}

var _ Source = CorpusRecall{}

func (CorpusRecall) Name() string        { return "recall.corpus" }
func (CorpusRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，忽略输入 items。
func (r CorpusRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (CorpusRecall) Recall(_ context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if rctx == nil || rctx.Corpus == nil {
		return nil, core.ErrEmptyCorpus
	}
	n := rctx.Corpus.Len()
	items := make([]*core.Item, n)
	for i := 0; i < n; i++ {
		it := core.NewItem(rctx.Corpus.At(i).ID, i)
		it.PutLabel(utils.LabelRecallSource, utils.Label{Value: "corpus", Source: "recall"})
		items[i] = it
	}
	return items, nil
}
