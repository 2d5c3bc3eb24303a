package filter

import (
	"context"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/logging"
	"github.com/rushteam/artrec/pipeline"
	"github.com/rushteam/artrec/pkg/utils"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该物品就会被过滤掉。
// 过滤器出错时记录日志并视为不过滤，不中断请求。
type FilterNode struct {
	Filters []Filter
}

// NewFilterNode 创建过滤 Node。
func NewFilterNode(filters ...Filter) *FilterNode {
	return &FilterNode{Filters: filters}
}

func (n *FilterNode) Name() string {
	return "filter"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}
	log := logging.Ctx(ctx, logging.Component("filter"))

	for _, f := range n.Filters {
		if p, ok := f.(Preparer); ok {
			if err := p.Prepare(ctx, rctx); err != nil {
				log.Warn().Str("filter", f.Name()).Err(err).Msg("filter prepare failed")
			}
		}
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		filterReason := ""
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				log.Warn().Str("filter", f.Name()).Str("item_id", item.ID).Err(err).Msg("filter error, keeping item")
				continue
			}
			if ok {
				filterReason = f.Name()
				break
			}
		}

		if filterReason != "" {
			// 记录过滤原因（用于调试/观测）
			item.PutLabel(utils.LabelFiltered, utils.Label{
				Value:  "true",
				Source: filterReason,
			})
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
