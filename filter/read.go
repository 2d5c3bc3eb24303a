package filter

import (
	"context"

	"github.com/rushteam/artrec/core"
)

// ReadFilter 过滤掉用户阅读历史中的物品。
type ReadFilter struct{}

var _ Filter = ReadFilter{}

func (ReadFilter) Name() string { return "filter.read" }

func (ReadFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	return rctx.IsRead(item.ID), nil
}
