// Package filter 提供候选过滤：剔除已读物品、黑名单物品与不满足表达式的物品。
package filter

import (
	"context"

	"github.com/rushteam/artrec/core"
)

// Filter 是过滤器的抽象接口，用于判断一个 Item 是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}

// Preparer 是可选接口：FilterNode 在逐个判断之前调用一次 Prepare，
// 用于加载外部数据（例如从 Store 读取黑名单）。
type Preparer interface {
	Prepare(ctx context.Context, rctx *core.RecommendContext) error
}
