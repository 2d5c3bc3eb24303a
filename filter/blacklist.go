package filter

import (
	"context"
	"sync/atomic"

	"github.com/rushteam/artrec/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉运营屏蔽的物品。
// 黑名单来自内存 ItemIDs 与（可选）Store 中 Key 下的 JSON 数组，两者取并集。
type BlacklistFilter struct {
	// ItemIDs 是内存中的黑名单物品 ID 列表
	ItemIDs []string

	// Store 用于从存储中读取黑名单（可选）
	Store BlacklistStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string

	static atomic.Pointer[map[string]struct{}]
	remote atomic.Pointer[map[string]struct{}]
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取黑名单物品 ID 列表
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(itemIDs []string, storeAdapter *StoreAdapter, key string) *BlacklistFilter {
	f := &BlacklistFilter{
		ItemIDs: itemIDs,
		Key:     key,
	}
	if storeAdapter != nil {
		f.Store = storeAdapter
	}
	return f
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

// Prepare 从 Store 刷新黑名单；key 不存在视为空黑名单，读取失败时保留上一次结果。
func (f *BlacklistFilter) Prepare(ctx context.Context, _ *core.RecommendContext) error {
	if f.static.Load() == nil {
		set := toSet(f.ItemIDs)
		f.static.Store(&set)
	}
	if f.Store == nil || f.Key == "" {
		return nil
	}
	ids, err := f.Store.GetBlacklist(ctx, f.Key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			empty := map[string]struct{}{}
			f.remote.Store(&empty)
			return nil
		}
		return err
	}
	set := toSet(ids)
	f.remote.Store(&set)
	return nil
}

func (f *BlacklistFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if s := f.static.Load(); s != nil {
		if _, ok := (*s)[item.ID]; ok {
			return true, nil
		}
	} else {
		for _, id := range f.ItemIDs {
			if item.ID == id {
				return true, nil
			}
		}
	}
	if s := f.remote.Load(); s != nil {
		if _, ok := (*s)[item.ID]; ok {
			return true, nil
		}
	}
	return false, nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
