package filter

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/rushteam/artrec/core"
)

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetBlacklist 从 Store 读取黑名单（JSON 字符串数组）。
func (a *StoreAdapter) GetBlacklist(ctx context.Context, key string) ([]string, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeDataLoad,
			"filter: blacklist at "+key+" is not a JSON string array", err)
	}
	return ids, nil
}
