package store

import (
	"context"
	"errors"
	"sort"

	"github.com/goccy/go-json"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/logging"
	"github.com/rushteam/artrec/pkg/conv"
)

// Profiles 是 user_id -> 已读物品 ID 列表。
type Profiles map[string][]string

// Users 按 user_id 升序展开为 UserProfile 列表。
func (p Profiles) Users() []core.UserProfile {
	ids := make([]string, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	users := make([]core.UserProfile, len(ids))
	for i, id := range ids {
		users[i] = core.UserProfile{UserID: id, ReadItemIDs: p[id]}
	}
	return users
}

// ParseProfiles 解析 profiles 文档：{user_id: [item_id, ...]}。
// 顶层不是对象时返回 DATA_LOAD；值不是字符串数组的用户被记录并跳过。
func ParseProfiles(data []byte) (Profiles, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeDataLoad,
			"store: profiles document is not a JSON object", err)
	}
	if doc == nil {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeDataLoad,
			"store: profiles document is not a JSON object")
	}

	log := logging.Component("store")
	out := make(Profiles, len(doc))
	for uid, v := range doc {
		raw, ok := v.([]any)
		if !ok {
			log.Warn().Str("user_id", uid).Msg("skipping profile: read history is not an array")
			continue
		}
		ids := conv.ConvertSlice(raw, conv.ToString)
		if len(ids) != len(raw) {
			log.Warn().Str("user_id", uid).Msg("skipping profile: read history contains non-string ids")
			continue
		}
		out[uid] = ids
	}
	return out, nil
}

// LoadProfiles 从 s 读取并解析 profiles 文档。
func LoadProfiles(ctx context.Context, s core.Store, key string) (Profiles, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, core.ErrStoreNotFound) {
			return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeDataLoad,
				"store: profiles not found at "+key, err)
		}
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeDataLoad,
			"store: read profiles from "+s.Name(), err)
	}
	return ParseProfiles(data)
}
