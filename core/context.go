package core

import (
	"time"

	"github.com/rushteam/artrec/pkg/utils"
)

// RecommendContext 承载一次推荐请求的用户、画像与语料快照，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string

	// ReadItemIDs 是用户阅读历史，候选集排除其中全部 ID
	ReadItemIDs []string

	// Profile 是由阅读历史聚合出的画像向量
	Profile *ProfileVector

	// Corpus 是本次请求固定使用的语料快照；重新加载语料不影响已开始的请求
	Corpus Corpus

	// TopN 是本次请求的返回数量，Node 未配置固定 N 时使用
	TopN int

	// Now 是新鲜度计算使用的当前时间，零值表示 time.Now()
	Now time.Time

	// Labels 是用户级标签
	Labels map[string]utils.Label

	// Params 请求级上下文参数，可在 CEL 过滤表达式中通过 rctx.params 访问
	Params map[string]any

	readSet map[string]struct{}
}

// IsRead 判断 id 是否在阅读历史中。
func (rctx *RecommendContext) IsRead(id string) bool {
	if rctx == nil || len(rctx.ReadItemIDs) == 0 {
		return false
	}
	if rctx.readSet == nil {
		rctx.readSet = make(map[string]struct{}, len(rctx.ReadItemIDs))
		for _, rid := range rctx.ReadItemIDs {
			rctx.readSet[rid] = struct{}{}
		}
	}
	_, ok := rctx.readSet[id]
	return ok
}

// Clock 返回本次请求的当前时间。
func (rctx *RecommendContext) Clock() time.Time {
	if rctx == nil || rctx.Now.IsZero() {
		return time.Now()
	}
	return rctx.Now
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
