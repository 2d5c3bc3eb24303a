package core

// UserProfile 是调用方提供的用户阅读历史。
// ReadItemIDs 的顺序不影响打分；引擎不会持久化 UserProfile。
type UserProfile struct {
	UserID      string   `json:"user_id"`
	ReadItemIDs []string `json:"read_item_ids"`
}

// ProfileVector 是由阅读历史派生的用户画像，每次请求现算，不落盘。
//
//	Vector         = 所有可解析已读物品向量的逐维均值
//	ClusterHistory = 已读物品中带聚类标签者的标签序列（允许重复）
type ProfileVector struct {
	Vector         []float32
	ClusterHistory []int

	// Resolved 是参与聚合的已读物品数量
	Resolved int
}

// Empty 表示没有任何已读物品可解析，此时不产生推荐。
func (p *ProfileVector) Empty() bool {
	return p == nil || p.Resolved == 0 || len(p.Vector) == 0
}
