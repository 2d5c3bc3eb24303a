package core

import (
	"time"
)

// ScrapedAtLayout 是 metadata.scraped_at 的时间格式。
const ScrapedAtLayout = "2006-01-02 15:04:05"

// Metadata 是文章的展示信息，由上游抓取器产出。
type Metadata struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	URL       string `json:"url"`
	ScrapedAt string `json:"scraped_at"`
}

// Article 是语料中的一个可打分物品。
//
// Vector 已按语料维度 D 修复（补零或截断），与语料的稠密矩阵共享底层数组，只读。
// Cluster 为 nil 表示该物品没有聚类标签。
type Article struct {
	ID       string
	Vector   []float32
	Cluster  *int
	Metadata Metadata
}

// ClusterLabel 返回聚类标签及是否存在。
func (a *Article) ClusterLabel() (int, bool) {
	if a == nil || a.Cluster == nil {
		return 0, false
	}
	return *a.Cluster, true
}

// ScrapedTime 解析 scraped_at（按 UTC），缺失或格式错误时返回 false。
func (a *Article) ScrapedTime() (time.Time, bool) {
	if a == nil || a.Metadata.ScrapedAt == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(ScrapedAtLayout, a.Metadata.ScrapedAt, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysOld 返回 now 与 scraped_at 之间的完整天数（向下取整，未来时间记为 0）。
func (a *Article) DaysOld(now time.Time) (int, bool) {
	t, ok := a.ScrapedTime()
	if !ok {
		return 0, false
	}
	days := int(now.UTC().Sub(t) / (24 * time.Hour))
	if days < 0 {
		days = 0
	}
	return days, true
}
