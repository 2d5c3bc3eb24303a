package engine

import (
	"time"

	"github.com/rushteam/artrec/store"
)

// NoCluster 是 Stats 中“无聚类标签”的分组键
const NoCluster = -1

// clusterTopicSamples 是每个聚类展示的标题数量
const clusterTopicSamples = 3

// Freshness 是按抓取时间的分桶计数。
type Freshness struct {
	Today     int `json:"today"`
	ThisWeek  int `json:"this_week"`
	ThisMonth int `json:"this_month"`
	Older     int `json:"older"`
}

// Stats 是语料概览。
type Stats struct {
	TotalArticles       int              `json:"total_articles"`
	Dimension           int              `json:"dimension"`
	ClusterDistribution map[int]int      `json:"cluster_distribution"`
	ClusterTopics       map[int][]string `json:"cluster_topics"`
	Freshness           Freshness        `json:"freshness_distribution"`
}

// Stats 统计当前语料快照。scraped_at 缺失或无法解析的物品计入 older。
func (e *Engine) Stats(now time.Time) (*Stats, error) {
	c, err := e.vs.Corpus()
	if err != nil {
		return nil, err
	}
	return CorpusStats(c, now), nil
}

// CorpusStats 统计语料 c，按枚举顺序（ID 升序）挑选聚类示例标题。
func CorpusStats(c *store.Corpus, now time.Time) *Stats {
	st := &Stats{
		TotalArticles:       c.Len(),
		Dimension:           c.Dimension(),
		ClusterDistribution: make(map[int]int),
		ClusterTopics:       make(map[int][]string),
	}
	for i := 0; i < c.Len(); i++ {
		a := c.At(i)

		cluster, ok := a.ClusterLabel()
		if !ok {
			cluster = NoCluster
		}
		st.ClusterDistribution[cluster]++
		if _, seen := st.ClusterTopics[cluster]; !seen {
			st.ClusterTopics[cluster] = []string{}
		}
		if a.Metadata.Title != "" && len(st.ClusterTopics[cluster]) < clusterTopicSamples {
			st.ClusterTopics[cluster] = append(st.ClusterTopics[cluster], a.Metadata.Title)
		}

		days, ok := a.DaysOld(now)
		switch {
		case !ok:
			st.Freshness.Older++
		case days == 0:
			st.Freshness.Today++
		case days <= 7:
			st.Freshness.ThisWeek++
		case days <= 30:
			st.Freshness.ThisMonth++
		default:
			st.Freshness.Older++
		}
	}
	return st
}
