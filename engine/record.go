package engine

import (
	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/pkg/vecmath"
)

// scorePlaces 是输出分数保留的小数位
const scorePlaces = 4

// Recommendation 是对外输出的一条推荐。
// Content 与 SimilarityComponents 只在策略给出分量（Advanced）时出现。
type Recommendation struct {
	ArticleID string  `json:"article_id"`
	Title     string  `json:"title"`
	Content   string  `json:"content,omitempty"`
	URL       string  `json:"url"`
	Score     float64 `json:"score"`

	SimilarityComponents *core.ScoreBreakdown `json:"similarity_components,omitempty"`
}

func newRecommendation(it *core.Item, a *core.Article) Recommendation {
	r := Recommendation{
		ArticleID: it.ID,
		Title:     a.Metadata.Title,
		URL:       a.Metadata.URL,
		Score:     vecmath.Round(it.Score, scorePlaces),
	}
	if it.Breakdown != nil {
		r.Content = a.Metadata.Content
		r.SimilarityComponents = &core.ScoreBreakdown{
			Semantic:  vecmath.Round(it.Breakdown.Semantic, scorePlaces),
			Freshness: vecmath.Round(it.Breakdown.Freshness, scorePlaces),
			Topic:     vecmath.Round(it.Breakdown.Topic, scorePlaces),
		}
	}
	return r
}
