package rank

import "github.com/rushteam/artrec/core"

// Simple 只用画像与候选的余弦相似度打分，不给出分量。
type Simple struct{}

var _ Strategy = Simple{}

func (Simple) Name() string { return KindSimple }

func (Simple) Score(q *Query, a *core.Article) (float64, *core.ScoreBreakdown) {
	return q.Semantic(a.Vector), nil
}
