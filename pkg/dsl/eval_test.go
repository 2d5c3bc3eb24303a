package dsl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/pkg/utils"
)

func testArticle() *core.Article {
	c := 2
	return &core.Article{
		ID:      "a1",
		Vector:  []float32{1, 0},
		Cluster: &c,
		Metadata: core.Metadata{
			Title:     "Go 1.25 released",
			URL:       "https://go.dev/blog",
			ScrapedAt: "2024-01-05 00:00:00",
		},
	}
}

func TestProgram_Eval(t *testing.T) {
	rctx := &core.RecommendContext{
		UserID:      "u1",
		ReadItemIDs: []string{"x", "y"},
		Now:         time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Params:      map[string]any{"blocked_cluster": 3},
	}
	item := core.NewItem("a1", 0)
	item.Score = 0.8
	item.PutLabel(utils.LabelRankStrategy, utils.Label{Value: "advanced", Source: "rank"})
	a := testArticle()

	tests := []struct {
		expr string
		want bool
	}{
		{`item.has_cluster && item.cluster == 2`, true},
		{`item.cluster != rctx.params.blocked_cluster`, true},
		{`item.days_old == 5`, true},
		{`item.days_old <= 3`, false},
		{`item.title.contains("Go")`, true},
		{`item.url.startsWith("https://")`, true},
		{`item.score > 0.7`, true},
		{`label.rank_strategy == "advanced"`, true},
		{`"mmr_score" in label`, false},
		{`rctx.user_id == "u1" && rctx.read_count == 2`, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := Compile(tt.expr)
			require.NoError(t, err)
			got, err := p.Eval(item, a, rctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProgram_MissingMetadata(t *testing.T) {
	p, err := Compile(`!item.has_cluster && item.days_old == -1 && item.cluster == -1`)
	require.NoError(t, err)
	got, err := p.Eval(core.NewItem("b", 1), &core.Article{ID: "b"}, &core.RecommendContext{})
	require.NoError(t, err)
	assert.True(t, got)
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile(`item.cluster ==`)
	assert.True(t, core.IsInvalidInput(err))

	p, err := Compile(`item.title`)
	require.NoError(t, err)
	_, err = p.Eval(core.NewItem("a", 0), testArticle(), &core.RecommendContext{})
	assert.Error(t, err)
}

func TestEvaluate_EmptyExpression(t *testing.T) {
	ok, err := Evaluate("", nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
