package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/artrec/config"
	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/store"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func fileSettings(dir string) *config.Settings {
	s := config.DefaultSettings()
	s.Store.Type = store.BackendFile
	s.Store.Dir = dir
	return s
}

func TestFromSettings_FileBackend(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "embeddings/article_vectors.json", richDoc)
	writeFile(t, dir, "profiles/user_profiles.json", `{"u1": ["a"], "u2": ["ghost"]}`)
	writeFile(t, dir, "blocked.json", `["b"]`)

	s := fileSettings(dir)
	s.Recommender.Type = "SIMPLE"
	s.Recommender.TopN = 2
	s.Filter.BlacklistKey = "blocked.json"
	s.Filter.Expr = `item.title != "Misc"`

	ctx := context.Background()
	e, st, err := FromSettings(ctx, s)
	require.NoError(t, err)
	defer st.Close()
	assert.Equal(t, "simple", e.Strategy().Name())

	recs, err := e.RecommendForUser(ctx, "u1", []string{"a"}, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "c", recs[0].ArticleID)
	for _, r := range recs {
		assert.NotEqual(t, "b", r.ArticleID)
		assert.NotEqual(t, "f", r.ArticleID)
	}

	res, err := e.RunBatch(ctx, st, st, BatchKeys{
		Profiles:        s.Data.ProfilesKey,
		Recommendations: s.Data.RecommendationsKey,
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Generated)

	data, err := os.ReadFile(filepath.Join(dir, "recommendations.json"))
	require.NoError(t, err)
	var out map[string][]Recommendation
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Len(t, out["u1"], 2)
	assert.NotContains(t, out, "u2")
}

func TestFromSettings_PipelineFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "embeddings/article_vectors.json", richDoc)
	pipelinePath := writeFile(t, dir, "pipeline.yaml", `
pipeline:
  name: yaml
  nodes:
    - type: recall.corpus
    - type: filter
    - type: rank.simple
    - type: rerank.cluster_cap
    - type: rerank.topn
      config:
        n: 10
`)

	s := fileSettings(dir)
	s.Recommender.Type = "simple"
	s.PipelineFile = pipelinePath

	e, st, err := FromSettings(context.Background(), s)
	require.NoError(t, err)
	defer st.Close()
	assert.Equal(t, "yaml", e.Pipeline().Name)

	recs, err := e.RecommendForUser(context.Background(), "u", []string{"a"}, 0)
	require.NoError(t, err)
	// 聚类 0 只保留 b，其余聚类各一个，e 无聚类
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ArticleID
	}
	assert.ElementsMatch(t, []string{"b", "d", "e", "f"}, ids)
}

func TestFromSettings_Errors(t *testing.T) {
	dir := t.TempDir()

	s := fileSettings(dir)
	_, _, err := FromSettings(context.Background(), s)
	assert.True(t, core.IsDataLoad(err))

	s = fileSettings(dir)
	s.Recommender.DiversityWeight = 0.9
	s.Recommender.ClusterWeight = 0.9
	_, _, err = FromSettings(context.Background(), s)
	assert.True(t, core.IsInvalidWeight(err))

	writeFile(t, dir, "embeddings/article_vectors.json", richDoc)
	s = fileSettings(dir)
	s.Filter.Expr = "item.title =="
	_, _, err = FromSettings(context.Background(), s)
	assert.True(t, core.IsInvalidInput(err))
}
