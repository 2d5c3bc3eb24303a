package builders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/artrec/config"
	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/pipeline"
)

const pipelineYAML = `
pipeline:
  name: articles
  nodes:
    - type: recall.corpus
    - type: filter
      config:
        filters:
          - type: read
          - type: blacklist
            item_ids: ["spam"]
          - type: expr
            expr: 'item.days_old < 0 || item.days_old <= 30'
    - type: rank.advanced
      config:
        diversity_weight: 0.1
        cluster_weight: 0.1
    - type: rerank.cluster_cap
      config:
        max_per_cluster: 2
    - type: rerank.mmr
      config:
        lambda: 0.6
    - type: rerank.topn
`

func TestBuildPipelineFromYAML(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(pipelineYAML))
	require.NoError(t, err)
	require.NoError(t, config.ValidatePipelineConfig(cfg))

	p, err := cfg.BuildPipeline(config.DefaultFactory())
	require.NoError(t, err)
	assert.Equal(t, "articles", p.Name)
	assert.Equal(t, []string{
		"recall.corpus", "filter", "rank.advanced", "rerank.cluster_cap", "rerank.mmr", "rerank.topn",
	}, p.NodeNames())
}

func TestBuildPipeline_Errors(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(`
pipeline:
  nodes:
    - type: rank.lr
`))
	require.NoError(t, err)
	assert.True(t, core.IsNotSupported(config.ValidatePipelineConfig(cfg)))

	_, err = cfg.BuildPipeline(config.DefaultFactory())
	assert.True(t, core.IsNotSupported(err))

	_, err = BuildAdvancedRankNode(map[string]any{"diversity_weight": 0.8, "cluster_weight": 0.8})
	assert.True(t, core.IsInvalidWeight(err))

	_, err = BuildMMRNode(map[string]any{"lambda": 2})
	assert.True(t, core.IsInvalidInput(err))

	_, err = BuildFilterNode(map[string]any{"filters": []any{map[string]any{"type": "exposed"}}})
	assert.Error(t, err)
}

func TestSupportedTypes(t *testing.T) {
	assert.Subset(t, config.SupportedTypes(), []string{
		"filter", "rank.advanced", "rank.simple", "recall.corpus", "rerank.cluster_cap", "rerank.mmr", "rerank.topn",
	})
}
