package rerank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/store"
)

func pickIndexes(picks []Pick) []int {
	out := make([]int, len(picks))
	for i, p := range picks {
		out[i] = p.Index
	}
	return out
}

func TestSelect(t *testing.T) {
	relevance := []float64{0.9, 0.85, 0.3}
	vectors := [][]float32{{1, 0}, {1, 0}, {0, 1}}

	t.Run("penalises redundancy", func(t *testing.T) {
		picks := Select(relevance, vectors, 0.5, 3)
		assert.Equal(t, []int{0, 2, 1}, pickIndexes(picks))
		assert.Equal(t, 0.9, picks[0].Marginal)
		assert.InDelta(t, 0.15, picks[1].Marginal, 1e-9)
	})

	t.Run("lambda one is pure relevance", func(t *testing.T) {
		assert.Equal(t, []int{0, 1, 2}, pickIndexes(Select(relevance, vectors, 1, 3)))
	})

	t.Run("n caps selection", func(t *testing.T) {
		assert.Equal(t, []int{0, 2}, pickIndexes(Select(relevance, vectors, 0.5, 2)))
		assert.Len(t, Select(relevance, vectors, 0.5, 10), 3)
	})

	t.Run("degenerate input", func(t *testing.T) {
		assert.Nil(t, Select(nil, nil, 0.5, 3))
		assert.Nil(t, Select(relevance, vectors, 0.5, 0))
		assert.Nil(t, Select(relevance, vectors[:2], 0.5, 3))
	})

	t.Run("ties pick lowest index", func(t *testing.T) {
		picks := Select([]float64{0.5, 0.5}, [][]float32{{1, 0}, {0, 1}}, 0.5, 1)
		assert.Equal(t, []int{0}, pickIndexes(picks))
	})
}

func TestMMR(t *testing.T) {
	out := MMR([]float32{1, 0}, [][]float32{{0, 1}, {1, 0}, {1, 0.01}}, []string{"x", "y", "z"}, 0.3, 2)
	require.Len(t, out, 2)
	assert.Equal(t, "y", out[0].ID)
	assert.InDelta(t, 1.0, out[0].Score, 1e-9)
	assert.Equal(t, "x", out[1].ID)
	assert.Equal(t, 0.0, out[1].Score)
}

func testCorpus(t *testing.T) *store.Corpus {
	t.Helper()
	c, err := store.ParseCorpus([]byte(`{
	  "a": {"vector": [1, 0], "cluster": 0},
	  "b": {"vector": [1, 0], "cluster": 0},
	  "c": {"vector": [0, 1], "cluster": 1},
	  "d": {"vector": [1, 1]}
	}`), store.CorpusOptions{})
	require.NoError(t, err)
	return c
}

func scored(c *store.Corpus, scores map[string]float64, order ...string) []*core.Item {
	items := make([]*core.Item, len(order))
	for i, id := range order {
		idx, _ := c.Index(id)
		items[i] = core.NewItem(id, idx)
		items[i].Score = scores[id]
	}
	return items
}

func itemIDs(items []*core.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestMMRNode(t *testing.T) {
	c := testCorpus(t)
	items := scored(c, map[string]float64{"a": 0.9, "b": 0.85, "c": 0.3}, "a", "b", "c")

	node, err := NewMMRNode(0.5, 0)
	require.NoError(t, err)
	out, err := node.Process(context.Background(), &core.RecommendContext{Corpus: c, TopN: 2}, items)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, itemIDs(out))
	assert.Equal(t, 0.3, out[1].Score, "score is left untouched")
	assert.Equal(t, "0.15", out[1].Labels["mmr_score"].Value)

	_, err = NewMMRNode(1.5, 0)
	assert.True(t, core.IsInvalidInput(err))
}

func TestTopNNode(t *testing.T) {
	c := testCorpus(t)
	items := scored(c, nil, "a", "b", "c", "d")

	out, err := (&TopNNode{}).Process(context.Background(), &core.RecommendContext{TopN: 2}, items)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, itemIDs(out))

	out, err = (&TopNNode{N: 3}).Process(context.Background(), &core.RecommendContext{TopN: 2}, items)
	require.NoError(t, err)
	assert.Len(t, out, 3)

	out, err = (&TopNNode{}).Process(context.Background(), &core.RecommendContext{}, items)
	require.NoError(t, err)
	assert.Len(t, out, 4)
}

func TestClusterCap(t *testing.T) {
	c := testCorpus(t)
	items := scored(c, nil, "a", "b", "d", "c")

	out, err := (&ClusterCap{}).Process(context.Background(), &core.RecommendContext{Corpus: c}, items)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "d", "c"}, itemIDs(out))

	items = scored(c, nil, "a", "b", "d", "c")
	out, err = (&ClusterCap{MaxPerCluster: 2}).Process(context.Background(), &core.RecommendContext{Corpus: c}, items)
	require.NoError(t, err)
	assert.Len(t, out, 4)
}
