package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/artrec/store"
)

func testCorpus(t *testing.T) *store.Corpus {
	t.Helper()
	c, err := store.ParseCorpus([]byte(`{
	  "a": {"vector": [1, 0], "cluster": 0},
	  "b": {"vector": [0, 1], "cluster": 1},
	  "c": {"vector": [1, 1]},
	  "d": {"vector": [3, 3], "cluster": 1}
	}`), store.CorpusOptions{})
	require.NoError(t, err)
	return c
}

func TestBuild_Mean(t *testing.T) {
	p, err := Build([]string{"a", "b", "unknown"}, testCorpus(t))
	require.NoError(t, err)

	assert.False(t, p.Empty())
	assert.Equal(t, 2, p.Resolved)
	assert.InDeltaSlice(t, []float32{0.5, 0.5}, p.Vector, 1e-6)
	assert.Equal(t, []int{0, 1}, p.ClusterHistory)
}

func TestBuild_ClusterHistorySkipsUnlabeled(t *testing.T) {
	p, err := Build([]string{"c", "d", "b"}, testCorpus(t))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 1}, p.ClusterHistory)
	assert.InDeltaSlice(t, []float32{4.0 / 3, 5.0 / 3}, p.Vector, 1e-6)
}

func TestBuild_Empty(t *testing.T) {
	tests := map[string][]string{
		"no history":   nil,
		"only unknown": {"x", "y"},
	}
	c := testCorpus(t)
	for name, ids := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := Build(ids, c)
			require.NoError(t, err)
			assert.True(t, p.Empty())
			assert.Zero(t, p.Resolved)
		})
	}
}
