package recall

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/store"
)

func TestCorpusRecall(t *testing.T) {
	c, err := store.ParseCorpus([]byte(`{"z": {"vector": [1]}, "m": {"vector": [2]}, "a": {"vector": [3]}}`), store.CorpusOptions{})
	require.NoError(t, err)

	items, err := CorpusRecall{}.Process(context.Background(), &core.RecommendContext{Corpus: c}, nil)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, want := range []string{"a", "m", "z"} {
		assert.Equal(t, want, items[i].ID)
		assert.Equal(t, i, items[i].Index)
		assert.Equal(t, "corpus", items[i].Labels["recall_source"].Value)
	}
}

func TestCorpusRecall_NoCorpus(t *testing.T) {
	_, err := CorpusRecall{}.Recall(context.Background(), &core.RecommendContext{})
	assert.True(t, core.IsEmptyCorpus(err))
}
