package engine

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/artrec/rank"
)

func TestStats(t *testing.T) {
	e := newEngine(t, richDoc, rank.KindSimple, rank.Weights{})

	st, err := e.Stats(fixedNow)
	require.NoError(t, err)

	assert.Equal(t, 6, st.TotalArticles)
	assert.Equal(t, 3, st.Dimension)
	assert.Equal(t, map[int]int{0: 3, 1: 1, 2: 1, NoCluster: 1}, st.ClusterDistribution)
	assert.Equal(t, []string{"Go generics", "Go iterators", "Go modules"}, st.ClusterTopics[0])
	assert.Equal(t, []string{"Untagged"}, st.ClusterTopics[NoCluster])
	assert.Equal(t, Freshness{Today: 1, ThisWeek: 1, ThisMonth: 1, Older: 3}, st.Freshness)

	data, err := json.Marshal(st)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"-1":1`)
	assert.Contains(t, string(data), `"this_week":1`)
}
