package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/artrec/core"
)

func TestParseProfiles(t *testing.T) {
	p, err := ParseProfiles([]byte(`{
	  "u1": ["a", "b"],
	  "u2": [],
	  "u3": "a",
	  "u4": ["a", 3],
	  "u5": null
	}`))
	require.NoError(t, err)

	users := p.Users()
	require.Len(t, users, 2)
	assert.Equal(t, core.UserProfile{UserID: "u1", ReadItemIDs: []string{"a", "b"}}, users[0])
	assert.Equal(t, "u2", users[1].UserID)
	assert.Empty(t, users[1].ReadItemIDs)
}

func TestParseProfiles_NotObject(t *testing.T) {
	_, err := ParseProfiles([]byte(`["u1"]`))
	assert.True(t, core.IsDataLoad(err))

	_, err = ParseProfiles([]byte(`null`))
	assert.True(t, core.IsDataLoad(err))
}

func TestLoadProfiles(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()

	_, err := LoadProfiles(ctx, ms, "profiles/user_profiles.json")
	assert.True(t, core.IsDataLoad(err))

	require.NoError(t, ms.Set(ctx, "profiles/user_profiles.json", []byte(`{"u1": ["a"]}`)))
	p, err := LoadProfiles(ctx, ms, "profiles/user_profiles.json")
	require.NoError(t, err)
	assert.Equal(t, Profiles{"u1": {"a"}}, p)
}
