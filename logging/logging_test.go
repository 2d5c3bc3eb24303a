package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		"WARN":     zerolog.WarnLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
		"":         zerolog.InfoLevel,
		"bogus":    zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestComponentWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	ctx := WithRunID(context.Background(), "abc12345")
	l := Ctx(ctx, Component("store"))
	l.Info().Str("item_id", "a").Msg("loaded")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "store", rec["component"])
	assert.Equal(t, "abc12345", rec["run_id"])
	assert.Equal(t, "a", rec["item_id"])
	assert.Equal(t, "loaded", rec["message"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "error", Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	l := Component("x")
	l.Info().Msg("hidden")
	assert.Zero(t, buf.Len())
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	assert.Len(t, id, 8)
	assert.Empty(t, RunID(context.Background()))
}
