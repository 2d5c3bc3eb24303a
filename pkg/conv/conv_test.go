package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	v, ok := ToInt(float64(3))
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = ToInt(2.5)
	assert.False(t, ok)
	_, ok = ToInt("3")
	assert.False(t, ok)
	_, ok = ToInt(true)
	assert.False(t, ok)
}

func TestToFloat32Slice(t *testing.T) {
	v, ok := ToFloat32Slice([]any{1.0, 2, float32(0.5)})
	assert.True(t, ok)
	assert.Equal(t, []float32{1, 2, 0.5}, v)

	_, ok = ToFloat32Slice([]any{1.0, true})
	assert.False(t, ok)
	_, ok = ToFloat32Slice([]any{"x"})
	assert.False(t, ok)
	_, ok = ToFloat32Slice("nope")
	assert.False(t, ok)
}

func TestConvertSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, ConvertSlice([]any{"a", 1, "c"}, ToString))
	assert.Nil(t, ConvertSlice[any, string](nil, ToString))
	assert.Equal(t, []string{"x", "7"}, SliceAnyToString([]any{"x", 7.0}))
}

func TestConfigGet(t *testing.T) {
	m := map[string]any{"n": 3.0, "s": "x"}
	assert.Equal(t, 3.0, ConfigGet(m, "n", 1.0))
	assert.Equal(t, 1, ConfigGet(m, "n", 1))
	assert.Equal(t, "x", ConfigGet(m, "s", ""))
	assert.Equal(t, "d", ConfigGet[string](nil, "s", "d"))
}

func TestConfigGetNumbers(t *testing.T) {
	m := map[string]any{"i": 2, "f": 0.5, "whole": 4.0, "b": true}
	assert.Equal(t, 2.0, ConfigGetFloat64(m, "i", 0))
	assert.Equal(t, 0.5, ConfigGetFloat64(m, "f", 0))
	assert.Equal(t, 9.0, ConfigGetFloat64(m, "b", 9))
	assert.Equal(t, 2, ConfigGetInt(m, "i", 0))
	assert.Equal(t, 4, ConfigGetInt(m, "whole", 0))
	assert.Equal(t, 7, ConfigGetInt(m, "f", 7))
	assert.Equal(t, 7, ConfigGetInt(m, "missing", 7))
	assert.Equal(t, 7, ConfigGetInt(nil, "i", 7))
}
