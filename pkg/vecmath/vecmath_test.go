package vecmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"empty", nil, nil, 0},
		{"scaled", []float32{1, 1}, []float32{3, 3}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosineWithNormMatchesCosine(t *testing.T) {
	a := []float32{0.1, 0.2, 0.3}
	b := []float32{0.4, 0.5, 0.6}
	assert.InDelta(t, Cosine(a, b), CosineWithNorm(a, Norm(a), b), 1e-12)
	assert.Equal(t, 0.0, CosineWithNorm(a, 0, b))
}

func TestMean(t *testing.T) {
	got := Mean([][]float32{{1, 0}, {0, 1}, {2, 2}}, 2)
	assert.InDeltaSlice(t, []float32{1, 1}, got, 1e-6)

	assert.Nil(t, Mean(nil, 2))
	assert.Nil(t, Mean([][]float32{{1}}, 0))
}

func TestDotAndNorm(t *testing.T) {
	assert.Equal(t, 11.0, Dot([]float32{1, 2}, []float32{3, 4}))
	assert.InDelta(t, 5.0, Norm([]float32{3, 4}), 1e-12)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.1235, Round(0.123456, 4))
	assert.Equal(t, -0.1235, Round(-0.123456, 4))
	assert.Equal(t, 1.0, Round(1, 4))
	assert.True(t, math.IsNaN(Round(math.NaN(), 4)))
}
