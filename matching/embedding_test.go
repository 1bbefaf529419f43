package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{"identical_direction", []float32{1, 2, 3}, []float32{2, 4, 6}, 1.0},
		{"opposite_direction", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"zero_vector_is_zero_not_nan", []float32{0, 0, 0}, []float32{1, 2, 3}, 0.0},
		{"missing_vector", nil, []float32{1, 2, 3}, 0.0},
		{"length_mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosineSimilarityBounds(t *testing.T) {
	a := []float32{0.3, -1.2, 4.5, 0.01}
	b := []float32{-2.1, 0.7, 3.3, -0.5}
	s := CosineSimilarity(a, b)
	assert.GreaterOrEqual(t, s, -1.0)
	assert.LessOrEqual(t, s, 1.0)
}
