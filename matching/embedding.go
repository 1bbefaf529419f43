package matching

import (
	"context"
	"math"
)

// Embedder produces a dense vector for a text. The live query path only ever
// embeds the inquiry; corpus embeddings are backfilled out-of-band.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CosineSimilarity returns dot(a,b)/(‖a‖·‖b‖). A missing vector, a length
// mismatch or a zero norm yields 0 rather than NaN.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
