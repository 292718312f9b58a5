package search

import "math"

// cosineSimilarity computes dot(a,b) / (||a|| * ||b||).
// Returns ok=false when the lengths differ or either norm is zero,
// in which case similarity is undefined and the pair must be skipped.
func cosineSimilarity(a, b []float32) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
