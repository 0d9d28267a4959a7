package memory

import "math"

// Cosine returns dot(a,b) / (|a|*|b|). A zero denominator is replaced by 1,
// so an all-zero vector scores 0 against anything. Vectors of different
// length score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		denom = 1
	}
	return dot / denom
}
