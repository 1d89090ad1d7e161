package match

import (
	"math"
)

// l2Normalize normalizes a vector in-place using L2 norm. Returns the same
// slice for convenience. A near-zero magnitude yields the zero vector
// instead of dividing by zero.
func l2Normalize(vec []float32) []float32 {
	var sumSquares float32
	for _, v := range vec {
		sumSquares += v * v
	}

	magnitude := float32(math.Sqrt(float64(sumSquares)))
	if magnitude < 1e-10 {
		for i := range vec {
			vec[i] = 0
		}
		return vec
	}

	invMag := 1.0 / magnitude
	for i := range vec {
		vec[i] *= invMag
	}

	return vec
}

// dotProduct calculates the dot product of two vectors. Since corpus and
// query vectors are L2 normalized, this equals cosine similarity.
func dotProduct(v1, v2 []float32) float32 {
	if len(v1) != len(v2) {
		return 0
	}

	var sum float32
	for i := range v1 {
		sum += v1[i] * v2[i]
	}

	return sum
}
