package similarity

import "math"

// Cosine returns the cosine similarity of two vectors in [-1, 1].
// Mismatched lengths, empty vectors and zero-magnitude vectors score 0.0
// rather than erroring; callers are responsible for not feeding NaN/Inf.
// Accumulation is in float64 regardless of the stored element width.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
