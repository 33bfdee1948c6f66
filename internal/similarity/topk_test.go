package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopKOrdering(t *testing.T) {
	target := []float32{1, 0}
	candidates := []Candidate{
		{ID: "a", Name: "A", Vector: []float32{1, 0}},
		{ID: "b", Name: "B", Vector: []float32{0, 1}},
		{ID: "c", Name: "C", Vector: []float32{0.7071, 0.7071}},
		{ID: "d", Name: "D", Vector: []float32{-1, 0}},
	}

	results := TopK(target, candidates, 4)
	require.Len(t, results, 4)
	assert.Equal(t, []string{"a", "c", "b", "d"}, ids(results))
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-9)
	assert.InDelta(t, 0.7071, results[1].Similarity, 1e-4)
	assert.InDelta(t, 0.0, results[2].Similarity, 1e-9)
	assert.InDelta(t, -1.0, results[3].Similarity, 1e-9)
}

func TestTopKNonIncreasing(t *testing.T) {
	target := []float32{0.2, 0.9, -0.4}
	candidates := []Candidate{
		{ID: "1", Vector: []float32{0.5, 0.5, 0.5}},
		{ID: "2", Vector: []float32{-1, 0, 0}},
		{ID: "3", Vector: []float32{0.2, 0.9, -0.4}},
		{ID: "4", Vector: []float32{0, 0, 1}},
	}
	results := TopK(target, candidates, len(candidates))
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
	}
}

func TestTopKTiesKeepInputOrder(t *testing.T) {
	target := []float32{1, 0}
	// b and c both score exactly 0; b comes first in the input.
	candidates := []Candidate{
		{ID: "a", Vector: []float32{1, 0}},
		{ID: "b", Vector: []float32{0, 1}},
		{ID: "c", Vector: []float32{0, -1}},
	}
	results := TopK(target, candidates, 3)
	assert.Equal(t, []string{"a", "b", "c"}, ids(results))
}

func TestTopKTruncation(t *testing.T) {
	target := []float32{1, 0}
	candidates := []Candidate{
		{ID: "a", Vector: []float32{1, 0}},
		{ID: "b", Vector: []float32{0, 1}},
	}

	assert.Len(t, TopK(target, candidates, 1), 1)
	assert.Len(t, TopK(target, candidates, 10), 2, "k beyond candidates returns all")
	assert.Empty(t, TopK(target, candidates, 0))
	assert.Empty(t, TopK(target, candidates, -3))
	assert.Empty(t, TopK(target, nil, 5))
}

func TestTopKMismatchedCandidatesScoreZero(t *testing.T) {
	target := []float32{1, 0}
	candidates := []Candidate{
		{ID: "good", Vector: []float32{1, 0}},
		{ID: "short", Vector: []float32{1}},
	}
	results := TopK(target, candidates, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "good", results[0].ID)
	assert.Equal(t, 0.0, results[1].Similarity)
}

func ids(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}
