package similarity

import "sort"

// Candidate is an item with its stored embedding.
type Candidate struct {
	ID     string
	Name   string
	Vector []float32
}

// Result is a scored candidate. Scores live in [-1, 1] and are never persisted.
type Result struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

// TopK scores every candidate against target and returns the k best, ordered
// by similarity descending. The sort is stable, so equal scores keep input
// order; that tie rule is part of the contract, not an accident. k <= 0
// yields an empty slice, k beyond the candidate count yields all of them.
func TopK(target []float32, candidates []Candidate, k int) []Result {
	if k <= 0 {
		return []Result{}
	}
	scored := make([]Result, len(candidates))
	for i, c := range candidates {
		scored[i] = Result{
			ID:         c.ID,
			Name:       c.Name,
			Similarity: Cosine(target, c.Vector),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if k < len(scored) {
		scored = scored[:k]
	}
	return scored
}
