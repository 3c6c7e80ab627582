package index

import (
	"fmt"
	"math"
	"sort"
)

// Result is a single match from a similarity search. Position is the
// offset of the stored vector, which callers map back to their chunk list.
type Result struct {
	Position int
	Score    float32
}

// Index is an in-memory brute-force similarity index. Vectors are
// L2-normalized on insert, so inner product equals cosine similarity.
type Index struct {
	vectors [][]float32
	dim     int
}

func New() *Index {
	return &Index{}
}

// Build replaces the index contents with normalized copies of embeddings
// and records their dimension. The input slices are never modified.
func (idx *Index) Build(embeddings [][]float32) {
	vectors := make([][]float32, len(embeddings))
	dim := 0
	for i, embedding := range embeddings {
		vectors[i] = normalize(embedding)
		if i == 0 {
			dim = len(embedding)
		}
	}
	idx.vectors = vectors
	idx.dim = dim
}

func (idx *Index) Len() int {
	return len(idx.vectors)
}

// Search returns the k stored vectors closest to query, best first. Ties
// resolve to the lower position. k larger than the index is clamped; an
// empty index returns nil. A query whose dimension differs from the built
// vectors is rejected, since scoring it would rank on meaningless partial
// products.
func (idx *Index) Search(query []float32, k int) ([]Result, error) {
	if len(idx.vectors) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("query has dimension %d, index has %d", len(query), idx.dim)
	}
	if k > len(idx.vectors) {
		k = len(idx.vectors)
	}

	normalized := normalize(query)
	results := make([]Result, len(idx.vectors))
	for i, vector := range idx.vectors {
		results[i] = Result{Position: i, Score: dot(vector, normalized)}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	return results[:k], nil
}

func normalize(vector []float32) []float32 {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}

	out := make([]float32, len(vector))
	norm := math.Sqrt(sum)
	if norm == 0 {
		copy(out, vector)
		return out
	}
	for i, v := range vector {
		out[i] = float32(float64(v) / norm)
	}
	return out
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return float32(sum)
}
