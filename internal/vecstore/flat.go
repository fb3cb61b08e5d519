// Package vecstore provides a flat, positionally-aligned vector index with
// exact L2 search and on-disk persistence. Row i of an index corresponds to
// item i of whatever collection it was built from; the store never reorders
// or deduplicates rows.
package vecstore

import (
	"fmt"
	"math"
	"sort"
)

// FlatIndex is a brute-force dense vector index. It is not safe for
// concurrent mutation; the build path is single-writer and search opens
// indices read-only.
type FlatIndex struct {
	dim     int
	vectors [][]float32
}

// New creates an empty index for vectors of the given dimension.
func New(dim int) (*FlatIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("vecstore: dimension must be positive, got %d", dim)
	}
	return &FlatIndex{dim: dim}, nil
}

// Dimension returns the vector dimension.
func (ix *FlatIndex) Dimension() int {
	return ix.dim
}

// Len returns the number of stored vectors.
func (ix *FlatIndex) Len() int {
	return len(ix.vectors)
}

// Add appends vectors in input order. Row numbering continues from the
// current length, so repeated Add calls preserve positional alignment.
func (ix *FlatIndex) Add(vectors [][]float32) error {
	for i, v := range vectors {
		if len(v) != ix.dim {
			return fmt.Errorf("vecstore: vector %d has dimension %d, index expects %d", i, len(v), ix.dim)
		}
	}
	ix.vectors = append(ix.vectors, vectors...)
	return nil
}

// Search returns the ids of the k nearest vectors to query by Euclidean
// distance, along with the distances, both ordered by ascending distance.
// Distances are non-negative; smaller means more similar. k is clamped to
// the index size.
func (ix *FlatIndex) Search(query []float32, k int) ([]float32, []int, error) {
	if len(query) != ix.dim {
		return nil, nil, fmt.Errorf("vecstore: query has dimension %d, index expects %d", len(query), ix.dim)
	}
	if k <= 0 {
		return nil, nil, fmt.Errorf("vecstore: k must be positive, got %d", k)
	}

	type scored struct {
		id   int
		dist float32
	}

	results := make([]scored, len(ix.vectors))
	for i, v := range ix.vectors {
		results[i] = scored{id: i, dist: EuclideanDistance(query, v)}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].dist == results[j].dist {
			return results[i].id < results[j].id
		}
		return results[i].dist < results[j].dist
	})

	if k > len(results) {
		k = len(results)
	}

	dists := make([]float32, k)
	ids := make([]int, k)
	for i := 0; i < k; i++ {
		dists[i] = results[i].dist
		ids[i] = results[i].id
	}

	return dists, ids, nil
}

// EuclideanDistance calculates the Euclidean distance between two vectors.
// Lower values indicate higher similarity.
func EuclideanDistance(a, b []float32) float32 {
	if len(a) != len(b) {
		return float32(math.Inf(1))
	}

	var sum float32
	for i := 0; i < len(a); i++ {
		diff := a[i] - b[i]
		sum += diff * diff
	}

	return float32(math.Sqrt(float64(sum)))
}
