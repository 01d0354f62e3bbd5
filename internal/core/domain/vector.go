package domain

import (
	"fmt"
	"math"
	"sort"
)

// CosineDistance returns 1 - cosine similarity of a and b, in [0, 2].
// A zero vector is at distance 1 from everything.
func CosineDistance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: vector dimensions %d and %d differ", ErrInvalidInput, len(a), len(b))
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 1, nil
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb)), nil
}

// DimensionMismatchWarning is logged by vector stores that skip chunks
// embedded with another model. Arguments: count, collection, query dimension.
const DimensionMismatchWarning = "Skipped %d chunks in %s whose embedding dimension differs from %d; run refresh to re-embed"

// SortByDistance orders results nearest first, breaking ties by ID,
// and truncates to k when k > 0.
func SortByDistance(results []SearchResult, k int) []SearchResult {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results
}
