package vectordb

import (
	"fmt"
	"math"
	"sort"

	"github.com/ziadkadry99/docsearch/internal/domain"
)

// CosineDistance returns 1 - cos(a, b), in [0, 2]. A zero-magnitude vector
// is treated as orthogonal to everything and yields 1.
func CosineDistance(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 1, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return float32(1 - sim), nil
}

// rankBySimilarity scores docs against vec and keeps the k nearest. Ties
// keep the order of docs.
func rankBySimilarity(docs []Document, vec []float32, k int) ([]Match, error) {
	matches := make([]Match, 0, len(docs))
	for _, doc := range docs {
		if doc.Vector == nil {
			continue
		}
		d, err := CosineDistance(vec, doc.Vector)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		matches = append(matches, Match{Document: doc, Distance: d})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// checkDimension reports whether a vector of length n may join a corpus of
// dimension dim. A dim of 0 means no dimension has been established yet.
func checkDimension(dim, n int) error {
	if n == 0 {
		return fmt.Errorf("%w: empty vector", domain.ErrDimensionMismatch)
	}
	if dim > 0 && n != dim {
		return fmt.Errorf("%w: got %d, store has %d", domain.ErrDimensionMismatch, n, dim)
	}
	return nil
}
