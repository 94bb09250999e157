package match

import (
	"fmt"
	"math"
	"sort"
)

// cosineMatrix computes the dense query×catalog cosine-similarity
// matrix. Both vector sets are unit-normalized here; providers return
// raw magnitudes and any provider-side normalization is redundant.
func cosineMatrix(queryVecs, catalogVecs [][]float64) ([][]float64, error) {
	catalogUnit, err := unitVectors(catalogVecs, "catalog")
	if err != nil {
		return nil, err
	}

	queryUnit, err := unitVectors(queryVecs, "query")
	if err != nil {
		return nil, err
	}

	matrix := make([][]float64, len(queryUnit))

	for qi, q := range queryUnit {
		row := make([]float64, len(catalogUnit))

		for ci, c := range catalogUnit {
			if len(q) != len(c) {
				return nil, fmt.Errorf("%w: query %d has %d, catalog %d has %d",
					ErrDimensionMismatch, qi, len(q), ci, len(c))
			}

			row[ci] = dot(q, c)
		}

		matrix[qi] = row
	}

	return matrix, nil
}

func unitVectors(vecs [][]float64, side string) ([][]float64, error) {
	unit := make([][]float64, len(vecs))

	for i, v := range vecs {
		norm := math.Sqrt(dot(v, v))
		if norm == 0 {
			return nil, &DegenerateEmbeddingError{Side: side, Index: i}
		}

		u := make([]float64, len(v))
		for j, x := range v {
			u[j] = x / norm
		}

		unit[i] = u
	}

	return unit, nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}

	return sum
}

// rankRow returns catalog indices ordered by descending similarity.
// Equal scores rank the lower catalog index first, for determinism.
func rankRow(row []float64) []int {
	ranked := make([]int, len(row))
	for i := range ranked {
		ranked[i] = i
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return row[ranked[a]] > row[ranked[b]]
	})

	return ranked
}
