package match

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCatalog means no catalog item survived filtering.
	ErrEmptyCatalog = errors.New("no usable catalog items after filtering")
	// ErrEmptyQuerySet means there is nothing to match.
	ErrEmptyQuerySet = errors.New("no query items to match")
	// ErrDimensionMismatch means catalog and query vectors differ in length.
	ErrDimensionMismatch = errors.New("catalog and query embedding dimensions differ")
)

// DegenerateEmbeddingError reports an all-zero embedding vector. A
// zero-norm vector has no direction, so cosine similarity against it is
// undefined; the run aborts rather than emitting NaN scores.
type DegenerateEmbeddingError struct {
	Side  string // "catalog" or "query"
	Index int
}

func (e *DegenerateEmbeddingError) Error() string {
	return fmt.Sprintf("degenerate embedding: zero-norm %s vector at index %d", e.Side, e.Index)
}
