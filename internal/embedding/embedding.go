// Package embedding turns normalized descriptions into fixed-length
// vectors via an external embedding provider.
package embedding

import (
	"context"
	"fmt"
)

// Role distinguishes the asymmetric embedding modes: catalog entries are
// indexed as documents, inquiry items are embedded as search queries.
// A role applies to a whole call; roles are never mixed within a batch.
type Role string

const (
	RoleDocument Role = "search_document"
	RoleQuery    Role = "search_query"
)

//go:generate mockgen -source=embedding.go -destination=embedding_mock.go -package=embedding
type Embedder interface {
	// Embed returns one unnormalized vector per input text, in input
	// order. It either returns a vector for every text or fails as a
	// whole; partial results are never returned.
	Embed(ctx context.Context, texts []string, role Role) ([][]float64, error)

	// Dimension reports the output vector length, fixed for the
	// lifetime of a run.
	Dimension() int
}

// BatchError reports a failed embedding batch. Once any batch fails the
// whole pass is unusable: vectors from earlier batches must not be
// compared against a pass that completed with a different provider state.
type BatchError struct {
	Batch int
	Role  Role
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("embedding batch %d (%s) failed: %v", e.Batch, e.Role, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
