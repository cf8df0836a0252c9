package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the indexing and retrieval packages.
// Callers match them with errors.Is; producers wrap them with context.
var (
	// ErrEmptyInput indicates a blank query or an empty document for which
	// no result can be computed.
	ErrEmptyInput = errors.New("empty input")

	// ErrEmbedding indicates the embedding provider failed or returned
	// malformed data (wrong count or wrong dimensionality).
	ErrEmbedding = errors.New("embedding failed")

	// ErrEmbeddingTimeout indicates the embedding provider did not answer
	// within the configured deadline. It also matches ErrEmbedding.
	ErrEmbeddingTimeout = fmt.Errorf("%w: timed out", ErrEmbedding)

	// ErrDimensionMismatch indicates a vector whose length disagrees with
	// the dimensionality already established for the corpus.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrNotFound indicates a requested document does not exist.
	ErrNotFound = errors.New("not found")
)
