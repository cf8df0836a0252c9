package vectordb

import "context"

// Store persists documents and answers similarity and substring queries.
// Implementations are safe for concurrent use; Insert publishes a document
// in a single step so readers never observe a partial record.
type Store interface {
	// Insert stores doc and returns it with ID and CreatedAt filled in.
	// A vector whose length differs from the store's dimension fails with
	// domain.ErrDimensionMismatch.
	Insert(ctx context.Context, doc Document) (Document, error)

	// Get returns the document with the given ID or domain.ErrNotFound.
	Get(ctx context.Context, id string) (Document, error)

	// Scan returns every document in insertion order.
	Scan(ctx context.Context) ([]Document, error)

	// QueryBySimilarity returns up to k documents ordered by ascending cosine
	// distance to vec. Documents without a vector are skipped. k <= 0 means
	// no limit.
	QueryBySimilarity(ctx context.Context, vec []float32, k int) ([]Match, error)

	// QueryBySubstring returns, in insertion order, the documents whose
	// content (or filename when withFilename is set) contains pattern,
	// ignoring case.
	QueryBySubstring(ctx context.Context, pattern string, withFilename bool) ([]Document, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the store.
	Close() error
}
