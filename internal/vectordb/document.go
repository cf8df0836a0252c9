package vectordb

import (
	"time"

	"github.com/ziadkadry99/docsearch/internal/domain"
)

// Document is an indexed upload. It is immutable once inserted.
type Document struct {
	ID        string
	Filename  string
	Content   string
	Category  domain.Category
	Vector    []float32 // nil in keyword mode
	CreatedAt time.Time
}

// Match pairs a document with its cosine distance to a query vector.
// Smaller is more similar.
type Match struct {
	Document Document
	Distance float32
}
