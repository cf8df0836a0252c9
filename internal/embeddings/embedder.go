package embeddings

import "context"

// Intent tells the embedding model what the text will be used for. Some
// providers produce different vectors for stored documents and for the
// queries run against them.
type Intent int

const (
	IntentDocument Intent = iota
	IntentQuery
)

func (i Intent) String() string {
	switch i {
	case IntentQuery:
		return "query"
	default:
		return "document"
	}
}

// Embedder defines the interface for generating text embeddings.
type Embedder interface {
	// Embed generates one embedding per text, in input order.
	Embed(ctx context.Context, texts []string, intent Intent) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors,
	// or 0 when the model does not declare it up front.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}
