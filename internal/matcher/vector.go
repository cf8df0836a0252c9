package matcher

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/docsearch/internal/embeddings"
	"github.com/ziadkadry99/docsearch/internal/vectordb"
)

// Vector returns the documents nearest to the query embedding.
type Vector struct {
	store       vectordb.Store
	agg         *embeddings.Aggregator
	topK        int
	maxDistance float32
}

// NewVector creates a vector matcher. topK <= 0 selects DefaultTopK.
// maxDistance > 0 drops results farther than it; by default the topK
// nearest documents are returned whatever their distance.
func NewVector(store vectordb.Store, agg *embeddings.Aggregator, topK int, maxDistance float32) *Vector {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Vector{store: store, agg: agg, topK: topK, maxDistance: maxDistance}
}

func (v *Vector) Mode() Mode { return ModeVector }

func (v *Vector) sealed() {}

// Rank embeds the query and searches the store. An embedding failure fails
// the whole call.
func (v *Vector) Rank(ctx context.Context, query string) ([]Ranked, error) {
	vec, err := v.agg.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	matches, err := v.store.QueryBySimilarity(ctx, vec, v.topK)
	if err != nil {
		return nil, fmt.Errorf("vector match: %w", err)
	}

	out := make([]Ranked, 0, len(matches))
	for _, m := range matches {
		if v.maxDistance > 0 && m.Distance > v.maxDistance {
			break
		}
		out = append(out, Ranked{Document: m.Document, Score: m.Distance})
	}
	return out, nil
}
