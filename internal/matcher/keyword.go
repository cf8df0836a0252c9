package matcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/docsearch/internal/vectordb"
)

// Keyword returns the documents containing the query, ignoring case, in the
// store's insertion order.
type Keyword struct {
	store         vectordb.Store
	matchFilename bool
}

// NewKeyword creates a keyword matcher. With matchFilename set, a document
// also matches when its filename contains the query.
func NewKeyword(store vectordb.Store, matchFilename bool) *Keyword {
	return &Keyword{store: store, matchFilename: matchFilename}
}

func (k *Keyword) Mode() Mode { return ModeKeyword }

func (k *Keyword) sealed() {}

func (k *Keyword) Rank(ctx context.Context, query string) ([]Ranked, error) {
	docs, err := k.store.QueryBySubstring(ctx, strings.ToLower(query), k.matchFilename)
	if err != nil {
		return nil, fmt.Errorf("keyword match: %w", err)
	}

	out := make([]Ranked, len(docs))
	for i, d := range docs {
		out[i] = Ranked{Document: d, Score: 1}
	}
	return out, nil
}
