// Package matcher ranks stored documents against a query. A deployment runs
// in exactly one mode, keyword or vector, chosen when the Matcher is built.
package matcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/docsearch/internal/embeddings"
	"github.com/ziadkadry99/docsearch/internal/vectordb"
)

// Mode selects the matching strategy.
type Mode string

const (
	ModeKeyword Mode = "keyword"
	ModeVector  Mode = "vector"
)

// DefaultTopK is the number of nearest documents a vector search returns.
const DefaultTopK = 5

// ParseMode converts a configuration value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeKeyword, ModeVector:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want %q or %q)", s, ModeKeyword, ModeVector)
	}
}

// Ranked is a document with its score. For keyword matches the score is 1;
// for vector matches it is the cosine distance, smaller being closer.
type Ranked struct {
	Document vectordb.Document
	Score    float32
}

// Matcher ranks the corpus against a query. The only implementations are
// *Keyword and *Vector.
type Matcher interface {
	Rank(ctx context.Context, query string) ([]Ranked, error)
	Mode() Mode
	sealed()
}

// Options configures New.
type Options struct {
	// MatchFilename also matches keyword queries against filenames.
	MatchFilename bool
	// TopK bounds vector results. Zero means DefaultTopK.
	TopK int
	// MaxDistance drops vector results farther than this. Zero disables it.
	MaxDistance float32
}

// New builds the matcher for mode. Vector mode requires an aggregator.
func New(mode Mode, store vectordb.Store, agg *embeddings.Aggregator, opts Options) (Matcher, error) {
	switch mode {
	case ModeKeyword:
		return NewKeyword(store, opts.MatchFilename), nil
	case ModeVector:
		if agg == nil {
			return nil, fmt.Errorf("vector mode requires an embedder")
		}
		return NewVector(store, agg, opts.TopK, opts.MaxDistance), nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}
