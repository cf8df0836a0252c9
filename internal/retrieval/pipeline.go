// Package retrieval ties categorization, embedding, matching and snippet
// extraction together behind ingest and search operations.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/docsearch/internal/categorizer"
	"github.com/ziadkadry99/docsearch/internal/domain"
	"github.com/ziadkadry99/docsearch/internal/embeddings"
	"github.com/ziadkadry99/docsearch/internal/matcher"
	"github.com/ziadkadry99/docsearch/internal/normalize"
	"github.com/ziadkadry99/docsearch/internal/snippet"
	"github.com/ziadkadry99/docsearch/internal/vectordb"
)

// Options tunes snippet extraction. Zero values select the defaults.
type Options struct {
	SnippetBefore int
	SnippetAfter  int
}

// Pipeline owns one store for its lifetime and serves ingest and search.
type Pipeline struct {
	store   vectordb.Store
	matcher matcher.Matcher
	agg     *embeddings.Aggregator
	opts    Options
}

// New creates a pipeline. agg may be nil in keyword mode.
func New(store vectordb.Store, m matcher.Matcher, agg *embeddings.Aggregator, opts Options) (*Pipeline, error) {
	if m.Mode() == matcher.ModeVector && agg == nil {
		return nil, fmt.Errorf("vector mode requires an embedder")
	}
	if opts.SnippetBefore <= 0 {
		opts.SnippetBefore = snippet.DefaultBefore
	}
	if opts.SnippetAfter <= 0 {
		opts.SnippetAfter = snippet.DefaultAfter
	}
	return &Pipeline{store: store, matcher: m, agg: agg, opts: opts}, nil
}

// Mode returns the matching mode the pipeline was built with.
func (p *Pipeline) Mode() matcher.Mode {
	return p.matcher.Mode()
}

// Ingest categorizes content and stores it unchanged. In vector mode the
// document is embedded first (markdown as plain text); if that fails
// nothing is stored.
func (p *Pipeline) Ingest(ctx context.Context, filename, content string) (vectordb.Document, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return vectordb.Document{}, fmt.Errorf("%w: filename is required", domain.ErrEmptyInput)
	}

	doc := vectordb.Document{
		Filename: filename,
		Content:  content,
	}

	if p.matcher.Mode() == matcher.ModeVector {
		vec, err := p.agg.EmbedDocument(ctx, normalize.EmbeddingText(filename, content))
		if err != nil {
			return vectordb.Document{}, fmt.Errorf("embedding %s: %w", filename, err)
		}
		doc.Vector = vec
	}

	doc.Category = categorizer.Categorize(content)

	stored, err := p.store.Insert(ctx, doc)
	if err != nil {
		return vectordb.Document{}, fmt.Errorf("storing %s: %w", filename, err)
	}
	return stored, nil
}

// Search ranks the corpus against query and returns one result per match.
// The query is matched exactly as given, surrounding whitespace included.
// An empty result slice means nothing matched.
func (p *Pipeline) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search term is required", domain.ErrEmptyInput)
	}

	ranked, err := p.matcher.Rank(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}

	results := make([]Result, len(ranked))
	for i, r := range ranked {
		snip := snippet.Extract(r.Document.Content, query, p.opts.SnippetBefore, p.opts.SnippetAfter)
		results[i] = Result{
			ID:          r.Document.ID,
			Filename:    r.Document.Filename,
			Snippet:     snip,
			Highlighted: snippet.HighlightHTML(snip, query),
			Category:    r.Document.Category,
			Score:       r.Score,
		}
	}
	return results, nil
}

// Documents lists every stored document in insertion order.
func (p *Pipeline) Documents(ctx context.Context) ([]vectordb.Document, error) {
	return p.store.Scan(ctx)
}

// Document returns one stored document or domain.ErrNotFound.
func (p *Pipeline) Document(ctx context.Context, id string) (vectordb.Document, error) {
	return p.store.Get(ctx, id)
}

// Count returns the number of stored documents.
func (p *Pipeline) Count(ctx context.Context) (int, error) {
	return p.store.Count(ctx)
}
