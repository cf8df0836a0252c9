package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/docsearch/internal/domain"
	"github.com/ziadkadry99/docsearch/internal/embeddings"
	"github.com/ziadkadry99/docsearch/internal/matcher"
	"github.com/ziadkadry99/docsearch/internal/vectordb"
)

// wordEmbedder embeds text as counts of a few marker words, so documents
// sharing vocabulary with the query land close to it.
type wordEmbedder struct {
	err   error
	delay time.Duration
}

var markerWords = []string{"campaign", "roadmap", "memo", "budget"}

func (e *wordEmbedder) Name() string    { return "words" }
func (e *wordEmbedder) Dimensions() int { return len(markerWords) + 1 }

func (e *wordEmbedder) Embed(ctx context.Context, texts []string, _ embeddings.Intent) ([][]float32, error) {
	if e.delay > 0 {
		select {
		case <-time.After(e.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, len(markerWords)+1)
		lower := strings.ToLower(t)
		for j, w := range markerWords {
			v[j] = float32(strings.Count(lower, w))
		}
		v[len(markerWords)] = 0.01
		out[i] = v
	}
	return out, nil
}

func keywordPipeline(t *testing.T, store vectordb.Store) *Pipeline {
	t.Helper()
	p, err := New(store, matcher.NewKeyword(store, false), nil, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func vectorPipeline(t *testing.T, store vectordb.Store, e embeddings.Embedder, timeout time.Duration) *Pipeline {
	t.Helper()
	agg := embeddings.NewAggregator(e, embeddings.AggregatorOptions{ChunkSize: 64, Timeout: timeout})
	p, err := New(store, matcher.NewVector(store, agg, 0, 0), agg, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestEndToEndKeyword(t *testing.T) {
	ctx := context.Background()
	p := keywordPipeline(t, vectordb.NewMemoryStore(0))

	doc, err := p.Ingest(ctx, "q3.txt", "Q3 marketing campaign results")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if doc.Category != domain.CategoryMarketing {
		t.Errorf("category = %s, want Marketing", doc.Category)
	}
	if doc.Vector != nil {
		t.Errorf("keyword mode must not store vectors")
	}

	if _, err := p.Ingest(ctx, "notes.txt", "random notes"); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	results, err := p.Search(ctx, "campaign")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Filename != "q3.txt" || r.ID != doc.ID || r.Category != domain.CategoryMarketing {
		t.Errorf("unexpected result %+v", r)
	}
	if !strings.Contains(r.Snippet, "campaign") {
		t.Errorf("snippet %q does not contain the query", r.Snippet)
	}
	if !strings.Contains(r.Highlighted, "<strong>campaign</strong>") {
		t.Errorf("highlighted %q does not mark the query", r.Highlighted)
	}
}

func TestSearchNoMatch(t *testing.T) {
	ctx := context.Background()
	p := keywordPipeline(t, vectordb.NewMemoryStore(0))
	if _, err := p.Ingest(ctx, "a.txt", "alpha"); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	results, err := p.Search(ctx, "omega")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil results, got %v", results)
	}
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	p := keywordPipeline(t, vectordb.NewMemoryStore(0))
	for _, q := range []string{"", "   ", "\t\n"} {
		if _, err := p.Search(context.Background(), q); !errors.Is(err, domain.ErrEmptyInput) {
			t.Errorf("Search(%q): expected ErrEmptyInput, got %v", q, err)
		}
	}
}

func TestSearchKeepsQueryWhitespace(t *testing.T) {
	ctx := context.Background()
	p := keywordPipeline(t, vectordb.NewMemoryStore(0))
	if _, err := p.Ingest(ctx, "bare.txt", "plan"); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if _, err := p.Ingest(ctx, "spaced.txt", "a plan"); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	results, err := p.Search(ctx, "plan")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Search(plan): expected 2 results, got %d", len(results))
	}

	results, err = p.Search(ctx, " plan")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Filename != "spaced.txt" {
		t.Fatalf("Search(\" plan\"): expected only spaced.txt, got %+v", results)
	}
	if results[0].Highlighted != "...a<strong> plan</strong>..." {
		t.Errorf("highlighted = %q", results[0].Highlighted)
	}
}

func TestIngestRequiresFilename(t *testing.T) {
	p := keywordPipeline(t, vectordb.NewMemoryStore(0))
	if _, err := p.Ingest(context.Background(), " ", "content"); !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestEndToEndVector(t *testing.T) {
	ctx := context.Background()
	store := vectordb.NewMemoryStore(0)
	p := vectorPipeline(t, store, &wordEmbedder{}, 0)

	inputs := map[string]string{
		"campaign.txt": "Our spring campaign and the autumn campaign",
		"roadmap.txt":  "The product roadmap for next year",
		"memo.txt":     "Internal memo about budget",
	}
	for _, name := range []string{"campaign.txt", "roadmap.txt", "memo.txt"} {
		doc, err := p.Ingest(ctx, name, inputs[name])
		if err != nil {
			t.Fatalf("Ingest %s: %v", name, err)
		}
		if len(doc.Vector) != 5 {
			t.Errorf("%s: expected 5-dim vector, got %d", name, len(doc.Vector))
		}
	}

	results, err := p.Search(ctx, "roadmap")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected all 3 documents within top-k, got %d", len(results))
	}
	if results[0].Filename != "roadmap.txt" {
		t.Errorf("expected roadmap.txt first, got %s", results[0].Filename)
	}
	if results[0].Category != domain.CategoryProduct {
		t.Errorf("expected Product category, got %s", results[0].Category)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score < results[i-1].Score {
			t.Errorf("results not sorted by distance")
		}
	}
}

// recordingEmbedder remembers the texts it was asked to embed.
type recordingEmbedder struct {
	wordEmbedder
	texts []string
}

func (e *recordingEmbedder) Embed(ctx context.Context, texts []string, intent embeddings.Intent) ([][]float32, error) {
	e.texts = append(e.texts, texts...)
	return e.wordEmbedder.Embed(ctx, texts, intent)
}

func TestVectorIngestMarkdownEmbedsPlainText(t *testing.T) {
	ctx := context.Background()
	e := &recordingEmbedder{}
	p := vectorPipeline(t, vectordb.NewMemoryStore(0), e, 0)

	raw := "# Roadmap\n\n**Product** roadmap"
	doc, err := p.Ingest(ctx, "plan.md", raw)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if doc.Content != raw {
		t.Errorf("stored content = %q, want the raw upload", doc.Content)
	}
	if len(e.texts) == 0 {
		t.Fatal("embedder was not called")
	}
	embedded := strings.Join(e.texts, "")
	if strings.Contains(embedded, "#") || strings.Contains(embedded, "**") {
		t.Errorf("embedder received markup: %q", embedded)
	}
	if !strings.Contains(embedded, "Product roadmap") {
		t.Errorf("embedder input = %q", embedded)
	}
}

func TestVectorIngestFailureStoresNothing(t *testing.T) {
	ctx := context.Background()
	store := vectordb.NewMemoryStore(0)
	p := vectorPipeline(t, store, &wordEmbedder{err: errors.New("quota")}, 0)

	_, err := p.Ingest(ctx, "a.txt", "campaign")
	if !errors.Is(err, domain.ErrEmbedding) {
		t.Fatalf("expected ErrEmbedding, got %v", err)
	}
	if n, _ := store.Count(ctx); n != 0 {
		t.Errorf("failed ingest must not persist, count = %d", n)
	}
}

func TestVectorIngestEmptyContent(t *testing.T) {
	p := vectorPipeline(t, vectordb.NewMemoryStore(0), &wordEmbedder{}, 0)
	_, err := p.Ingest(context.Background(), "empty.txt", "")
	if !errors.Is(err, embeddings.ErrNoChunks) {
		t.Fatalf("expected ErrNoChunks, got %v", err)
	}
}

func TestVectorSearchFailureIsNotEmptyResult(t *testing.T) {
	ctx := context.Background()
	store := vectordb.NewMemoryStore(0)
	emb := &wordEmbedder{}
	p := vectorPipeline(t, store, emb, 0)
	if _, err := p.Ingest(ctx, "a.txt", "campaign"); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	emb.err = errors.New("provider down")
	results, err := p.Search(ctx, "campaign")
	if !errors.Is(err, domain.ErrEmbedding) {
		t.Fatalf("expected ErrEmbedding, got %v", err)
	}
	if results != nil {
		t.Errorf("failed search must not return results")
	}
}

func TestVectorSearchTimeout(t *testing.T) {
	ctx := context.Background()
	store := vectordb.NewMemoryStore(0)
	emb := &wordEmbedder{}
	p := vectorPipeline(t, store, emb, 20*time.Millisecond)
	if _, err := p.Ingest(ctx, "a.txt", "campaign"); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	emb.delay = time.Second
	if _, err := p.Search(ctx, "campaign"); !errors.Is(err, domain.ErrEmbeddingTimeout) {
		t.Fatalf("expected ErrEmbeddingTimeout, got %v", err)
	}
}

func TestNewVectorModeNeedsAggregator(t *testing.T) {
	store := vectordb.NewMemoryStore(0)
	agg := embeddings.NewAggregator(&wordEmbedder{}, embeddings.AggregatorOptions{})
	if _, err := New(store, matcher.NewVector(store, agg, 0, 0), nil, Options{}); err == nil {
		t.Error("expected error without aggregator in vector mode")
	}
}

func TestDocuments(t *testing.T) {
	ctx := context.Background()
	p := keywordPipeline(t, vectordb.NewMemoryStore(0))
	first, _ := p.Ingest(ctx, "one.txt", "first")
	p.Ingest(ctx, "two.txt", "second")

	docs, err := p.Documents(ctx)
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if len(docs) != 2 || docs[0].Filename != "one.txt" {
		t.Errorf("unexpected listing %+v", docs)
	}

	got, err := p.Document(ctx, first.ID)
	if err != nil || got.Content != "first" {
		t.Errorf("Document = %+v, %v", got, err)
	}
	if _, err := p.Document(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if n, _ := p.Count(ctx); n != 2 {
		t.Errorf("Count = %d", n)
	}
}

func TestFormatResults(t *testing.T) {
	if got := FormatResults(nil); got != "No results found." {
		t.Errorf("empty: %q", got)
	}
	got := FormatResults([]Result{{ID: "1", Filename: "a.txt", Snippet: "...hit...", Category: domain.CategoryGeneral, Score: 1}})
	for _, want := range []string{"Found 1 result(s)", "File: a.txt", "Category: General", "...hit..."} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}
