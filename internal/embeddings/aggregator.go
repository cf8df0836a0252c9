package embeddings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/docsearch/internal/chunker"
	"github.com/ziadkadry99/docsearch/internal/domain"
)

const (
	DefaultBatchSize      = 16
	DefaultMaxConcurrency = 4
)

// ErrNoChunks is returned when a document produces no chunks to embed.
var ErrNoChunks = fmt.Errorf("%w: no chunks to embed", domain.ErrEmptyInput)

// AggregatorOptions tunes how documents are chunked and embedded. Zero
// values select the defaults.
type AggregatorOptions struct {
	ChunkSize      int
	BatchSize      int
	MaxConcurrency int
	// Timeout bounds each call to the embedder. Zero disables it.
	Timeout time.Duration
}

// Aggregator turns documents and queries into single vectors.
type Aggregator struct {
	embedder Embedder
	opts     AggregatorOptions
}

// NewAggregator creates an Aggregator over e.
func NewAggregator(e Embedder, opts AggregatorOptions) *Aggregator {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = chunker.DefaultChunkSize
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = DefaultMaxConcurrency
	}
	return &Aggregator{embedder: e, opts: opts}
}

// Embedder returns the underlying embedder.
func (a *Aggregator) Embedder() Embedder {
	return a.embedder
}

// EmbedDocument chunks text, embeds every chunk and returns the
// component-wise mean of the chunk vectors. All chunk calls must succeed.
func (a *Aggregator) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	chunks := chunker.Split(text, a.opts.ChunkSize)
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	vectors := make([][]float32, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.MaxConcurrency)
	for start := 0; start < len(chunks); start += a.opts.BatchSize {
		end := start + a.opts.BatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		g.Go(func() error {
			vecs, err := a.embed(gctx, chunks[start:end], IntentDocument)
			if err != nil {
				return err
			}
			copy(vectors[start:end], vecs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mean, err := Mean(vectors)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}
	return mean, nil
}

// EmbedQuery embeds text with a single call. Queries are never chunked.
func (a *Aggregator) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := a.embed(ctx, []string{text}, IntentQuery)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// embed performs one bounded call and validates the response shape.
func (a *Aggregator) embed(ctx context.Context, texts []string, intent Intent) ([][]float32, error) {
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	vecs, err := a.embedder.Embed(ctx, texts, intent)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("embed %d %s text(s) with %s: %w: %w", len(texts), intent, a.embedder.Name(), domain.ErrEmbeddingTimeout, err)
		}
		return nil, fmt.Errorf("embed %d %s text(s) with %s: %w: %w", len(texts), intent, a.embedder.Name(), domain.ErrEmbedding, err)
	}

	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%w: malformed response: got %d vectors for %d texts", domain.ErrEmbedding, len(vecs), len(texts))
	}
	want := a.embedder.Dimensions()
	for i, v := range vecs {
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: malformed response: vector %d is empty", domain.ErrEmbedding, i)
		}
		if want > 0 && len(v) != want {
			return nil, fmt.Errorf("%w: malformed response: vector %d has %d dimensions, want %d", domain.ErrEmbedding, i, len(v), want)
		}
	}
	return vecs, nil
}

// Mean returns the component-wise arithmetic mean of vectors, accumulating
// in float64. Every vector must have the same length.
func Mean(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, errors.New("no vectors to average")
	}
	dim := len(vectors[0])
	sum := make([]float64, dim)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has %d dimensions, want %d", i, len(v), dim)
		}
		for j, x := range v {
			sum[j] += float64(x)
		}
	}

	n := float64(len(vectors))
	mean := make([]float32, dim)
	for j, s := range sum {
		mean[j] = float32(s / n)
	}
	return mean, nil
}
