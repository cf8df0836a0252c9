package embeddings

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited wraps an Embedder with a token bucket allowing at most rpm
// calls per minute. The bucket starts full.
type RateLimited struct {
	embedder Embedder
	limiter  *rate.Limiter
}

// NewRateLimited wraps e. A non-positive rpm returns e unchanged.
func NewRateLimited(e Embedder, rpm int) Embedder {
	if rpm <= 0 {
		return e
	}
	return &RateLimited{
		embedder: e,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm),
	}
}

func (r *RateLimited) Name() string {
	return r.embedder.Name()
}

func (r *RateLimited) Dimensions() int {
	return r.embedder.Dimensions()
}

func (r *RateLimited) Embed(ctx context.Context, texts []string, intent Intent) ([][]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.embedder.Embed(ctx, texts, intent)
}
