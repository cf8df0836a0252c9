package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/docsearch/internal/config"
	"github.com/ziadkadry99/docsearch/internal/db"
	"github.com/ziadkadry99/docsearch/internal/embeddings"
	"github.com/ziadkadry99/docsearch/internal/matcher"
	"github.com/ziadkadry99/docsearch/internal/retrieval"
	"github.com/ziadkadry99/docsearch/internal/vectordb"
)

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
// It is shared by serve, mcp, ingest and query.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	model := cfg.EmbeddingModel
	if model == "" {
		model = config.DefaultEmbeddingModel(cfg.EmbeddingProvider)
	}

	var e embeddings.Embedder
	switch cfg.EmbeddingProvider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" && cfg.EmbeddingBaseURL == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		e = embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(model), cfg.EmbeddingBaseURL, cfg.EmbeddingDimensions)
	case config.ProviderGoogle:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderGoogle))
		if apiKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY environment variable is required for Google embeddings")
		}
		e = embeddings.NewGoogleEmbedder(apiKey, embeddings.GoogleModel(model), cfg.EmbeddingBaseURL)
	case config.ProviderOllama:
		dims := cfg.EmbeddingDimensions
		if dims == 0 && model == config.DefaultEmbeddingModel(config.ProviderOllama) {
			dims = config.DefaultEmbeddingDimensions(config.ProviderOllama)
		}
		e = embeddings.NewOllamaEmbedder(model, dims, cfg.EmbeddingBaseURL)
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.EmbeddingProvider)
	}

	return embeddings.NewRateLimited(e, cfg.EmbeddingRPM), nil
}

// storeDimensions is the configured vector length, or the embedder's when
// not configured. 0 lets the first stored vector decide.
func storeDimensions(cfg *config.Config, e embeddings.Embedder) int {
	if cfg.EmbeddingDimensions > 0 {
		return cfg.EmbeddingDimensions
	}
	if e != nil {
		return e.Dimensions()
	}
	return 0
}

// openStore opens the configured document store. e is nil in keyword mode.
func openStore(ctx context.Context, cfg *config.Config, e embeddings.Embedder) (vectordb.Store, error) {
	dims := storeDimensions(cfg, e)

	switch cfg.Store {
	case config.StoreMemory:
		return vectordb.NewMemoryStore(dims), nil
	case config.StoreSQLite:
		database, err := db.Open(cfg.DatabasePath())
		if err != nil {
			return nil, err
		}
		store, err := vectordb.NewSQLiteStore(ctx, database, dims)
		if err != nil {
			database.Close()
			return nil, err
		}
		return store, nil
	case config.StoreChromem:
		if e == nil {
			return nil, fmt.Errorf("store chromem requires mode vector")
		}
		return vectordb.NewChromemStore(filepath.Clean(cfg.DataDir), e, dims)
	default:
		return nil, fmt.Errorf("unsupported store %q", cfg.Store)
	}
}

// buildPipeline wires the store, embedder and matcher for cfg. The caller
// closes the returned store.
func buildPipeline(ctx context.Context, cfg *config.Config) (*retrieval.Pipeline, vectordb.Store, error) {
	mode, err := matcher.ParseMode(string(cfg.Mode))
	if err != nil {
		return nil, nil, err
	}

	var (
		embedder embeddings.Embedder
		agg      *embeddings.Aggregator
	)
	if mode == matcher.ModeVector {
		if embedder, err = createEmbedderFromConfig(cfg); err != nil {
			return nil, nil, fmt.Errorf("creating embedder: %w", err)
		}
		agg = embeddings.NewAggregator(embedder, embeddings.AggregatorOptions{
			ChunkSize:      cfg.ChunkSize,
			BatchSize:      cfg.BatchSize,
			MaxConcurrency: cfg.MaxConcurrency,
			Timeout:        cfg.EmbeddingTimeout(),
		})
	}

	store, err := openStore(ctx, cfg, embedder)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s store: %w", cfg.Store, err)
	}

	m, err := matcher.New(mode, store, agg, matcher.Options{
		MatchFilename: cfg.MatchFilename,
		TopK:          cfg.TopK,
		MaxDistance:   float32(cfg.MaxDistance),
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	p, err := retrieval.New(store, m, agg, retrieval.Options{
		SnippetBefore: cfg.SnippetBefore,
		SnippetAfter:  cfg.SnippetAfter,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return p, store, nil
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docsearch init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}
