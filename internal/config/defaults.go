package config

import (
	"path/filepath"
	"time"
)

// DefaultConfigFile is the config file looked up in the working directory.
const DefaultConfigFile = ".docsearch.yml"

// embeddingDefaults maps each provider to its default model and dimension.
var embeddingDefaults = map[ProviderType]struct {
	Model      string
	Dimensions int
}{
	ProviderOpenAI: {Model: "text-embedding-3-small", Dimensions: 1536},
	ProviderGoogle: {Model: "text-embedding-004", Dimensions: 768},
	ProviderOllama: {Model: "nomic-embed-text", Dimensions: 768},
}

// DefaultExcludes are glob patterns skipped when ingesting directories.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"vendor/**",
	".docsearch/**",
	"**/*.min.js",
	"**/*.lock",
}

// DefaultIncludes are glob patterns ingested from directories.
var DefaultIncludes = []string{
	"**/*.txt",
	"**/*.md",
	"**/*.markdown",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mode:                    ModeKeyword,
		Store:                   StoreSQLite,
		DataDir:                 ".docsearch",
		EmbeddingProvider:       ProviderOllama,
		EmbeddingModel:          embeddingDefaults[ProviderOllama].Model,
		EmbeddingDimensions:     0,
		EmbeddingTimeoutSeconds: 30,
		EmbeddingRPM:            0,
		MaxConcurrency:          4,
		BatchSize:               16,
		ChunkSize:               10000,
		TopK:                    5,
		MaxDistance:             0,
		MatchFilename:           true,
		SnippetBefore:           50,
		SnippetAfter:            50,
		Include:                 append([]string(nil), DefaultIncludes...),
		Exclude:                 append([]string(nil), DefaultExcludes...),
		Server: ServerConfig{
			Port:            5000,
			AllowAllOrigins: false,
			MaxUploadMB:     10,
		},
	}
}

// DefaultEmbeddingModel returns the default model for provider.
func DefaultEmbeddingModel(provider ProviderType) string {
	return embeddingDefaults[provider].Model
}

// DefaultEmbeddingDimensions returns the native dimension of the provider's
// default model, or 0 when unknown.
func DefaultEmbeddingDimensions(provider ProviderType) int {
	return embeddingDefaults[provider].Dimensions
}

// DatabasePath returns the SQLite database path under DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "docsearch.db")
}

// EmbeddingTimeout returns the per-call embedding deadline.
func (c *Config) EmbeddingTimeout() time.Duration {
	return time.Duration(c.EmbeddingTimeoutSeconds) * time.Second
}
