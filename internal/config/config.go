package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "DOCSEARCH_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCSEARCH_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: DOCSEARCH_MODE -> mode,
	// DOCSEARCH_SERVER_PORT -> server.port.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "server_"); ok {
		return "server." + rest
	}
	return key
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validModes = map[Mode]bool{
	ModeKeyword: true,
	ModeVector:  true,
}

var validStores = map[StoreType]bool{
	StoreMemory:  true,
	StoreSQLite:  true,
	StoreChromem: true,
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderGoogle: true,
	ProviderOllama: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if !validModes[c.Mode] {
		return fmt.Errorf("invalid mode %q: must be keyword or vector", c.Mode)
	}
	if !validStores[c.Store] {
		return fmt.Errorf("invalid store %q: must be one of memory, sqlite, chromem", c.Store)
	}
	if c.Store == StoreChromem && c.Mode != ModeVector {
		return fmt.Errorf("store chromem requires mode vector")
	}
	if c.Store != StoreMemory && c.DataDir == "" {
		return fmt.Errorf("data_dir is required for store %s", c.Store)
	}

	if c.Mode == ModeVector {
		if !validProviders[c.EmbeddingProvider] {
			return fmt.Errorf("invalid embedding_provider %q: must be one of openai, google, ollama", c.EmbeddingProvider)
		}
		if c.EmbeddingModel == "" {
			return fmt.Errorf("embedding_model is required in vector mode")
		}
	}

	nonNegative := map[string]int{
		"embedding_dimensions":      c.EmbeddingDimensions,
		"embedding_timeout_seconds": c.EmbeddingTimeoutSeconds,
		"embedding_rpm":             c.EmbeddingRPM,
		"max_concurrency":           c.MaxConcurrency,
		"batch_size":                c.BatchSize,
		"chunk_size":                c.ChunkSize,
		"top_k":                     c.TopK,
		"snippet_before":            c.SnippetBefore,
		"snippet_after":             c.SnippetAfter,
		"server.max_upload_mb":      c.Server.MaxUploadMB,
	}
	for name, v := range nonNegative {
		if v < 0 {
			return fmt.Errorf("%s must be non-negative", name)
		}
	}
	if c.MaxDistance < 0 || c.MaxDistance > 2 {
		return fmt.Errorf("max_distance must be between 0 and 2")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGoogle:
		return "GOOGLE_API_KEY"
	default:
		return ""
	}
}
