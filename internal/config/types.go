package config

// Mode selects keyword or vector matching.
type Mode string

const (
	ModeKeyword Mode = "keyword"
	ModeVector  Mode = "vector"
)

// StoreType identifies a document store backend.
type StoreType string

const (
	StoreMemory  StoreType = "memory"
	StoreSQLite  StoreType = "sqlite"
	StoreChromem StoreType = "chromem"
)

// ProviderType identifies an embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderGoogle ProviderType = "google"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level docsearch configuration, corresponding to .docsearch.yml.
type Config struct {
	Mode    Mode      `yaml:"mode" koanf:"mode"`
	Store   StoreType `yaml:"store" koanf:"store"`
	DataDir string    `yaml:"data_dir" koanf:"data_dir"`

	EmbeddingProvider       ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel          string       `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingBaseURL        string       `yaml:"embedding_base_url,omitempty" koanf:"embedding_base_url"`
	EmbeddingDimensions     int          `yaml:"embedding_dimensions" koanf:"embedding_dimensions"`
	EmbeddingTimeoutSeconds int          `yaml:"embedding_timeout_seconds" koanf:"embedding_timeout_seconds"`
	EmbeddingRPM            int          `yaml:"embedding_rpm" koanf:"embedding_rpm"`
	MaxConcurrency          int          `yaml:"max_concurrency" koanf:"max_concurrency"`
	BatchSize               int          `yaml:"batch_size" koanf:"batch_size"`
	ChunkSize               int          `yaml:"chunk_size" koanf:"chunk_size"`

	TopK          int     `yaml:"top_k" koanf:"top_k"`
	MaxDistance   float64 `yaml:"max_distance" koanf:"max_distance"`
	MatchFilename bool    `yaml:"match_filename" koanf:"match_filename"`
	SnippetBefore int     `yaml:"snippet_before" koanf:"snippet_before"`
	SnippetAfter  int     `yaml:"snippet_after" koanf:"snippet_after"`

	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`

	Server ServerConfig `yaml:"server" koanf:"server"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	MaxUploadMB     int  `yaml:"max_upload_mb" koanf:"max_upload_mb"`
}
