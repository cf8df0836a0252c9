package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docsearch! Let's configure your index.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Matching mode.
	modePrompt := promptui.Select{
		Label: "Select search mode",
		Items: []string{
			"keyword - case-insensitive substring matching",
			"vector  - semantic nearest-neighbour search via embeddings",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("mode selection: %w", err)
	}
	cfg.Mode = []Mode{ModeKeyword, ModeVector}[modeIdx]

	// 2. Store backend. chromem only holds vectors.
	stores := []string{string(StoreSQLite), string(StoreMemory)}
	if cfg.Mode == ModeVector {
		stores = append(stores, string(StoreChromem))
	}
	storePrompt := promptui.Select{
		Label: "Select document store",
		Items: stores,
	}
	_, storeStr, err := storePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("store selection: %w", err)
	}
	cfg.Store = StoreType(storeStr)

	// 3. Embedding provider and model.
	if cfg.Mode == ModeVector {
		providerPrompt := promptui.Select{
			Label: "Select embedding provider",
			Items: []string{"ollama", "openai", "google"},
		}
		_, providerStr, err := providerPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("provider selection: %w", err)
		}
		cfg.EmbeddingProvider = ProviderType(providerStr)

		modelPrompt := promptui.Prompt{
			Label:   "Embedding model",
			Default: DefaultEmbeddingModel(cfg.EmbeddingProvider),
		}
		if cfg.EmbeddingModel, err = modelPrompt.Run(); err != nil {
			return nil, fmt.Errorf("embedding model: %w", err)
		}
	}

	// 4. Data directory.
	if cfg.Store != StoreMemory {
		dataPrompt := promptui.Prompt{
			Label:   "Data directory",
			Default: cfg.DataDir,
		}
		if cfg.DataDir, err = dataPrompt.Run(); err != nil {
			return nil, fmt.Errorf("data dir: %w", err)
		}
	}

	// 5. Server port.
	portPrompt := promptui.Prompt{
		Label:    "HTTP server port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 6. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	cfg.Exclude = append(cfg.Exclude, splitAndTrim(excludeStr)...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Check for API key.
	if envVar := APIKeyEnvVar(cfg.EmbeddingProvider); cfg.Mode == ModeVector && envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment or .env before running docsearch.\n", envVar)
		}
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("enter a port between 1 and 65535")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and drops empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
