package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type EmbeddingsConfig struct {
	Backend   string `yaml:"backend"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Dimension int    `yaml:"dimension"`
}

type ChunkingConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"`
}

type Config struct {
	Embeddings      EmbeddingsConfig          `yaml:"embeddings"`
	Chunking        ChunkingConfig            `yaml:"chunking"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	IndexDir        string                    `yaml:"index_dir,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Embeddings: EmbeddingsConfig{
			Backend:   "openai",
			Model:     DefaultEmbedModel,
			Dimension: DefaultEmbedDimension,
		},
		Chunking: ChunkingConfig{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
		},
		Providers: make(map[string]ProviderConfig),
	}
}

// DefaultConfigPath is ~/.lix/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, ".lix", "config.yaml"), nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	if cfg.Chunking.ChunkSize == 0 {
		cfg.Chunking.ChunkSize = DefaultChunkSize
	}
	if cfg.Embeddings.Model == "" {
		cfg.Embeddings.Model = DefaultEmbedModel
	}
	if cfg.Embeddings.Dimension == 0 {
		cfg.Embeddings.Dimension = DefaultEmbedDimension
	}

	return &cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Apply pushes the file-level chunking defaults onto a Settings facade.
func (c *Config) Apply(settings *Settings) error {
	parser := NewSentenceSplitter(
		WithChunkSize(c.Chunking.ChunkSize),
		WithChunkOverlap(c.Chunking.ChunkOverlap),
	)
	settings.SetNodeParser(parser)
	return nil
}

// EmbedderFromConfig builds the configured embedding backend.
func EmbedderFromConfig(cfg *Config) (Embedder, error) {
	switch cfg.Embeddings.Backend {
	case "", "openai":
		opts := []EmbedderOption{
			WithEmbedderModel(cfg.Embeddings.Model, cfg.Embeddings.Dimension),
		}
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			opts = append(opts, WithEmbedderAPIKey(key))
		}
		if cfg.Embeddings.BaseURL != "" {
			opts = append(opts, WithEmbedderBaseURL(cfg.Embeddings.BaseURL))
		}
		return NewOpenAIEmbedder(opts...), nil
	default:
		return nil, fmt.Errorf("unsupported embeddings backend: %s", cfg.Embeddings.Backend)
	}
}

// LLMFromConfig builds the configured default provider, falling back to
// environment resolution when the config names none.
func LLMFromConfig(ctx context.Context, cfg *Config) (LLM, error) {
	name := cfg.DefaultProvider
	if name == "" {
		return ResolveLLM(ctx, "default")
	}

	pc, ok := cfg.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not found", name)
	}

	apiKey := pc.APIKey
	if apiKey == "" {
		apiKey = apiKeyFor(name)
	}

	return NewFantasyLLM(ctx, FantasyConfig{
		Provider: name,
		APIKey:   apiKey,
		BaseURL:  pc.BaseURL,
		Model:    pc.Model,
	})
}
