package internal

import (
	"context"
	"fmt"
	"os"
)

// LLMMetadata describes the size characteristics of a language model,
// used to derive prompt budgets.
type LLMMetadata struct {
	ModelName     string
	ContextWindow int
	NumOutput     int
}

type LLM interface {
	Complete(ctx context.Context, prompt string) (string, error)
	GenerateObject(ctx context.Context, prompt string, target any) error
	Stream(ctx context.Context, prompt string) (<-chan string, error)
	Metadata() LLMMetadata
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	Close() error
}

// ResolveLLM resolves a named provider to a usable LLM. The name
// "default" picks the first provider with credentials in the
// environment (OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY).
func ResolveLLM(ctx context.Context, name string) (LLM, error) {
	if name == "" {
		name = "default"
	}

	if name == "default" {
		switch {
		case os.Getenv("OPENAI_API_KEY") != "":
			name = "openai"
		case os.Getenv("ANTHROPIC_API_KEY") != "":
			name = "anthropic"
		case os.Getenv("OPENROUTER_API_KEY") != "":
			name = "openrouter"
		default:
			return nil, fmt.Errorf("resolve llm: no provider credentials in environment")
		}
	}

	cfg := FantasyConfig{
		Provider: name,
		APIKey:   apiKeyFor(name),
		Model:    defaultModelFor(name),
	}
	return NewFantasyLLM(ctx, cfg)
}

// ResolveEmbedder resolves a named embedding backend. The name
// "default" uses the OpenAI embeddings API.
func ResolveEmbedder(name string) (Embedder, error) {
	if name == "" || name == "default" || name == "openai" {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("resolve embedder: OPENAI_API_KEY not set")
		}
		return NewOpenAIEmbedder(WithEmbedderAPIKey(apiKey)), nil
	}
	return nil, fmt.Errorf("resolve embedder: unsupported backend %q", name)
}

func apiKeyFor(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "openrouter":
		return os.Getenv("OPENROUTER_API_KEY")
	default:
		return ""
	}
}

func defaultModelFor(provider string) string {
	switch provider {
	case "anthropic":
		return "claude-sonnet-4-0"
	case "openrouter":
		return "openai/gpt-4o-mini"
	default:
		return "gpt-4o-mini"
	}
}
