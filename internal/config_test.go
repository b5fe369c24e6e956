package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Chunking.ChunkSize != DefaultChunkSize {
		t.Errorf("chunk size = %d, want %d", cfg.Chunking.ChunkSize, DefaultChunkSize)
	}
	if cfg.Embeddings.Model != DefaultEmbedModel {
		t.Errorf("embed model = %q, want %q", cfg.Embeddings.Model, DefaultEmbedModel)
	}
	if cfg.Providers == nil {
		t.Error("providers map should be initialized")
	}
}

func TestLoadConfigFillsZeroValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "chunking:\n  chunk_overlap: 50\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Chunking.ChunkSize != DefaultChunkSize {
		t.Errorf("chunk size = %d, want default fill", cfg.Chunking.ChunkSize)
	}
	if cfg.Chunking.ChunkOverlap != 50 {
		t.Errorf("chunk overlap = %d, want 50", cfg.Chunking.ChunkOverlap)
	}
	if cfg.Embeddings.Dimension != DefaultEmbedDimension {
		t.Errorf("dimension = %d, want default fill", cfg.Embeddings.Dimension)
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("chunking: [not a map"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Chunking.ChunkSize = 512
	cfg.DefaultProvider = "openai"
	cfg.Providers["openai"] = ProviderConfig{Model: "gpt-4o-mini"}

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Chunking.ChunkSize != 512 {
		t.Errorf("chunk size = %d, want 512", loaded.Chunking.ChunkSize)
	}
	if loaded.DefaultProvider != "openai" {
		t.Errorf("default provider = %q", loaded.DefaultProvider)
	}
	if loaded.Providers["openai"].Model != "gpt-4o-mini" {
		t.Errorf("provider model = %q", loaded.Providers["openai"].Model)
	}
}

func TestConfigApplySetsParser(t *testing.T) {
	settings := NewSettings()

	cfg := DefaultConfig()
	cfg.Chunking.ChunkSize = 256
	cfg.Chunking.ChunkOverlap = 16
	if err := cfg.Apply(settings); err != nil {
		t.Fatalf("apply: %v", err)
	}

	size, err := settings.ChunkSize()
	if err != nil {
		t.Fatalf("chunk size: %v", err)
	}
	if size != 256 {
		t.Errorf("chunk size = %d, want 256", size)
	}
	overlap, err := settings.ChunkOverlap()
	if err != nil {
		t.Fatalf("chunk overlap: %v", err)
	}
	if overlap != 16 {
		t.Errorf("chunk overlap = %d, want 16", overlap)
	}
}

func TestLLMFromConfigUnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultProvider = "missing"

	if _, err := LLMFromConfig(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
