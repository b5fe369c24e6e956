package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestPipelineUsesExplicitTransformations(t *testing.T) {
	settings := NewSettings()
	splitter := NewSentenceSplitter(
		WithChunkSize(5),
		WithChunkOverlap(0),
		WithTokenizer(wordTokenizer),
	)

	pipeline := NewIngestionPipeline(
		WithPipelineSettings(settings),
		WithTransformations(splitter),
	)

	docs := []Document{NewDocument("doc-1", "one two three. four five six. seven eight nine.")}
	nodes, err := pipeline.Run(context.Background(), docs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(nodes) < 2 {
		t.Fatalf("nodes = %d, want the splitter to produce several", len(nodes))
	}
	for _, node := range nodes {
		if node.SourceID == "" {
			t.Error("node missing source id")
		}
	}
}

func TestPipelineFallsBackToSettingsTransformations(t *testing.T) {
	settings := NewSettings()
	settings.SetTransformations([]TransformComponent{
		NewSentenceSplitter(WithTokenizer(wordTokenizer)),
	})

	pipeline := NewIngestionPipeline(WithPipelineSettings(settings))

	docs := []Document{NewDocument("doc-1", "A single short document.")}
	nodes, err := pipeline.Run(context.Background(), docs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("nodes = %d, want 1", len(nodes))
	}
}

func TestPipelineEmitsEvents(t *testing.T) {
	settings := NewSettings()
	handler := &recordingHandler{}

	pipeline := NewIngestionPipeline(
		WithPipelineSettings(settings),
		WithPipelineCallbacks(NewCallbackManager(handler)),
		WithTransformations(NewSentenceSplitter(WithTokenizer(wordTokenizer))),
	)

	docs := []Document{NewDocument("doc-1", "Some text.")}
	if _, err := pipeline.Run(context.Background(), docs); err != nil {
		t.Fatalf("run: %v", err)
	}

	var sawPipeline, sawChunking bool
	for _, ev := range handler.events {
		switch ev.Type {
		case EventPipeline:
			sawPipeline = true
		case EventChunking:
			sawChunking = true
		}
	}
	if !sawPipeline || !sawChunking {
		t.Errorf("events = %v, want pipeline and chunking", handler.events)
	}
}

func TestPipelineEmbedsAndIndexes(t *testing.T) {
	dir := t.TempDir()
	index, err := NewAnnoyIndex(dir, 3)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}

	settings := NewSettings()
	embedder := newFakeEmbedder(3)

	pipeline := NewIngestionPipeline(
		WithPipelineSettings(settings),
		WithTransformations(NewSentenceSplitter(WithTokenizer(wordTokenizer))),
		WithPipelineEmbedder(embedder),
		WithPipelineIndex(index),
		WithNumTrees(5),
	)

	docs := []Document{
		NewDocument("doc-1", "The quick brown fox."),
		NewDocument("doc-2", "An entirely different sentence."),
	}
	nodes, err := pipeline.Run(context.Background(), docs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, node := range nodes {
		if len(node.Embedding) != 3 {
			t.Errorf("node %s embedding dimension = %d, want 3", node.ID, len(node.Embedding))
		}
		if !index.Contains(context.Background(), node.ID) {
			t.Errorf("node %s missing from index", node.ID)
		}
	}

	// Build + save happened: both artifacts are on disk.
	for _, name := range []string{IndexFilename, MappingFilename} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}

	query, err := embedder.Embed(context.Background(), "The quick brown fox.")
	if err != nil {
		t.Fatalf("embed query: %v", err)
	}
	results, err := index.Search(context.Background(), NewEmbedding(query, ""), 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].NodeID != nodes[0].ID {
		t.Errorf("top hit = %s, want %s", results[0].NodeID, nodes[0].ID)
	}
}

func TestPipelineSkipsEmbeddingWithoutIndex(t *testing.T) {
	settings := NewSettings()
	embedder := newFakeEmbedder(3)

	pipeline := NewIngestionPipeline(
		WithPipelineSettings(settings),
		WithTransformations(NewSentenceSplitter(WithTokenizer(wordTokenizer))),
		WithPipelineEmbedder(embedder),
	)

	docs := []Document{NewDocument("doc-1", "Some text.")}
	nodes, err := pipeline.Run(context.Background(), docs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if embedder.calls != 0 {
		t.Errorf("embedder called %d times without an index", embedder.calls)
	}
	if len(nodes[0].Embedding) != 0 {
		t.Error("nodes should not carry embeddings without an index")
	}
}
