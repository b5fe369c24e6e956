package internal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	ErrUnsupported = errors.New("operation not supported by configured node parser")
	ErrNoProvider  = errors.New("llm provider not available")
	ErrNoEmbedder  = errors.New("embedder not available")
	ErrNoIndex     = errors.New("no vector index available")
)

// Document is a unit of ingested source content before parsing.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

func NewDocument(id, text string) Document {
	return Document{
		ID:       id,
		Text:     text,
		Metadata: make(map[string]string),
	}
}

// Node is an addressable chunk of a document. Transformations read and
// enrich nodes; embeddings are attached in place.
type Node struct {
	ID        string
	Text      string
	Metadata  map[string]string
	Embedding []float32
	SourceID  string
}

// NewNode derives a deterministic node ID from its source and position,
// so re-ingesting the same content overwrites rather than duplicates.
func NewNode(sourceID string, ordinal int, text string) Node {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s#%d", sourceID, ordinal)))
	return Node{
		ID:       hex.EncodeToString(sum[:8]),
		Text:     text,
		Metadata: make(map[string]string),
		SourceID: sourceID,
	}
}

// TransformComponent is a single preprocessing step in an ingestion
// pipeline: splitting, metadata extraction, embedding.
type TransformComponent interface {
	Transform(ctx context.Context, nodes []Node) ([]Node, error)
}

// NodeParser divides documents into nodes. As a TransformComponent it
// re-splits already-parsed nodes.
type NodeParser interface {
	TransformComponent
	ParseDocuments(ctx context.Context, docs []Document) ([]Node, error)
}
