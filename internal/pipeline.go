package internal

import (
	"context"
	"fmt"
)

// IngestionPipeline runs an ordered sequence of transformations over
// documents, then optionally embeds the resulting nodes into a vector
// index. With no explicit transformations it uses the facade's.
type IngestionPipeline struct {
	transformations []TransformComponent
	embedder        Embedder
	index           VectorIndex
	callbacks       *CallbackManager
	settings        *Settings
	numTrees        int
}

type PipelineOption func(*IngestionPipeline)

func WithTransformations(transformations ...TransformComponent) PipelineOption {
	return func(p *IngestionPipeline) {
		p.transformations = transformations
	}
}

func WithPipelineEmbedder(embedder Embedder) PipelineOption {
	return func(p *IngestionPipeline) {
		p.embedder = embedder
	}
}

func WithPipelineIndex(index VectorIndex) PipelineOption {
	return func(p *IngestionPipeline) {
		p.index = index
	}
}

func WithPipelineCallbacks(cm *CallbackManager) PipelineOption {
	return func(p *IngestionPipeline) {
		p.callbacks = cm
	}
}

func WithPipelineSettings(settings *Settings) PipelineOption {
	return func(p *IngestionPipeline) {
		p.settings = settings
	}
}

func WithNumTrees(n int) PipelineOption {
	return func(p *IngestionPipeline) {
		p.numTrees = n
	}
}

func NewIngestionPipeline(opts ...PipelineOption) *IngestionPipeline {
	p := &IngestionPipeline{
		settings: Default,
		numTrees: 10,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.callbacks == nil {
		p.callbacks = p.settings.CallbackManager()
	}
	return p
}

// Run transforms documents into nodes. When an embedder and index are
// configured, embedded nodes are added, the index is built and saved.
func (p *IngestionPipeline) Run(ctx context.Context, docs []Document) ([]Node, error) {
	p.callbacks.Emit(EventPipeline, map[string]any{"documents": len(docs)})

	nodes := make([]Node, 0, len(docs))
	for _, doc := range docs {
		node := NewNode(doc.ID, 0, doc.Text)
		for k, v := range doc.Metadata {
			node.Metadata[k] = v
		}
		nodes = append(nodes, node)
	}

	transformations := p.transformations
	if transformations == nil {
		transformations = p.settings.Transformations()
	}

	for _, tf := range transformations {
		var err error
		nodes, err = tf.Transform(ctx, nodes)
		if err != nil {
			return nil, fmt.Errorf("transform: %w", err)
		}
	}
	p.callbacks.Emit(EventChunking, map[string]any{"nodes": len(nodes)})

	if p.embedder == nil || p.index == nil {
		return nodes, nil
	}

	texts := make([]string, len(nodes))
	for i, node := range nodes {
		texts[i] = node.Text
	}

	vecs, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed nodes: %w", err)
	}
	if len(vecs) != len(nodes) {
		return nil, fmt.Errorf("embed nodes: expected %d vectors, got %d", len(nodes), len(vecs))
	}
	p.callbacks.Emit(EventEmbedding, map[string]any{"nodes": len(nodes)})

	for i := range nodes {
		nodes[i].Embedding = vecs[i]
		emb := NewEmbedding(vecs[i], "")
		if err := p.index.Add(ctx, nodes[i].ID, emb); err != nil {
			return nil, fmt.Errorf("index node %s: %w", nodes[i].ID, err)
		}
	}

	if err := p.index.Build(ctx, p.numTrees); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	if err := p.index.Save(ctx); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}

	return nodes, nil
}
