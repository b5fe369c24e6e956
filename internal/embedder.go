package internal

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultEmbedModel     = "text-embedding-3-small"
	DefaultEmbedDimension = 1536
	DefaultEmbedBatchSize = 64
	DefaultEmbedBaseURL   = "https://api.openai.com/v1"
)

var _ Embedder = (*OpenAIEmbedder)(nil)

// OpenAIEmbedder calls an OpenAI-compatible /embeddings endpoint, which
// also covers self-hosted backends that speak the same API.
type OpenAIEmbedder struct {
	client    *resty.Client
	model     string
	dimension int
	batchSize int
}

type EmbedderOption func(*OpenAIEmbedder)

func WithEmbedderAPIKey(key string) EmbedderOption {
	return func(e *OpenAIEmbedder) {
		e.client.SetAuthToken(key)
	}
}

func WithEmbedderBaseURL(url string) EmbedderOption {
	return func(e *OpenAIEmbedder) {
		e.client.SetBaseURL(url)
	}
}

func WithEmbedderModel(model string, dimension int) EmbedderOption {
	return func(e *OpenAIEmbedder) {
		e.model = model
		e.dimension = dimension
	}
}

func WithEmbedderBatchSize(n int) EmbedderOption {
	return func(e *OpenAIEmbedder) {
		e.batchSize = n
	}
}

func NewOpenAIEmbedder(opts ...EmbedderOption) *OpenAIEmbedder {
	e := &OpenAIEmbedder{
		client:    resty.New().SetBaseURL(DefaultEmbedBaseURL),
		model:     DefaultEmbedModel,
		dimension: DefaultEmbedDimension,
		batchSize: DefaultEmbedBatchSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embed: expected 1 vector, got %d", len(vecs))
	}
	return vecs[0], nil
}

func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		var body embeddingResponse
		resp, err := e.client.R().
			SetContext(ctx).
			SetBody(embeddingRequest{Model: e.model, Input: texts[start:end]}).
			SetResult(&body).
			Post("/embeddings")
		if err != nil {
			return nil, fmt.Errorf("embeddings request: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("embeddings request: %s: %s", resp.Status(), resp.String())
		}
		if len(body.Data) != end-start {
			return nil, fmt.Errorf("embeddings response: expected %d vectors, got %d", end-start, len(body.Data))
		}

		batch := make([][]float32, end-start)
		for _, d := range body.Data {
			if d.Index < 0 || d.Index >= len(batch) {
				return nil, fmt.Errorf("embeddings response: index %d out of range", d.Index)
			}
			batch[d.Index] = d.Embedding
		}
		out = append(out, batch...)
	}

	return out, nil
}

func (e *OpenAIEmbedder) Dimension() int {
	return e.dimension
}

func (e *OpenAIEmbedder) Close() error {
	return nil
}
