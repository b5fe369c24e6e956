package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://api.cloud.llamaindex.ai/api/v1"

// Client provides programmatic access to the ingestion API.
type Client struct {
	http *resty.Client
}

// New creates a new Client with the given options.
func New(opts ...Option) *Client {
	cfg := &clientConfig{
		baseURL: DefaultBaseURL,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var rc *resty.Client
	if cfg.httpClient != nil {
		rc = resty.NewWithClient(cfg.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(cfg.baseURL)
	rc.SetTimeout(cfg.timeout)
	if cfg.apiKey != "" {
		rc.SetAuthToken(cfg.apiKey)
	}

	return &Client{http: rc}
}

// CreatePipeline registers a pipeline with its configured
// transformations and returns the stored version.
func (c *Client) CreatePipeline(ctx context.Context, name string, transformations []ConfiguredTransformation) (*Pipeline, error) {
	var out Pipeline
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(Pipeline{Name: name, ConfiguredTransformations: transformations}).
		SetResult(&out).
		Post("/pipelines")
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("create pipeline: %s: %s", resp.Status(), resp.String())
	}
	return &out, nil
}

// GetPipeline fetches a pipeline by ID.
func (c *Client) GetPipeline(ctx context.Context, id string) (*Pipeline, error) {
	var out Pipeline
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/pipelines/" + id)
	if err != nil {
		return nil, fmt.Errorf("get pipeline: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get pipeline: %s: %s", resp.Status(), resp.String())
	}
	return &out, nil
}

// ListPipelines returns all pipelines.
func (c *Client) ListPipelines(ctx context.Context) ([]Pipeline, error) {
	var out []Pipeline
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/pipelines")
	if err != nil {
		return nil, fmt.Errorf("list pipelines: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list pipelines: %s: %s", resp.Status(), resp.String())
	}
	return out, nil
}

// DeletePipeline removes a pipeline by ID.
func (c *Client) DeletePipeline(ctx context.Context, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/pipelines/" + id)
	if err != nil {
		return fmt.Errorf("delete pipeline: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("delete pipeline: %s: %s", resp.Status(), resp.String())
	}
	return nil
}

// RunIngestion submits documents through a pipeline.
func (c *Client) RunIngestion(ctx context.Context, pipelineID string, docs []Document) (*IngestionResult, error) {
	var out IngestionResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"documents": docs}).
		SetResult(&out).
		Post("/pipelines/" + pipelineID + "/ingest")
	if err != nil {
		return nil, fmt.Errorf("run ingestion: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("run ingestion: %s: %s", resp.Status(), resp.String())
	}
	return &out, nil
}
