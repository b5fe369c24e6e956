package v1

import "time"

// Pipeline is a named, server-side ingestion configuration.
type Pipeline struct {
	ID                        string                     `json:"id,omitempty"`
	Name                      string                     `json:"name"`
	ConfiguredTransformations []ConfiguredTransformation `json:"configured_transformations"`
	CreatedAt                 time.Time                  `json:"created_at,omitempty"`
	UpdatedAt                 time.Time                  `json:"updated_at,omitempty"`
}

// Document is a unit of content submitted for ingestion.
type Document struct {
	ID       string            `json:"id,omitempty"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// IngestionResult reports what a pipeline run produced.
type IngestionResult struct {
	PipelineID string `json:"pipeline_id"`
	Nodes      int    `json:"nodes"`
	Status     string `json:"status"`
}
