package v1

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownTransformation = errors.New("unknown transformation type")

// TransformationType discriminates the closed set of configurable
// transformation shapes the ingestion API accepts.
type TransformationType string

const (
	TypeKeywordExtractor           TransformationType = "keyword_extractor"
	TypeTitleExtractor             TransformationType = "title_extractor"
	TypeEntityExtractor            TransformationType = "entity_extractor"
	TypeMarvinMetadataExtractor    TransformationType = "marvin_metadata_extractor"
	TypeSummaryExtractor           TransformationType = "summary_extractor"
	TypeQuestionsAnsweredExtractor TransformationType = "questions_answered_extractor"
	TypeSentenceWindowNodeParser   TransformationType = "sentence_window_node_parser"
	TypeHierarchicalNodeParser     TransformationType = "hierarchical_node_parser"
	TypeCodeNodeParser             TransformationType = "code_node_parser"
	TypeSentenceAwareNodeParser    TransformationType = "sentence_aware_node_parser"
	TypeTokenAwareNodeParser       TransformationType = "token_aware_node_parser"
	TypeHTMLNodeParser             TransformationType = "html_node_parser"
	TypeMarkdownNodeParser         TransformationType = "markdown_node_parser"
	TypeJSONNodeParser             TransformationType = "json_node_parser"
	TypeSimpleFileNodeParser       TransformationType = "simple_file_node_parser"
	TypeOpenAIEmbedding            TransformationType = "openai_embedding"
	TypeHuggingFaceEmbedding       TransformationType = "huggingface_embedding"
)

// TransformationComponent is implemented only by the variant structs
// below; the unexported method closes the union.
type TransformationComponent interface {
	transformationType() TransformationType
}

// Extractors

type KeywordExtractor struct {
	Keywords int `json:"keywords,omitempty"`
}

type TitleExtractor struct {
	Nodes int `json:"nodes,omitempty"`
}

type EntityExtractor struct {
	PredictionThreshold float64 `json:"prediction_threshold,omitempty"`
	LabelEntities       bool    `json:"label_entities,omitempty"`
}

type MarvinMetadataExtractor struct {
	MarvinModel string `json:"marvin_model,omitempty"`
}

type SummaryExtractor struct {
	Summaries []string `json:"summaries,omitempty"`
}

type QuestionsAnsweredExtractor struct {
	Questions int `json:"questions,omitempty"`
}

// Node parsers

type SentenceWindowNodeParser struct {
	WindowSize              int    `json:"window_size,omitempty"`
	WindowMetadataKey       string `json:"window_metadata_key,omitempty"`
	OriginalTextMetadataKey string `json:"original_text_metadata_key,omitempty"`
}

type HierarchicalNodeParser struct {
	ChunkSizes []int `json:"chunk_sizes,omitempty"`
}

type CodeNodeParser struct {
	Language          string `json:"language,omitempty"`
	ChunkLines        int    `json:"chunk_lines,omitempty"`
	ChunkLinesOverlap int    `json:"chunk_lines_overlap,omitempty"`
	MaxChars          int    `json:"max_chars,omitempty"`
}

type SentenceAwareNodeParser struct {
	ChunkSize    int    `json:"chunk_size,omitempty"`
	ChunkOverlap int    `json:"chunk_overlap,omitempty"`
	Separator    string `json:"separator,omitempty"`
}

type TokenAwareNodeParser struct {
	ChunkSize    int    `json:"chunk_size,omitempty"`
	ChunkOverlap int    `json:"chunk_overlap,omitempty"`
	Separator    string `json:"separator,omitempty"`
}

type HTMLNodeParser struct {
	Tags []string `json:"tags,omitempty"`
}

type MarkdownNodeParser struct{}

type JSONNodeParser struct{}

type SimpleFileNodeParser struct{}

// Embeddings

type OpenAIEmbedding struct {
	ModelName      string `json:"model_name,omitempty"`
	EmbedBatchSize int    `json:"embed_batch_size,omitempty"`
}

type HuggingFaceEmbedding struct {
	ModelName string `json:"model_name,omitempty"`
	Device    string `json:"device,omitempty"`
}

func (KeywordExtractor) transformationType() TransformationType { return TypeKeywordExtractor }

func (TitleExtractor) transformationType() TransformationType { return TypeTitleExtractor }

func (EntityExtractor) transformationType() TransformationType { return TypeEntityExtractor }

func (MarvinMetadataExtractor) transformationType() TransformationType {
	return TypeMarvinMetadataExtractor
}

func (SummaryExtractor) transformationType() TransformationType { return TypeSummaryExtractor }

func (QuestionsAnsweredExtractor) transformationType() TransformationType {
	return TypeQuestionsAnsweredExtractor
}

func (SentenceWindowNodeParser) transformationType() TransformationType {
	return TypeSentenceWindowNodeParser
}

func (HierarchicalNodeParser) transformationType() TransformationType {
	return TypeHierarchicalNodeParser
}

func (CodeNodeParser) transformationType() TransformationType { return TypeCodeNodeParser }

func (SentenceAwareNodeParser) transformationType() TransformationType {
	return TypeSentenceAwareNodeParser
}

func (TokenAwareNodeParser) transformationType() TransformationType { return TypeTokenAwareNodeParser }

func (HTMLNodeParser) transformationType() TransformationType { return TypeHTMLNodeParser }

func (MarkdownNodeParser) transformationType() TransformationType { return TypeMarkdownNodeParser }

func (JSONNodeParser) transformationType() TransformationType { return TypeJSONNodeParser }

func (SimpleFileNodeParser) transformationType() TransformationType { return TypeSimpleFileNodeParser }

func (OpenAIEmbedding) transformationType() TransformationType { return TypeOpenAIEmbedding }

func (HuggingFaceEmbedding) transformationType() TransformationType { return TypeHuggingFaceEmbedding }

// ConfiguredTransformation wraps one component of the closed union,
// tagged on the wire with an explicit "type" discriminator.
type ConfiguredTransformation struct {
	Component TransformationComponent
}

func NewConfiguredTransformation(component TransformationComponent) ConfiguredTransformation {
	return ConfiguredTransformation{Component: component}
}

func (c ConfiguredTransformation) Type() TransformationType {
	if c.Component == nil {
		return ""
	}
	return c.Component.transformationType()
}

type configuredTransformationEnvelope struct {
	Type      TransformationType `json:"type"`
	Component json.RawMessage    `json:"component"`
}

func (c ConfiguredTransformation) MarshalJSON() ([]byte, error) {
	if c.Component == nil {
		return nil, fmt.Errorf("configured transformation has no component")
	}

	component, err := json.Marshal(c.Component)
	if err != nil {
		return nil, fmt.Errorf("marshal component: %w", err)
	}

	return json.Marshal(configuredTransformationEnvelope{
		Type:      c.Type(),
		Component: component,
	})
}

func (c *ConfiguredTransformation) UnmarshalJSON(data []byte) error {
	var env configuredTransformationEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}

	component, err := decodeComponent(env.Type)
	if err != nil {
		return err
	}

	if len(env.Component) > 0 {
		if err := json.Unmarshal(env.Component, component); err != nil {
			return fmt.Errorf("unmarshal %s component: %w", env.Type, err)
		}
	}

	c.Component = deref(component)
	return nil
}

func decodeComponent(t TransformationType) (any, error) {
	switch t {
	case TypeKeywordExtractor:
		return &KeywordExtractor{}, nil
	case TypeTitleExtractor:
		return &TitleExtractor{}, nil
	case TypeEntityExtractor:
		return &EntityExtractor{}, nil
	case TypeMarvinMetadataExtractor:
		return &MarvinMetadataExtractor{}, nil
	case TypeSummaryExtractor:
		return &SummaryExtractor{}, nil
	case TypeQuestionsAnsweredExtractor:
		return &QuestionsAnsweredExtractor{}, nil
	case TypeSentenceWindowNodeParser:
		return &SentenceWindowNodeParser{}, nil
	case TypeHierarchicalNodeParser:
		return &HierarchicalNodeParser{}, nil
	case TypeCodeNodeParser:
		return &CodeNodeParser{}, nil
	case TypeSentenceAwareNodeParser:
		return &SentenceAwareNodeParser{}, nil
	case TypeTokenAwareNodeParser:
		return &TokenAwareNodeParser{}, nil
	case TypeHTMLNodeParser:
		return &HTMLNodeParser{}, nil
	case TypeMarkdownNodeParser:
		return &MarkdownNodeParser{}, nil
	case TypeJSONNodeParser:
		return &JSONNodeParser{}, nil
	case TypeSimpleFileNodeParser:
		return &SimpleFileNodeParser{}, nil
	case TypeOpenAIEmbedding:
		return &OpenAIEmbedding{}, nil
	case TypeHuggingFaceEmbedding:
		return &HuggingFaceEmbedding{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransformation, t)
	}
}

func deref(component any) TransformationComponent {
	switch c := component.(type) {
	case *KeywordExtractor:
		return *c
	case *TitleExtractor:
		return *c
	case *EntityExtractor:
		return *c
	case *MarvinMetadataExtractor:
		return *c
	case *SummaryExtractor:
		return *c
	case *QuestionsAnsweredExtractor:
		return *c
	case *SentenceWindowNodeParser:
		return *c
	case *HierarchicalNodeParser:
		return *c
	case *CodeNodeParser:
		return *c
	case *SentenceAwareNodeParser:
		return *c
	case *TokenAwareNodeParser:
		return *c
	case *HTMLNodeParser:
		return *c
	case *JSONNodeParser:
		return *c
	case *MarkdownNodeParser:
		return *c
	case *SimpleFileNodeParser:
		return *c
	case *OpenAIEmbedding:
		return *c
	case *HuggingFaceEmbedding:
		return *c
	default:
		return nil
	}
}
