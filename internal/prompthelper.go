package internal

import (
	"fmt"
	"strings"
)

const (
	DefaultContextWindow     = 3900
	DefaultNumOutput         = 256
	DefaultChunkOverlapRatio = 0.1
)

// PromptHelper computes size budgets for prompt construction: how many
// tokens of context fit once the prompt template and the output
// allowance are accounted for.
type PromptHelper struct {
	contextWindow     int
	numOutput         int
	chunkOverlapRatio float64
	tokenizer         Tokenizer
}

type PromptHelperOption func(*PromptHelper)

func WithContextWindow(n int) PromptHelperOption {
	return func(p *PromptHelper) {
		p.contextWindow = n
	}
}

func WithNumOutput(n int) PromptHelperOption {
	return func(p *PromptHelper) {
		p.numOutput = n
	}
}

func WithChunkOverlapRatio(r float64) PromptHelperOption {
	return func(p *PromptHelper) {
		p.chunkOverlapRatio = r
	}
}

func WithPromptTokenizer(tok Tokenizer) PromptHelperOption {
	return func(p *PromptHelper) {
		p.tokenizer = tok
	}
}

func NewPromptHelper(opts ...PromptHelperOption) *PromptHelper {
	p := &PromptHelper{
		contextWindow:     DefaultContextWindow,
		numOutput:         DefaultNumOutput,
		chunkOverlapRatio: DefaultChunkOverlapRatio,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PromptHelperFromLLMMetadata sizes the helper to a concrete model.
func PromptHelperFromLLMMetadata(md LLMMetadata, opts ...PromptHelperOption) *PromptHelper {
	base := []PromptHelperOption{
		WithContextWindow(md.ContextWindow),
		WithNumOutput(md.NumOutput),
	}
	return NewPromptHelper(append(base, opts...)...)
}

func (p *PromptHelper) ContextWindow() int { return p.contextWindow }

func (p *PromptHelper) SetContextWindow(n int) { p.contextWindow = n }

func (p *PromptHelper) NumOutput() int { return p.numOutput }

func (p *PromptHelper) SetNumOutput(n int) { p.numOutput = n }

// AvailableContextSize returns how many tokens remain for retrieved
// context once the prompt and the output allowance are subtracted.
func (p *PromptHelper) AvailableContextSize(prompt string) (int, error) {
	used := tokenCount(p.tokenizer, prompt)
	available := p.contextWindow - used - p.numOutput
	if available <= 0 {
		return 0, fmt.Errorf("prompt exceeds context window: %d tokens used of %d", used+p.numOutput, p.contextWindow)
	}
	return available, nil
}

// AvailableChunkSize splits the remaining budget across numChunks.
func (p *PromptHelper) AvailableChunkSize(prompt string, numChunks int) (int, error) {
	if numChunks <= 0 {
		numChunks = 1
	}
	available, err := p.AvailableContextSize(prompt)
	if err != nil {
		return 0, err
	}
	return available / numChunks, nil
}

// Repack merges text fragments into the fewest chunks that each fit
// the remaining budget.
func (p *PromptHelper) Repack(prompt string, texts []string) ([]string, error) {
	budget, err := p.AvailableContextSize(prompt)
	if err != nil {
		return nil, err
	}

	splitter := NewSentenceSplitter(
		WithChunkSize(budget),
		WithChunkOverlap(int(float64(budget)*p.chunkOverlapRatio)),
		WithTokenizer(p.tokenizer),
	)

	joined := strings.TrimSpace(strings.Join(texts, "\n\n"))
	if joined == "" {
		return nil, nil
	}
	return splitter.splitText(joined), nil
}

// Truncate cuts each text down to its share of the remaining budget.
func (p *PromptHelper) Truncate(prompt string, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	chunkSize, err := p.AvailableChunkSize(prompt, len(texts))
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(texts))
	for _, text := range texts {
		words := strings.Fields(text)
		if tokenCount(p.tokenizer, text) <= chunkSize || len(words) == 0 {
			out = append(out, text)
			continue
		}

		// Binary-search the word cut that fits the budget.
		lo, hi := 0, len(words)
		for lo < hi {
			mid := (lo + hi + 1) / 2
			if tokenCount(p.tokenizer, strings.Join(words[:mid], " ")) <= chunkSize {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		out = append(out, strings.Join(words[:lo], " "))
	}
	return out, nil
}
