package internal

import (
	"context"
	"fmt"
)

type fakeLLM struct {
	md        LLMMetadata
	reply     string
	onObject  func(prompt string, target any) error
	completes int
}

func newFakeLLM() *fakeLLM {
	return &fakeLLM{
		md: LLMMetadata{
			ModelName:     "fake-model",
			ContextWindow: 8192,
			NumOutput:     512,
		},
		reply: "ok",
	}
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.completes++
	return f.reply, nil
}

func (f *fakeLLM) GenerateObject(ctx context.Context, prompt string, target any) error {
	if f.onObject == nil {
		return fmt.Errorf("no object generator configured")
	}
	return f.onObject(prompt, target)
}

func (f *fakeLLM) Stream(ctx context.Context, prompt string) (<-chan string, error) {
	ch := make(chan string, 1)
	ch <- f.reply
	close(ch)
	return ch, nil
}

func (f *fakeLLM) Metadata() LLMMetadata {
	return f.md
}

type fakeEmbedder struct {
	dimension int
	calls     int
}

func newFakeEmbedder(dimension int) *fakeEmbedder {
	return &fakeEmbedder{dimension: dimension}
}

// Embed produces a deterministic unit-ish vector from the text bytes.
func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	vec := make([]float32, f.dimension)
	for i, b := range []byte(text) {
		vec[i%f.dimension] += float32(b) / 255.0
	}
	return vec, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) Dimension() int { return f.dimension }

func (f *fakeEmbedder) Close() error { return nil }

// wordTokenizer stands in for a real tokenizer in tests.
func wordTokenizer(text string) []int {
	n := 0
	inWord := false
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
