package internal

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestTitleExtractorStampsEveryNode(t *testing.T) {
	llm := newFakeLLM()
	llm.onObject = func(prompt string, target any) error {
		target.(*DocumentTitle).Title = "A Fine Title"
		return nil
	}

	extractor := NewTitleExtractor(llm, 2)
	nodes := []Node{
		NewNode("doc-1", 0, "first chunk"),
		NewNode("doc-1", 1, "second chunk"),
		NewNode("doc-1", 2, "third chunk"),
	}

	out, err := extractor.Transform(context.Background(), nodes)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	for i, node := range out {
		if got := node.Metadata["document_title"]; got != "A Fine Title" {
			t.Errorf("node %d title = %q", i, got)
		}
	}
}

func TestTitleExtractorSamplesLeadingNodes(t *testing.T) {
	llm := newFakeLLM()
	var sawPrompt string
	llm.onObject = func(prompt string, target any) error {
		sawPrompt = prompt
		target.(*DocumentTitle).Title = "t"
		return nil
	}

	extractor := NewTitleExtractor(llm, 1)
	nodes := []Node{
		NewNode("doc-1", 0, "leading chunk"),
		NewNode("doc-1", 1, "trailing chunk"),
	}

	if _, err := extractor.Transform(context.Background(), nodes); err != nil {
		t.Fatalf("transform: %v", err)
	}
	if !strings.Contains(sawPrompt, "leading chunk") {
		t.Error("prompt missing the sampled node")
	}
	if strings.Contains(sawPrompt, "trailing chunk") {
		t.Error("prompt should only include the leading sample")
	}
}

func TestTitleExtractorGroupsBySource(t *testing.T) {
	llm := newFakeLLM()
	calls := 0
	llm.onObject = func(prompt string, target any) error {
		calls++
		target.(*DocumentTitle).Title = prompt[:20]
		return nil
	}

	extractor := NewTitleExtractor(llm, 5)
	nodes := []Node{
		NewNode("doc-1", 0, "from the first document"),
		NewNode("doc-2", 0, "from the second document"),
		NewNode("doc-1", 1, "more from the first"),
	}

	if _, err := extractor.Transform(context.Background(), nodes); err != nil {
		t.Fatalf("transform: %v", err)
	}
	if calls != 2 {
		t.Errorf("llm called %d times, want once per source", calls)
	}
}

func TestKeywordExtractorCapsAndJoins(t *testing.T) {
	llm := newFakeLLM()
	llm.onObject = func(prompt string, target any) error {
		target.(*ExtractedKeywords).Keywords = []string{"alpha", "beta", "gamma"}
		return nil
	}

	extractor := NewKeywordExtractor(llm, 2)
	nodes := []Node{NewNode("doc-1", 0, "some text")}

	out, err := extractor.Transform(context.Background(), nodes)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if got := out[0].Metadata["keywords"]; got != "alpha,beta" {
		t.Errorf("keywords = %q, want alpha,beta", got)
	}
}

func TestSummaryExtractor(t *testing.T) {
	llm := newFakeLLM()
	llm.onObject = func(prompt string, target any) error {
		target.(*SectionSummary).Summary = "short summary"
		return nil
	}

	extractor := NewSummaryExtractor(llm)
	nodes := []Node{NewNode("doc-1", 0, "a long passage")}

	out, err := extractor.Transform(context.Background(), nodes)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if got := out[0].Metadata["section_summary"]; got != "short summary" {
		t.Errorf("summary = %q", got)
	}
}

func TestQuestionsAnsweredExtractor(t *testing.T) {
	llm := newFakeLLM()
	llm.onObject = func(prompt string, target any) error {
		target.(*AnsweredQuestions).Questions = []string{"What?", "Why?", "How?", "When?"}
		return nil
	}

	extractor := NewQuestionsAnsweredExtractor(llm, 3)
	nodes := []Node{NewNode("doc-1", 0, "a passage")}

	out, err := extractor.Transform(context.Background(), nodes)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	got := out[0].Metadata["questions_answered"]
	if lines := strings.Split(got, "\n"); len(lines) != 3 {
		t.Errorf("questions = %q, want 3 lines", got)
	}
}

func TestExtractorsRequireProvider(t *testing.T) {
	nodes := []Node{NewNode("doc-1", 0, "text")}
	extractors := []TransformComponent{
		NewTitleExtractor(nil, 5),
		NewKeywordExtractor(nil, 5),
		NewSummaryExtractor(nil),
		NewQuestionsAnsweredExtractor(nil, 3),
	}
	for _, extractor := range extractors {
		if _, err := extractor.Transform(context.Background(), nodes); !errors.Is(err, ErrNoProvider) {
			t.Errorf("%T error = %v, want ErrNoProvider", extractor, err)
		}
	}
}

func TestExtractorErrorsAreWrapped(t *testing.T) {
	llm := newFakeLLM()
	sentinel := errors.New("model unavailable")
	llm.onObject = func(prompt string, target any) error {
		return sentinel
	}

	extractor := NewSummaryExtractor(llm)
	nodes := []Node{NewNode("doc-1", 0, "text")}

	_, err := extractor.Transform(context.Background(), nodes)
	if !errors.Is(err, sentinel) {
		t.Errorf("error = %v, want wrapped sentinel", err)
	}
}
