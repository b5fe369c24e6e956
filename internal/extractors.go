package internal

import (
	"context"
	"fmt"
	"strings"
)

// Structured output types for metadata extraction

type DocumentTitle struct {
	Title string `json:"title"`
}

type ExtractedKeywords struct {
	Keywords []string `json:"keywords"`
}

type SectionSummary struct {
	Summary string `json:"summary"`
}

type AnsweredQuestions struct {
	Questions []string `json:"questions"`
}

var _ TransformComponent = (*TitleExtractor)(nil)

// TitleExtractor derives a document title from its leading nodes and
// stamps it on every node of that document.
type TitleExtractor struct {
	llm   LLM
	nodes int
}

func NewTitleExtractor(llm LLM, nodes int) *TitleExtractor {
	if nodes <= 0 {
		nodes = 5
	}
	return &TitleExtractor{llm: llm, nodes: nodes}
}

func (e *TitleExtractor) Transform(ctx context.Context, nodes []Node) ([]Node, error) {
	if e.llm == nil {
		return nil, ErrNoProvider
	}

	bySource := make(map[string][]int)
	var order []string
	for i, node := range nodes {
		if _, seen := bySource[node.SourceID]; !seen {
			order = append(order, node.SourceID)
		}
		bySource[node.SourceID] = append(bySource[node.SourceID], i)
	}

	for _, source := range order {
		idxs := bySource[source]
		sample := idxs
		if len(sample) > e.nodes {
			sample = sample[:e.nodes]
		}

		var sb strings.Builder
		sb.WriteString("Give a concise title for the following content:\n\n")
		for _, i := range sample {
			sb.WriteString(nodes[i].Text)
			sb.WriteString("\n\n")
		}

		var title DocumentTitle
		if err := e.llm.GenerateObject(ctx, sb.String(), &title); err != nil {
			return nil, fmt.Errorf("extract title: %w", err)
		}

		for _, i := range idxs {
			nodes[i].Metadata["document_title"] = title.Title
		}
	}

	return nodes, nil
}

var _ TransformComponent = (*KeywordExtractor)(nil)

// KeywordExtractor attaches up to N keywords per node.
type KeywordExtractor struct {
	llm      LLM
	keywords int
}

func NewKeywordExtractor(llm LLM, keywords int) *KeywordExtractor {
	if keywords <= 0 {
		keywords = 5
	}
	return &KeywordExtractor{llm: llm, keywords: keywords}
}

func (e *KeywordExtractor) Transform(ctx context.Context, nodes []Node) ([]Node, error) {
	if e.llm == nil {
		return nil, ErrNoProvider
	}

	for i := range nodes {
		prompt := fmt.Sprintf("Extract up to %d keywords from this text:\n\n%s", e.keywords, nodes[i].Text)

		var kw ExtractedKeywords
		if err := e.llm.GenerateObject(ctx, prompt, &kw); err != nil {
			return nil, fmt.Errorf("extract keywords: %w", err)
		}
		if len(kw.Keywords) > e.keywords {
			kw.Keywords = kw.Keywords[:e.keywords]
		}
		nodes[i].Metadata["keywords"] = strings.Join(kw.Keywords, ",")
	}

	return nodes, nil
}

var _ TransformComponent = (*SummaryExtractor)(nil)

// SummaryExtractor attaches a short summary per node.
type SummaryExtractor struct {
	llm LLM
}

func NewSummaryExtractor(llm LLM) *SummaryExtractor {
	return &SummaryExtractor{llm: llm}
}

func (e *SummaryExtractor) Transform(ctx context.Context, nodes []Node) ([]Node, error) {
	if e.llm == nil {
		return nil, ErrNoProvider
	}

	for i := range nodes {
		prompt := fmt.Sprintf("Summarize this text in one or two sentences:\n\n%s", nodes[i].Text)

		var sum SectionSummary
		if err := e.llm.GenerateObject(ctx, prompt, &sum); err != nil {
			return nil, fmt.Errorf("extract summary: %w", err)
		}
		nodes[i].Metadata["section_summary"] = sum.Summary
	}

	return nodes, nil
}

var _ TransformComponent = (*QuestionsAnsweredExtractor)(nil)

// QuestionsAnsweredExtractor attaches questions each node can answer,
// to improve retrieval of question-shaped queries.
type QuestionsAnsweredExtractor struct {
	llm       LLM
	questions int
}

func NewQuestionsAnsweredExtractor(llm LLM, questions int) *QuestionsAnsweredExtractor {
	if questions <= 0 {
		questions = 3
	}
	return &QuestionsAnsweredExtractor{llm: llm, questions: questions}
}

func (e *QuestionsAnsweredExtractor) Transform(ctx context.Context, nodes []Node) ([]Node, error) {
	if e.llm == nil {
		return nil, ErrNoProvider
	}

	for i := range nodes {
		prompt := fmt.Sprintf("List %d questions this text can answer:\n\n%s", e.questions, nodes[i].Text)

		var qa AnsweredQuestions
		if err := e.llm.GenerateObject(ctx, prompt, &qa); err != nil {
			return nil, fmt.Errorf("extract questions: %w", err)
		}
		if len(qa.Questions) > e.questions {
			qa.Questions = qa.Questions[:e.questions]
		}
		nodes[i].Metadata["questions_answered"] = strings.Join(qa.Questions, "\n")
	}

	return nodes, nil
}
