package internal

import (
	"context"
	"regexp"
	"strings"
)

const (
	DefaultChunkSize    = 1024
	DefaultChunkOverlap = 200
)

// SizedChunking is the capability of a node parser whose chunks have a
// configurable token budget. Parsers that split on structure (markdown
// headings, file boundaries) do not implement it.
type SizedChunking interface {
	ChunkSize() int
	SetChunkSize(size int)
	ChunkOverlap() int
	SetChunkOverlap(overlap int)
}

var sentenceBoundary = regexp.MustCompile(`(?m)([^.!?\n]+[.!?]+["')\]]*|[^.!?\n]+$)`)

// splitSentences breaks text into sentence-ish pieces, preserving
// paragraph boundaries.
func splitSentences(text string) []string {
	var out []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		matches := sentenceBoundary.FindAllString(para, -1)
		if len(matches) == 0 {
			out = append(out, para)
			continue
		}
		for _, m := range matches {
			if s := strings.TrimSpace(m); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

var (
	_ NodeParser    = (*SentenceSplitter)(nil)
	_ SizedChunking = (*SentenceSplitter)(nil)
)

// SentenceSplitter packs whole sentences into token-budgeted chunks
// with a trailing-sentence overlap between consecutive chunks.
type SentenceSplitter struct {
	chunkSize    int
	chunkOverlap int
	tokenizer    Tokenizer
}

type SplitterOption func(*SentenceSplitter)

func WithChunkSize(size int) SplitterOption {
	return func(s *SentenceSplitter) {
		s.chunkSize = size
	}
}

func WithChunkOverlap(overlap int) SplitterOption {
	return func(s *SentenceSplitter) {
		s.chunkOverlap = overlap
	}
}

func WithTokenizer(tok Tokenizer) SplitterOption {
	return func(s *SentenceSplitter) {
		s.tokenizer = tok
	}
}

func NewSentenceSplitter(opts ...SplitterOption) *SentenceSplitter {
	s := &SentenceSplitter{
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SentenceSplitter) ChunkSize() int { return s.chunkSize }

func (s *SentenceSplitter) SetChunkSize(size int) { s.chunkSize = size }

func (s *SentenceSplitter) ChunkOverlap() int { return s.chunkOverlap }

func (s *SentenceSplitter) SetChunkOverlap(overlap int) { s.chunkOverlap = overlap }

func (s *SentenceSplitter) splitText(text string) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	count := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, " "))

		// Carry trailing sentences into the next chunk up to the
		// overlap budget.
		var carry []string
		carried := 0
		for i := len(current) - 1; i >= 0; i-- {
			n := tokenCount(s.tokenizer, current[i])
			if carried+n > s.chunkOverlap {
				break
			}
			carry = append([]string{current[i]}, carry...)
			carried += n
		}
		current = carry
		count = carried
	}

	for _, sentence := range sentences {
		n := tokenCount(s.tokenizer, sentence)
		if count+n > s.chunkSize && len(current) > 0 {
			flush()
		}
		current = append(current, sentence)
		count += n
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}

func (s *SentenceSplitter) ParseDocuments(ctx context.Context, docs []Document) ([]Node, error) {
	var nodes []Node
	for _, doc := range docs {
		for i, chunk := range s.splitText(doc.Text) {
			node := NewNode(doc.ID, i, chunk)
			for k, v := range doc.Metadata {
				node.Metadata[k] = v
			}
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

func (s *SentenceSplitter) Transform(ctx context.Context, nodes []Node) ([]Node, error) {
	var out []Node
	for _, node := range nodes {
		chunks := s.splitText(node.Text)
		if len(chunks) <= 1 {
			out = append(out, node)
			continue
		}
		for i, chunk := range chunks {
			child := NewNode(node.ID, i, chunk)
			for k, v := range node.Metadata {
				child.Metadata[k] = v
			}
			child.SourceID = node.SourceID
			out = append(out, child)
		}
	}
	return out, nil
}

var (
	_ NodeParser    = (*TokenTextSplitter)(nil)
	_ SizedChunking = (*TokenTextSplitter)(nil)
)

// TokenTextSplitter splits on raw word windows without respecting
// sentence boundaries.
type TokenTextSplitter struct {
	chunkSize    int
	chunkOverlap int
}

func NewTokenTextSplitter(chunkSize, chunkOverlap int) *TokenTextSplitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
	}
	return &TokenTextSplitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

func (s *TokenTextSplitter) ChunkSize() int { return s.chunkSize }

func (s *TokenTextSplitter) SetChunkSize(size int) { s.chunkSize = size }

func (s *TokenTextSplitter) ChunkOverlap() int { return s.chunkOverlap }

func (s *TokenTextSplitter) SetChunkOverlap(overlap int) { s.chunkOverlap = overlap }

func (s *TokenTextSplitter) splitText(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := s.chunkSize - s.chunkOverlap
	if step <= 0 {
		step = s.chunkSize
	}

	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + s.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}

func (s *TokenTextSplitter) ParseDocuments(ctx context.Context, docs []Document) ([]Node, error) {
	var nodes []Node
	for _, doc := range docs {
		for i, chunk := range s.splitText(doc.Text) {
			node := NewNode(doc.ID, i, chunk)
			for k, v := range doc.Metadata {
				node.Metadata[k] = v
			}
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

func (s *TokenTextSplitter) Transform(ctx context.Context, nodes []Node) ([]Node, error) {
	var out []Node
	for _, node := range nodes {
		chunks := s.splitText(node.Text)
		if len(chunks) <= 1 {
			out = append(out, node)
			continue
		}
		for i, chunk := range chunks {
			child := NewNode(node.ID, i, chunk)
			for k, v := range node.Metadata {
				child.Metadata[k] = v
			}
			child.SourceID = node.SourceID
			out = append(out, child)
		}
	}
	return out, nil
}

var _ NodeParser = (*MarkdownNodeParser)(nil)

var markdownHeading = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)

// MarkdownNodeParser splits on headings. It has no token budget, so it
// deliberately does not implement SizedChunking.
type MarkdownNodeParser struct{}

func NewMarkdownNodeParser() *MarkdownNodeParser {
	return &MarkdownNodeParser{}
}

func (p *MarkdownNodeParser) splitText(text string) []struct{ heading, body string } {
	locs := markdownHeading.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		body := strings.TrimSpace(text)
		if body == "" {
			return nil
		}
		return []struct{ heading, body string }{{body: body}}
	}

	var sections []struct{ heading, body string }
	if lead := strings.TrimSpace(text[:locs[0][0]]); lead != "" {
		sections = append(sections, struct{ heading, body string }{body: lead})
	}
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		heading := text[loc[2]:loc[3]]
		body := strings.TrimSpace(text[loc[1]:end])
		sections = append(sections, struct{ heading, body string }{heading: heading, body: body})
	}
	return sections
}

func (p *MarkdownNodeParser) ParseDocuments(ctx context.Context, docs []Document) ([]Node, error) {
	var nodes []Node
	for _, doc := range docs {
		for i, section := range p.splitText(doc.Text) {
			node := NewNode(doc.ID, i, section.body)
			for k, v := range doc.Metadata {
				node.Metadata[k] = v
			}
			if section.heading != "" {
				node.Metadata["heading"] = section.heading
			}
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

func (p *MarkdownNodeParser) Transform(ctx context.Context, nodes []Node) ([]Node, error) {
	var out []Node
	for _, node := range nodes {
		sections := p.splitText(node.Text)
		if len(sections) <= 1 {
			out = append(out, node)
			continue
		}
		for i, section := range sections {
			child := NewNode(node.ID, i, section.body)
			for k, v := range node.Metadata {
				child.Metadata[k] = v
			}
			if section.heading != "" {
				child.Metadata["heading"] = section.heading
			}
			child.SourceID = node.SourceID
			out = append(out, child)
		}
	}
	return out, nil
}
