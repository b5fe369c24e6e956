package internal

import (
	"context"
	"sync"
)

// Settings is the process-wide configuration facade for the toolkit.
// Every field is materialized lazily on first read and cached; once
// materialized it only changes through an explicit setter. Setters
// never rebuild already-cached dependents (setting the LLM after the
// prompt helper was read leaves the helper as is).
//
// All access is guarded by a single mutex.
type Settings struct {
	mu sync.Mutex

	llm             LLM
	embedModel      Embedder
	callbackManager *CallbackManager
	tokenizer       Tokenizer
	nodeParser      NodeParser
	promptHelper    *PromptHelper
	transformations []TransformComponent

	resolveLLM       func() (LLM, error)
	resolveEmbedder  func() (Embedder, error)
	resolveTokenizer func() (Tokenizer, error)
}

func NewSettings() *Settings {
	return &Settings{
		resolveLLM: func() (LLM, error) {
			return ResolveLLM(context.Background(), "default")
		},
		resolveEmbedder: func() (Embedder, error) {
			return ResolveEmbedder("default")
		},
		resolveTokenizer: DefaultTokenizer,
	}
}

// Default is the process-wide Settings instance. It lives for the
// process lifetime; there is no teardown.
var Default = NewSettings()

// ---- LLM ----

func (s *Settings) LLM() (LLM, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.llm == nil {
		llm, err := s.resolveLLM()
		if err != nil {
			return nil, err
		}
		s.llm = llm
	}
	return s.llm, nil
}

func (s *Settings) SetLLM(llm LLM) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.llm = llm
}

// ---- Embedding ----

func (s *Settings) EmbedModel() (Embedder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embedModel == nil {
		embedder, err := s.resolveEmbedder()
		if err != nil {
			return nil, err
		}
		s.embedModel = embedder
	}
	return s.embedModel, nil
}

func (s *Settings) SetEmbedModel(embedder Embedder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embedModel = embedder
}

// ---- Callbacks ----

func (s *Settings) CallbackManager() *CallbackManager {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.callbackManager == nil {
		s.callbackManager = NewCallbackManager()
	}
	return s.callbackManager
}

func (s *Settings) SetCallbackManager(cm *CallbackManager) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbackManager = cm
}

// ---- Tokenizer ----

func (s *Settings) Tokenizer() (Tokenizer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tokenizer == nil {
		tok, err := s.resolveTokenizer()
		if err != nil {
			return nil, err
		}
		s.tokenizer = tok
	}
	return s.tokenizer, nil
}

// SetTokenizer also updates the deprecated global tokenizer so code on
// the old path keeps seeing the override.
func (s *Settings) SetTokenizer(tok Tokenizer) {
	s.mu.Lock()
	s.tokenizer = tok
	s.mu.Unlock()

	SetGlobalTokenizer(tok)
}

// ---- Node parser ----

func (s *Settings) nodeParserLocked() NodeParser {
	if s.nodeParser == nil {
		s.nodeParser = NewSentenceSplitter()
	}
	return s.nodeParser
}

func (s *Settings) NodeParser() NodeParser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodeParserLocked()
}

func (s *Settings) SetNodeParser(parser NodeParser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodeParser = parser
}

// TextSplitter aliases NodeParser.

func (s *Settings) TextSplitter() NodeParser {
	return s.NodeParser()
}

func (s *Settings) SetTextSplitter(splitter NodeParser) {
	s.SetNodeParser(splitter)
}

func (s *Settings) ChunkSize() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sized, ok := s.nodeParserLocked().(SizedChunking)
	if !ok {
		return 0, ErrUnsupported
	}
	return sized.ChunkSize(), nil
}

func (s *Settings) SetChunkSize(size int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sized, ok := s.nodeParserLocked().(SizedChunking)
	if !ok {
		return ErrUnsupported
	}
	sized.SetChunkSize(size)
	return nil
}

func (s *Settings) ChunkOverlap() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sized, ok := s.nodeParserLocked().(SizedChunking)
	if !ok {
		return 0, ErrUnsupported
	}
	return sized.ChunkOverlap(), nil
}

func (s *Settings) SetChunkOverlap(overlap int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sized, ok := s.nodeParserLocked().(SizedChunking)
	if !ok {
		return ErrUnsupported
	}
	sized.SetChunkOverlap(overlap)
	return nil
}

// ---- Prompt helper ----

func (s *Settings) promptHelperLocked() *PromptHelper {
	if s.promptHelper == nil {
		// Derive from the model only when one was set before first
		// read. The choice is permanent.
		if s.llm != nil {
			s.promptHelper = PromptHelperFromLLMMetadata(s.llm.Metadata())
		} else {
			s.promptHelper = NewPromptHelper()
		}
	}
	return s.promptHelper
}

func (s *Settings) PromptHelper() *PromptHelper {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.promptHelperLocked()
}

func (s *Settings) SetPromptHelper(helper *PromptHelper) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promptHelper = helper
}

func (s *Settings) ContextWindow() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.promptHelperLocked().ContextWindow()
}

func (s *Settings) SetContextWindow(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promptHelperLocked().SetContextWindow(n)
}

func (s *Settings) NumOutput() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.promptHelperLocked().NumOutput()
}

func (s *Settings) SetNumOutput(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promptHelperLocked().SetNumOutput(n)
}

// ---- Transformations ----

func (s *Settings) Transformations() []TransformComponent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.transformations == nil {
		s.transformations = []TransformComponent{s.nodeParserLocked()}
	}
	return s.transformations
}

func (s *Settings) SetTransformations(transformations []TransformComponent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transformations = transformations
}
