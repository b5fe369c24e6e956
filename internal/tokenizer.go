package internal

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const DefaultEncoding = "cl100k_base"

// Tokenizer converts text into token IDs. Only the count matters to
// most callers (chunking, prompt budgeting).
type Tokenizer func(text string) []int

// NewTiktokenTokenizer builds a Tokenizer backed by the given tiktoken
// encoding.
func NewTiktokenTokenizer(encoding string) (Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("get encoding %q: %w", encoding, err)
	}
	return func(text string) []int {
		return enc.Encode(text, nil, nil)
	}, nil
}

// DefaultTokenizer returns the cl100k_base tokenizer.
func DefaultTokenizer() (Tokenizer, error) {
	return NewTiktokenTokenizer(DefaultEncoding)
}

var (
	globalTokenizerMu sync.Mutex
	globalTokenizer   Tokenizer
)

// SetGlobalTokenizer installs a process-wide tokenizer.
//
// Deprecated: set the tokenizer on Settings instead.
func SetGlobalTokenizer(tok Tokenizer) {
	globalTokenizerMu.Lock()
	defer globalTokenizerMu.Unlock()
	globalTokenizer = tok
}

// GlobalTokenizer returns the process-wide tokenizer, resolving the
// default on first use.
//
// Deprecated: read the tokenizer from Settings instead.
func GlobalTokenizer() (Tokenizer, error) {
	globalTokenizerMu.Lock()
	defer globalTokenizerMu.Unlock()

	if globalTokenizer == nil {
		tok, err := DefaultTokenizer()
		if err != nil {
			return nil, err
		}
		globalTokenizer = tok
	}
	return globalTokenizer, nil
}

// tokenCount measures text with the given tokenizer, falling back to a
// whitespace approximation when none is configured.
func tokenCount(tok Tokenizer, text string) int {
	if tok != nil {
		return len(tok(text))
	}
	return len(strings.Fields(text))
}
