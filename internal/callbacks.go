package internal

import (
	"fmt"
	"io"
	"sync"
	"time"
)

type CallbackEventType string

const (
	EventChunking  CallbackEventType = "chunking"
	EventExtract   CallbackEventType = "extract"
	EventEmbedding CallbackEventType = "embedding"
	EventLLM       CallbackEventType = "llm"
	EventRetrieve  CallbackEventType = "retrieve"
	EventPipeline  CallbackEventType = "pipeline"
)

type CallbackEvent struct {
	Type    CallbackEventType
	Payload map[string]any
	At      time.Time
}

type CallbackHandler interface {
	Handle(ev CallbackEvent)
}

// CallbackManager fans events out to registered handlers. A manager
// with no handlers is valid and drops everything.
type CallbackManager struct {
	mu       sync.RWMutex
	handlers []CallbackHandler
}

func NewCallbackManager(handlers ...CallbackHandler) *CallbackManager {
	return &CallbackManager{handlers: handlers}
}

func (m *CallbackManager) AddHandler(h CallbackHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, h)
}

func (m *CallbackManager) Handlers() []CallbackHandler {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]CallbackHandler, len(m.handlers))
	copy(out, m.handlers)
	return out
}

func (m *CallbackManager) Emit(evType CallbackEventType, payload map[string]any) {
	ev := CallbackEvent{Type: evType, Payload: payload, At: time.Now()}

	m.mu.RLock()
	handlers := make([]CallbackHandler, len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.RUnlock()

	for _, h := range handlers {
		h.Handle(ev)
	}
}

var _ CallbackHandler = (*PrintHandler)(nil)

// PrintHandler writes one line per event, for debugging pipelines.
type PrintHandler struct {
	W io.Writer
}

func (h *PrintHandler) Handle(ev CallbackEvent) {
	fmt.Fprintf(h.W, "[%s] %s %v\n", ev.At.Format(time.TimeOnly), ev.Type, ev.Payload)
}

var (
	globalHandlerMu sync.Mutex
	globalHandler   CallbackHandler
)

// SetGlobalHandler installs a process-wide callback handler.
//
// Deprecated: attach handlers to a CallbackManager on Settings instead.
func SetGlobalHandler(h CallbackHandler) {
	globalHandlerMu.Lock()
	defer globalHandlerMu.Unlock()
	globalHandler = h
}

// GlobalHandler returns the process-wide callback handler, if any.
//
// Deprecated: attach handlers to a CallbackManager on Settings instead.
func GlobalHandler() CallbackHandler {
	globalHandlerMu.Lock()
	defer globalHandlerMu.Unlock()
	return globalHandler
}

// SetGlobalHandlerByName installs a handler from a known name.
// Supported: "print" (writes to w).
//
// Deprecated: attach handlers to a CallbackManager on Settings instead.
func SetGlobalHandlerByName(name string, w io.Writer) error {
	switch name {
	case "print":
		SetGlobalHandler(&PrintHandler{W: w})
		return nil
	default:
		return fmt.Errorf("unknown handler %q", name)
	}
}
