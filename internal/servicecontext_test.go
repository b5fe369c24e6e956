package internal

import "testing"

func TestResolversPreferNonNilContext(t *testing.T) {
	settings := NewSettings()
	settings.SetLLM(newFakeLLM())
	settings.SetEmbedModel(newFakeEmbedder(3))

	sc := &ServiceContext{
		LLM:             newFakeLLM(),
		EmbedModel:      newFakeEmbedder(4),
		CallbackManager: NewCallbackManager(),
		NodeParser:      NewMarkdownNodeParser(),
		PromptHelper:    NewPromptHelper(WithContextWindow(1234)),
		Transformations: []TransformComponent{NewSentenceSplitter()},
	}

	llm, err := LLMFromSettingsOrContext(settings, sc)
	if err != nil {
		t.Fatalf("llm: %v", err)
	}
	if llm != sc.LLM {
		t.Error("expected the context llm")
	}

	embedder, err := EmbedModelFromSettingsOrContext(settings, sc)
	if err != nil {
		t.Fatalf("embed model: %v", err)
	}
	if embedder != sc.EmbedModel {
		t.Error("expected the context embedder")
	}

	if CallbackManagerFromSettingsOrContext(settings, sc) != sc.CallbackManager {
		t.Error("expected the context callback manager")
	}
	if NodeParserFromSettingsOrContext(settings, sc) != sc.NodeParser {
		t.Error("expected the context node parser")
	}
	if PromptHelperFromSettingsOrContext(settings, sc) != sc.PromptHelper {
		t.Error("expected the context prompt helper")
	}

	transformations := TransformationsFromSettingsOrContext(settings, sc)
	if len(transformations) != 1 || transformations[0] != sc.Transformations[0] {
		t.Error("expected the context transformations")
	}
}

func TestResolversContextWinsEvenWithNilFields(t *testing.T) {
	settings := NewSettings()
	settings.SetLLM(newFakeLLM())

	// A non-nil context always wins, even when its fields are unset.
	sc := &ServiceContext{}

	llm, err := LLMFromSettingsOrContext(settings, sc)
	if err != nil {
		t.Fatalf("llm: %v", err)
	}
	if llm != nil {
		t.Error("expected the context's nil llm, not the facade's")
	}
	if NodeParserFromSettingsOrContext(settings, sc) != nil {
		t.Error("expected the context's nil parser, not the facade's")
	}
}

func TestResolversFallBackToSettings(t *testing.T) {
	settings := NewSettings()
	want := newFakeLLM()
	settings.SetLLM(want)

	llm, err := LLMFromSettingsOrContext(settings, nil)
	if err != nil {
		t.Fatalf("llm: %v", err)
	}
	if llm != want {
		t.Error("expected the facade llm")
	}

	parser := NodeParserFromSettingsOrContext(settings, nil)
	if _, ok := parser.(*SentenceSplitter); !ok {
		t.Errorf("parser = %T, want facade default *SentenceSplitter", parser)
	}

	if CallbackManagerFromSettingsOrContext(settings, nil) == nil {
		t.Error("expected a lazily built callback manager")
	}
	if PromptHelperFromSettingsOrContext(settings, nil) == nil {
		t.Error("expected a lazily built prompt helper")
	}
	if len(TransformationsFromSettingsOrContext(settings, nil)) != 1 {
		t.Error("expected the facade's default transformations")
	}
}
