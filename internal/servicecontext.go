package internal

// ServiceContext is the old per-call configuration object, kept for
// callers that have not migrated to the Settings facade.
//
// Deprecated: use Settings.
type ServiceContext struct {
	LLM             LLM
	EmbedModel      Embedder
	CallbackManager *CallbackManager
	Tokenizer       Tokenizer
	NodeParser      NodeParser
	PromptHelper    *PromptHelper
	Transformations []TransformComponent
}

// The resolvers below bridge the migration: a non-nil ServiceContext
// always wins, even over an explicitly set facade value; otherwise the
// facade's (lazily defaulted) field is used.

func LLMFromSettingsOrContext(settings *Settings, sc *ServiceContext) (LLM, error) {
	if sc != nil {
		return sc.LLM, nil
	}
	return settings.LLM()
}

func EmbedModelFromSettingsOrContext(settings *Settings, sc *ServiceContext) (Embedder, error) {
	if sc != nil {
		return sc.EmbedModel, nil
	}
	return settings.EmbedModel()
}

func CallbackManagerFromSettingsOrContext(settings *Settings, sc *ServiceContext) *CallbackManager {
	if sc != nil {
		return sc.CallbackManager
	}
	return settings.CallbackManager()
}

func NodeParserFromSettingsOrContext(settings *Settings, sc *ServiceContext) NodeParser {
	if sc != nil {
		return sc.NodeParser
	}
	return settings.NodeParser()
}

func PromptHelperFromSettingsOrContext(settings *Settings, sc *ServiceContext) *PromptHelper {
	if sc != nil {
		return sc.PromptHelper
	}
	return settings.PromptHelper()
}

func TransformationsFromSettingsOrContext(settings *Settings, sc *ServiceContext) []TransformComponent {
	if sc != nil {
		return sc.Transformations
	}
	return settings.Transformations()
}
