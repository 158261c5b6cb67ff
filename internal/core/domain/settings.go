package domain

const unknownDescription = "Unknown"

// AIProvider identifies a text-completion service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// CompletionSettings holds text-completion service configuration.
type CompletionSettings struct {
	// Provider selects the backend.
	Provider AIProvider

	// APIKey authenticates against cloud providers.
	APIKey string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// Model is the model name to use.
	Model string

	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int
}

// IsConfigured returns true if enough is set to construct the service.
func (s *CompletionSettings) IsConfigured() bool {
	if s == nil || !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// AppSettings holds the complete application configuration.
type AppSettings struct {
	// Completion configures the text-completion backend.
	Completion CompletionSettings

	// Policies is the per-entity-kind resolution policy table.
	Policies map[EntityKind]ResolutionPolicy

	// Honorifics are stripped from speaker names during normalisation.
	Honorifics []string

	// BoundaryMarkers separate the roster preamble from the utterance body.
	BoundaryMarkers []string

	// MinPartialKeywordLen is the minimum keyword length (in runes) before
	// the chaptering fallback considers leading fragments.
	MinPartialKeywordLen int
}

// DefaultAppSettings returns settings with all defaults applied.
func DefaultAppSettings() *AppSettings {
	policies := make(map[EntityKind]ResolutionPolicy, len(DefaultResolutionPolicies))
	for kind, p := range DefaultResolutionPolicies {
		policies[kind] = p
	}

	return &AppSettings{
		Completion: CompletionSettings{
			Provider: AIProviderOllama,
		},
		Policies:             policies,
		Honorifics:           append([]string(nil), DefaultHonorifics...),
		BoundaryMarkers:      append([]string(nil), DefaultBoundaryMarkers...),
		MinPartialKeywordLen: DefaultMinPartialKeywordLen,
	}
}

// AllAIProviders returns the selectable providers in display order.
func AllAIProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}
}

// DefaultCompletionModels maps each provider to its suggested default model.
func DefaultCompletionModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}
