package domain

import "time"

// unknownDescription is the fallback description for unrecognised values.
const unknownDescription = "Unknown"

// AIProvider identifies an LLM service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API, or any compatible
	// endpoint such as OpenRouter.
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
		return "OpenAI-compatible (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// AllAIProviders returns every selectable provider, in menu order.
func AllAIProviders() []AIProvider {
	return []AIProvider{
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderOllama,
	}
}

// ProviderSettings holds the configuration for one model in the pool.
type ProviderSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the model identifier to request.
	Model string

	// BaseURL is the API endpoint. Empty selects the provider default;
	// set it to target Ollama or an OpenRouter-style gateway.
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string
}

// IsConfigured returns true if the provider entry is usable.
func (p ProviderSettings) IsConfigured() bool {
	if !p.Provider.IsValid() {
		return false
	}
	if p.Provider.RequiresAPIKey() && p.APIKey == "" {
		return false
	}
	return true
}

// EngineSettings holds the combination engine tunables. All generation
// parameters live here rather than being hard-coded per call site.
type EngineSettings struct {
	// Pool is the ordered set of models asked for candidates. Order is
	// preserved in generation attempts.
	Pool []ProviderSettings

	// Adjudicator is the model used for the secondary adjudication call
	// in adjudicated mode. Unset falls back to the first pool entry.
	Adjudicator ProviderSettings

	// Mode selects how a winner is chosen among candidates.
	Mode SelectionMode

	// Temperature controls sampling randomness for candidate generation
	// (0.0 = deterministic, higher = more creative).
	Temperature float64

	// MaxTokens bounds the length of each model response. Combination
	// labels are at most three words, so this stays small.
	MaxTokens int

	// AttemptTimeout bounds each individual model call, retries included,
	// so one slow upstream cannot stall a whole resolution.
	AttemptTimeout time.Duration

	// MaxRetries is how many times a transient provider failure is
	// retried per attempt before the attempt is marked failed.
	MaxRetries int

	// RequestsPerSecond throttles outbound calls per provider.
	// Zero disables throttling.
	RequestsPerSecond float64
}

// BatchSettings holds batch driver configuration.
type BatchSettings struct {
	// Delay is the pause between pair resolutions, giving the stop
	// signal a chance to be observed.
	Delay time.Duration

	// Workers is the number of concurrent resolutions. Distinct pairs
	// resolve fully in parallel.
	Workers int
}

// AppSettings aggregates all user-configurable settings.
type AppSettings struct {
	// Engine holds the combination engine configuration.
	Engine EngineSettings

	// Batch holds the batch driver configuration.
	Batch BatchSettings
}

// DefaultAppSettings returns the default configuration. The default pool
// targets an OpenRouter-style gateway with a spread of inexpensive models;
// the adjudicator is a stronger model that picks among their outputs.
func DefaultAppSettings() *AppSettings {
	return &AppSettings{
		Engine: EngineSettings{
			Pool: []ProviderSettings{
				{Provider: AIProviderOpenAI, Model: "openai/gpt-4o-mini"},
				{Provider: AIProviderOpenAI, Model: "anthropic/claude-3-haiku"},
				{Provider: AIProviderOpenAI, Model: "mistralai/mistral-tiny"},
			},
			Adjudicator:       ProviderSettings{Provider: AIProviderOpenAI, Model: "anthropic/claude-3.5-sonnet"},
			Mode:              SelectionAdjudicated,
			Temperature:       0.8,
			MaxTokens:         30,
			AttemptTimeout:    30 * time.Second,
			MaxRetries:        2,
			RequestsPerSecond: 2,
		},
		Batch: BatchSettings{
			Delay:   10 * time.Millisecond,
			Workers: 1,
		},
	}
}
