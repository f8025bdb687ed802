package driven

import (
	"context"
	"fmt"
)

// LLMService provides text generation against a single configured model.
// The candidate generator holds one LLMService per model in the pool.
//
// Implementations may include:
//   - OpenAI-compatible endpoints (OpenAI, OpenRouter, LM Studio)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Generate produces a text completion from a prompt.
	// Failures caused by the provider (HTTP status, malformed body) are
	// reported as *ProviderError so callers can decide whether to retry.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the model identifier this service targets.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures a single generation request. Tunables live in
// domain.EngineSettings and are passed through here, never hard-coded per
// call site.
type GenerateOptions struct {
	// System is an optional system prompt framing the task.
	System string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}

// ProviderError is a structured failure from an LLM provider.
type ProviderError struct {
	// Provider names the adapter ("openai", "anthropic", "ollama").
	Provider string

	// StatusCode is the HTTP status, or 0 for transport-level failures.
	StatusCode int

	// Message is the provider's error message.
	Message string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
}

// Transient reports whether the failure is worth retrying: transport
// errors, timeouts, rate limiting and upstream 5xx responses. Client
// errors such as an invalid API key are permanent.
func (e *ProviderError) Transient() bool {
	if e.StatusCode == 0 {
		return true
	}
	return e.StatusCode == 408 || e.StatusCode == 429 || e.StatusCode >= 500
}
