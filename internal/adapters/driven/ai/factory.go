// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/mikepeiman/elemental-craft/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/mikepeiman/elemental-craft/internal/adapters/driven/llm/ollama"
	openaillm "github.com/mikepeiman/elemental-craft/internal/adapters/driven/llm/openai"
	"github.com/mikepeiman/elemental-craft/internal/core/domain"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// App attribution sent to OpenRouter-style gateways.
const (
	appReferer = "https://github.com/mikepeiman/elemental-craft"
	appTitle   = "Elemental Craft"
)

// Pool holds the LLM services backing the combination engine.
type Pool struct {
	// Models are the candidate generation services, in pool order.
	Models []driven.LLMService

	// Adjudicator is the selection service, nil when unconfigured.
	Adjudicator driven.LLMService
}

// Close releases all services held by the pool.
func (p *Pool) Close() {
	for _, svc := range p.Models {
		svc.Close()
	}
	if p.Adjudicator != nil {
		p.Adjudicator.Close()
	}
}

// CreatePool creates the LLM services for every configured pool entry plus
// the adjudicator. Entries that are not configured are skipped; an empty
// pool is reported as domain.ErrLLMUnavailable with setup guidance.
func CreatePool(engine domain.EngineSettings) (*Pool, error) {
	pool := &Pool{}

	for _, entry := range engine.Pool {
		if !entry.IsConfigured() {
			continue
		}
		svc, err := CreateLLMService(entry, engine.RequestsPerSecond)
		if err != nil {
			pool.Close()
			return nil, err
		}
		pool.Models = append(pool.Models, svc)
	}

	if len(pool.Models) == 0 {
		return nil, fmt.Errorf("%w: no models configured. Run 'elemental settings' to add an API key",
			domain.ErrLLMUnavailable)
	}

	if engine.Adjudicator.IsConfigured() {
		svc, err := CreateLLMService(engine.Adjudicator, engine.RequestsPerSecond)
		if err != nil {
			pool.Close()
			return nil, err
		}
		pool.Adjudicator = svc
	}

	return pool, nil
}

// CreateLLMService creates the appropriate LLM service for a pool entry.
func CreateLLMService(entry domain.ProviderSettings, requestsPerSecond float64) (driven.LLMService, error) {
	switch entry.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: entry.BaseURL,
			Model:   entry.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:            entry.APIKey,
			BaseURL:           entry.BaseURL,
			Model:             entry.Model,
			RequestsPerSecond: requestsPerSecond,
			Referer:           appReferer,
			Title:             appTitle,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:            entry.APIKey,
			BaseURL:           entry.BaseURL,
			Model:             entry.Model,
			RequestsPerSecond: requestsPerSecond,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", entry.Provider)
	}
}

// ValidateProviderConfig validates a provider entry by creating a service
// and pinging it. This is intended for the settings flow, to validate
// credentials before they are saved.
func ValidateProviderConfig(entry domain.ProviderSettings) error {
	if !entry.IsConfigured() {
		return fmt.Errorf("provider %s is not configured", entry.Provider)
	}

	svc, err := CreateLLMService(entry, 0)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}
