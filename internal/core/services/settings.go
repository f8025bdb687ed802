package services

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driven"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driving"
)

// Ensure Settings implements the interface.
var _ driving.SettingsService = (*Settings)(nil)

// Configuration keys.
const (
	keyEnginePool        = "engine.pool"
	keyEngineAdjudicator = "engine.adjudicator"
	keyEngineMode        = "engine.mode"
	keyEngineTemperature = "engine.temperature"
	keyEngineMaxTokens   = "engine.max_tokens"
	keyEngineTimeoutSecs = "engine.attempt_timeout_seconds"
	keyEngineMaxRetries  = "engine.max_retries"
	keyEngineRPS         = "engine.requests_per_second"
	keyBatchDelayMS      = "batch.delay_ms"
	keyBatchWorkers      = "batch.workers"
)

// Settings manages application settings backed by a ConfigStore.
//
// Pool and adjudicator entries are stored as "provider:model" strings;
// credentials and base URLs live under per-provider keys so one API key
// covers every pool entry on the same provider. Environment variables
// override stored credentials without being written back.
type Settings struct {
	config    driven.ConfigStore
	validator driven.ProviderValidator
}

// NewSettings creates a settings service with the given config store.
// The validator may be nil, which skips credential checks.
func NewSettings(config driven.ConfigStore, validator driven.ProviderValidator) *Settings {
	return &Settings{config: config, validator: validator}
}

// ValidateProvider checks a provider entry by pinging the provider.
// A misconfigured entry fails fast here instead of on the first resolve.
func (s *Settings) ValidateProvider(entry domain.ProviderSettings) error {
	if !entry.IsConfigured() {
		return fmt.Errorf("%w: provider %q is not configured", domain.ErrInvalidInput, entry.Provider)
	}
	if s.validator == nil {
		return nil
	}
	return s.validator.ValidateProvider(entry)
}

// Get retrieves current application settings. Missing keys fall back to
// defaults, so a fresh install works without a settings file.
func (s *Settings) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	if pool := s.config.GetStringSlice(keyEnginePool); len(pool) > 0 {
		entries := make([]domain.ProviderSettings, 0, len(pool))
		for _, ref := range pool {
			entry, err := s.resolveModelRef(ref)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
		settings.Engine.Pool = entries
	} else {
		for i := range settings.Engine.Pool {
			s.applyProviderConfig(&settings.Engine.Pool[i])
		}
	}

	if ref := s.config.GetString(keyEngineAdjudicator); ref != "" {
		entry, err := s.resolveModelRef(ref)
		if err != nil {
			return nil, err
		}
		settings.Engine.Adjudicator = entry
	} else {
		s.applyProviderConfig(&settings.Engine.Adjudicator)
	}

	if mode := s.config.GetString(keyEngineMode); mode != "" {
		m := domain.SelectionMode(mode)
		if !m.IsValid() {
			return nil, fmt.Errorf("%w: unknown selection mode %q", domain.ErrInvalidInput, mode)
		}
		settings.Engine.Mode = m
	}
	if _, ok := s.config.Get(keyEngineTemperature); ok {
		settings.Engine.Temperature = s.config.GetFloat(keyEngineTemperature)
	}
	if v := s.config.GetInt(keyEngineMaxTokens); v > 0 {
		settings.Engine.MaxTokens = v
	}
	if v := s.config.GetInt(keyEngineTimeoutSecs); v > 0 {
		settings.Engine.AttemptTimeout = time.Duration(v) * time.Second
	}
	if _, ok := s.config.Get(keyEngineMaxRetries); ok {
		settings.Engine.MaxRetries = s.config.GetInt(keyEngineMaxRetries)
	}
	if _, ok := s.config.Get(keyEngineRPS); ok {
		settings.Engine.RequestsPerSecond = s.config.GetFloat(keyEngineRPS)
	}
	if v := s.config.GetInt(keyBatchDelayMS); v > 0 {
		settings.Batch.Delay = time.Duration(v) * time.Millisecond
	}
	if v := s.config.GetInt(keyBatchWorkers); v > 0 {
		settings.Batch.Workers = v
	}

	return settings, nil
}

// Save persists application settings.
func (s *Settings) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return domain.ErrInvalidInput
	}

	pool := make([]string, 0, len(settings.Engine.Pool))
	for _, entry := range settings.Engine.Pool {
		if !entry.Provider.IsValid() {
			return fmt.Errorf("%w: invalid provider %q", domain.ErrInvalidInput, entry.Provider)
		}
		pool = append(pool, modelRef(entry))
		if err := s.saveProviderConfig(entry); err != nil {
			return err
		}
	}

	pairs := []struct {
		key   string
		value any
	}{
		{keyEnginePool, pool},
		{keyEngineAdjudicator, modelRef(settings.Engine.Adjudicator)},
		{keyEngineMode, settings.Engine.Mode.String()},
		{keyEngineTemperature, settings.Engine.Temperature},
		{keyEngineMaxTokens, settings.Engine.MaxTokens},
		{keyEngineTimeoutSecs, int(settings.Engine.AttemptTimeout / time.Second)},
		{keyEngineMaxRetries, settings.Engine.MaxRetries},
		{keyEngineRPS, settings.Engine.RequestsPerSecond},
		{keyBatchDelayMS, int(settings.Batch.Delay / time.Millisecond)},
		{keyBatchWorkers, settings.Batch.Workers},
	}
	for _, p := range pairs {
		if err := s.config.Set(p.key, p.value); err != nil {
			return fmt.Errorf("failed to save %s: %w", p.key, err)
		}
	}
	if err := s.saveProviderConfig(settings.Engine.Adjudicator); err != nil {
		return err
	}
	return nil
}

// resolveModelRef parses a "provider:model" reference and fills in the
// provider's stored credentials.
func (s *Settings) resolveModelRef(ref string) (domain.ProviderSettings, error) {
	provider, model, found := strings.Cut(ref, ":")
	if !found || provider == "" || model == "" {
		return domain.ProviderSettings{}, fmt.Errorf(
			"%w: model reference %q is not provider:model", domain.ErrInvalidInput, ref)
	}
	entry := domain.ProviderSettings{
		Provider: domain.AIProvider(provider),
		Model:    model,
	}
	if !entry.Provider.IsValid() {
		return domain.ProviderSettings{}, fmt.Errorf(
			"%w: unknown provider %q", domain.ErrInvalidInput, provider)
	}
	s.applyProviderConfig(&entry)
	return entry, nil
}

// applyProviderConfig fills base URL and API key from per-provider keys
// and environment overrides.
func (s *Settings) applyProviderConfig(entry *domain.ProviderSettings) {
	prefix := "provider." + entry.Provider.String()
	if url := s.config.GetString(prefix + ".base_url"); url != "" {
		entry.BaseURL = url
	}
	if key := s.config.GetString(prefix + ".api_key"); key != "" {
		entry.APIKey = key
	}
	if key := envAPIKey(entry.Provider); key != "" {
		entry.APIKey = key
	}
}

// saveProviderConfig persists per-provider base URL and API key.
// Credentials sourced from the environment are not written back, so an
// exported key never lands in the settings file by accident.
func (s *Settings) saveProviderConfig(entry domain.ProviderSettings) error {
	prefix := "provider." + entry.Provider.String()
	if entry.BaseURL != "" {
		if err := s.config.Set(prefix+".base_url", entry.BaseURL); err != nil {
			return fmt.Errorf("failed to save %s base URL: %w", entry.Provider, err)
		}
	}
	if entry.APIKey != "" && entry.APIKey != envAPIKey(entry.Provider) {
		if err := s.config.Set(prefix+".api_key", entry.APIKey); err != nil {
			return fmt.Errorf("failed to save %s API key: %w", entry.Provider, err)
		}
	}
	return nil
}

// envAPIKey returns the environment override for a provider's API key.
// OPENROUTER_API_KEY is accepted for the OpenAI-compatible provider since
// OpenRouter is the usual gateway for mixed model pools.
func envAPIKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("OPENAI_API_KEY")
	case domain.AIProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}

// modelRef formats a pool entry as "provider:model".
func modelRef(entry domain.ProviderSettings) string {
	return entry.Provider.String() + ":" + entry.Model
}
