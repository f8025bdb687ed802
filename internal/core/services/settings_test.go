package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikepeiman/elemental-craft/internal/adapters/driven/storage/memory"
	"github.com/mikepeiman/elemental-craft/internal/core/domain"
)

func TestSettings_Get(t *testing.T) {
	t.Run("empty config returns defaults", func(t *testing.T) {
		svc := NewSettings(newMockConfigStore(), nil)

		settings, err := svc.Get()
		require.NoError(t, err)
		defaults := domain.DefaultAppSettings()
		assert.Equal(t, len(defaults.Engine.Pool), len(settings.Engine.Pool))
		assert.Equal(t, defaults.Engine.Mode, settings.Engine.Mode)
		assert.Equal(t, defaults.Engine.MaxTokens, settings.Engine.MaxTokens)
	})

	t.Run("pool entries parse provider and model", func(t *testing.T) {
		config := newMockConfigStore()
		config.values[keyEnginePool] = []string{
			"openai:openai/gpt-4o-mini",
			"anthropic:claude-3-haiku-20240307",
			"ollama:llama3.2",
		}
		svc := NewSettings(config, nil)

		settings, err := svc.Get()
		require.NoError(t, err)
		require.Len(t, settings.Engine.Pool, 3)
		assert.Equal(t, domain.AIProviderOpenAI, settings.Engine.Pool[0].Provider)
		assert.Equal(t, "openai/gpt-4o-mini", settings.Engine.Pool[0].Model)
		assert.Equal(t, domain.AIProviderOllama, settings.Engine.Pool[2].Provider)
		assert.Equal(t, "llama3.2", settings.Engine.Pool[2].Model)
	})

	t.Run("pool entries share per-provider credentials", func(t *testing.T) {
		config := newMockConfigStore()
		config.values[keyEnginePool] = []string{
			"openai:openai/gpt-4o-mini",
			"openai:mistralai/mistral-tiny",
		}
		config.values["provider.openai.api_key"] = "sk-stored"
		config.values["provider.openai.base_url"] = "https://openrouter.ai/api/v1"
		svc := NewSettings(config, nil)

		settings, err := svc.Get()
		require.NoError(t, err)
		for _, entry := range settings.Engine.Pool {
			assert.Equal(t, "sk-stored", entry.APIKey)
			assert.Equal(t, "https://openrouter.ai/api/v1", entry.BaseURL)
		}
	})

	t.Run("environment overrides stored credentials", func(t *testing.T) {
		t.Setenv("OPENROUTER_API_KEY", "sk-env")
		config := newMockConfigStore()
		config.values[keyEnginePool] = []string{"openai:openai/gpt-4o-mini"}
		config.values["provider.openai.api_key"] = "sk-stored"
		svc := NewSettings(config, nil)

		settings, err := svc.Get()
		require.NoError(t, err)
		assert.Equal(t, "sk-env", settings.Engine.Pool[0].APIKey)
	})

	t.Run("anthropic key comes from its own variable", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
		config := newMockConfigStore()
		config.values[keyEngineAdjudicator] = "anthropic:claude-3-5-sonnet-latest"
		svc := NewSettings(config, nil)

		settings, err := svc.Get()
		require.NoError(t, err)
		assert.Equal(t, "sk-ant", settings.Engine.Adjudicator.APIKey)
	})

	t.Run("malformed pool entry is rejected", func(t *testing.T) {
		config := newMockConfigStore()
		config.values[keyEnginePool] = []string{"gpt-4o-mini"}
		svc := NewSettings(config, nil)

		_, err := svc.Get()
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown provider is rejected", func(t *testing.T) {
		config := newMockConfigStore()
		config.values[keyEnginePool] = []string{"groq:llama3"}
		svc := NewSettings(config, nil)

		_, err := svc.Get()
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown selection mode is rejected", func(t *testing.T) {
		config := newMockConfigStore()
		config.values[keyEngineMode] = "majority"
		svc := NewSettings(config, nil)

		_, err := svc.Get()
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("engine tunables are applied", func(t *testing.T) {
		config := newMockConfigStore()
		config.values[keyEngineMode] = "direct"
		config.values[keyEngineTemperature] = 0.3
		config.values[keyEngineMaxTokens] = 50
		config.values[keyEngineTimeoutSecs] = 10
		config.values[keyEngineMaxRetries] = 0
		config.values[keyBatchDelayMS] = 250
		config.values[keyBatchWorkers] = 3
		svc := NewSettings(config, nil)

		settings, err := svc.Get()
		require.NoError(t, err)
		assert.Equal(t, domain.SelectionDirect, settings.Engine.Mode)
		assert.InDelta(t, 0.3, settings.Engine.Temperature, 0.001)
		assert.Equal(t, 50, settings.Engine.MaxTokens)
		assert.Equal(t, 10*time.Second, settings.Engine.AttemptTimeout)
		assert.Equal(t, 0, settings.Engine.MaxRetries)
		assert.Equal(t, 250*time.Millisecond, settings.Batch.Delay)
		assert.Equal(t, 3, settings.Batch.Workers)
	})
}

func TestSettings_Save(t *testing.T) {
	t.Run("round-trips through the config store", func(t *testing.T) {
		config := newMockConfigStore()
		svc := NewSettings(config, nil)

		in := domain.DefaultAppSettings()
		in.Engine.Mode = domain.SelectionDirect
		in.Engine.MaxTokens = 42
		in.Engine.Pool[0].APIKey = "sk-saved"
		in.Engine.Pool[0].BaseURL = "https://openrouter.ai/api/v1"
		require.NoError(t, svc.Save(in))

		out, err := svc.Get()
		require.NoError(t, err)
		assert.Equal(t, domain.SelectionDirect, out.Engine.Mode)
		assert.Equal(t, 42, out.Engine.MaxTokens)
		require.Len(t, out.Engine.Pool, len(in.Engine.Pool))
		assert.Equal(t, in.Engine.Pool[0].Model, out.Engine.Pool[0].Model)
		assert.Equal(t, "sk-saved", out.Engine.Pool[0].APIKey)
	})

	t.Run("environment credentials are not persisted", func(t *testing.T) {
		t.Setenv("OPENROUTER_API_KEY", "sk-env")
		config := newMockConfigStore()
		svc := NewSettings(config, nil)

		in := domain.DefaultAppSettings()
		in.Engine.Pool[0].APIKey = "sk-env"
		require.NoError(t, svc.Save(in))

		_, ok := config.values["provider.openai.api_key"]
		assert.False(t, ok)
	})

	t.Run("nil settings are invalid", func(t *testing.T) {
		svc := NewSettings(newMockConfigStore(), nil)
		assert.ErrorIs(t, svc.Save(nil), domain.ErrInvalidInput)
	})

	t.Run("invalid pool provider is rejected", func(t *testing.T) {
		svc := NewSettings(newMockConfigStore(), nil)
		in := domain.DefaultAppSettings()
		in.Engine.Pool[0].Provider = "groq"
		assert.ErrorIs(t, svc.Save(in), domain.ErrInvalidInput)
	})
}

func TestSettings_ValidateProvider(t *testing.T) {
	entry := domain.ProviderSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "openai/gpt-4o-mini",
		APIKey:   "sk-test",
	}

	t.Run("delegates to the validator", func(t *testing.T) {
		validator := &mockValidator{err: errors.New("ping failed")}
		svc := NewSettings(newMockConfigStore(), validator)

		err := svc.ValidateProvider(entry)

		assert.ErrorContains(t, err, "ping failed")
		assert.Equal(t, entry, validator.lastEntry)
	})

	t.Run("nil validator skips the ping", func(t *testing.T) {
		svc := NewSettings(newMockConfigStore(), nil)
		assert.NoError(t, svc.ValidateProvider(entry))
	})

	t.Run("unconfigured entry fails without pinging", func(t *testing.T) {
		validator := &mockValidator{}
		svc := NewSettings(newMockConfigStore(), validator)

		missing := entry
		missing.APIKey = ""
		err := svc.ValidateProvider(missing)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Zero(t, validator.calls)
	})
}

func TestSettings_RoundTrip_MemoryStore(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettings(store, nil)

	in := domain.DefaultAppSettings()
	in.Engine.Mode = domain.SelectionDirect
	in.Engine.Temperature = 0.5
	in.Engine.MaxTokens = 48
	in.Engine.AttemptTimeout = 20 * time.Second
	in.Engine.Pool = []domain.ProviderSettings{
		{Provider: domain.AIProviderOpenAI, Model: "openai/gpt-4o-mini", APIKey: "sk-test"},
		{Provider: domain.AIProviderOllama, Model: "llama3.2", BaseURL: "http://localhost:11434"},
	}
	in.Batch.Workers = 4
	require.NoError(t, svc.Save(in))

	out, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.SelectionDirect, out.Engine.Mode)
	assert.Equal(t, 0.5, out.Engine.Temperature)
	assert.Equal(t, 48, out.Engine.MaxTokens)
	assert.Equal(t, 20*time.Second, out.Engine.AttemptTimeout)
	require.Len(t, out.Engine.Pool, 2)
	assert.Equal(t, "sk-test", out.Engine.Pool[0].APIKey)
	assert.Equal(t, "http://localhost:11434", out.Engine.Pool[1].BaseURL)
	assert.Equal(t, 4, out.Batch.Workers)
}
