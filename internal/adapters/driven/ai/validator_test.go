package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
)

func TestNewConfigValidator(t *testing.T) {
	validator := NewConfigValidator()

	require.NotNil(t, validator)
}

func TestConfigValidator_ValidateProvider_Unconfigured(t *testing.T) {
	validator := NewConfigValidator()
	entry := domain.ProviderSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "gpt-4o-mini",
	}

	err := validator.ValidateProvider(entry)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestConfigValidator_ValidateProvider_UnknownProvider(t *testing.T) {
	validator := NewConfigValidator()
	entry := domain.ProviderSettings{
		Provider: "unknown",
		Model:    "test-model",
	}

	err := validator.ValidateProvider(entry)

	assert.Error(t, err)
}
