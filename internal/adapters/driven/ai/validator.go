package ai

import (
	"github.com/mikepeiman/elemental-craft/internal/core/domain"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.ProviderValidator = (*ConfigValidator)(nil)

// ConfigValidator validates LLM provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new provider config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateProvider validates a provider entry by pinging the provider.
func (v *ConfigValidator) ValidateProvider(entry domain.ProviderSettings) error {
	return ValidateProviderConfig(entry)
}
