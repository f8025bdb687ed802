package driven

import "github.com/mikepeiman/elemental-craft/internal/core/domain"

// ProviderValidator validates LLM provider configurations.
// Used by the settings flow to check credentials before they are saved.
type ProviderValidator interface {
	// ValidateProvider validates a provider entry by pinging the provider.
	ValidateProvider(entry domain.ProviderSettings) error
}
