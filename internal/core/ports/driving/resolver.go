package driving

import (
	"context"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
)

// ResolverService resolves combinations of two concepts.
type ResolverService interface {
	// Resolve returns the concept the unordered pair (labelA, labelB)
	// combines into. A pair already in the knowledge base returns its
	// committed result without any generation call; a novel pair drives
	// generation, selection and an atomic commit. Failures are reported
	// as *domain.ResolutionError.
	Resolve(ctx context.Context, labelA, labelB string) (*domain.Concept, error)
}

// ElementService exposes the player's concept collection.
type ElementService interface {
	// List returns all concepts ordered by creation time.
	List(ctx context.Context) ([]domain.Concept, error)

	// Seed ensures the base elements exist. Idempotent.
	Seed(ctx context.Context) error
}

// BatchDriver runs randomised combination generation against the resolver.
type BatchDriver interface {
	// Run resolves up to count random pairs, returning a summary.
	// The stop signal and context cancellation are checked between pair
	// resolutions; an in-flight resolution always completes or fails
	// cleanly. Only one run may be active at a time.
	Run(ctx context.Context, count int) (domain.BatchSummary, error)

	// Stop requests a cooperative stop of the active run.
	Stop()
}

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with environment
	// variable overrides applied for credentials.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// ValidateProvider checks that a provider entry is usable, pinging
	// the provider when a validator is wired in.
	ValidateProvider(entry domain.ProviderSettings) error
}
