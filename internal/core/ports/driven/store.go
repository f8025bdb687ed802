package driven

import (
	"context"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
)

// KnowledgeStore provides durable persistence for concepts and the
// pair-to-result combination table. It is the only mutable shared resource
// in the engine; all writes go through CommitResolution.
type KnowledgeStore interface {
	// GetConcept retrieves a concept by label. Lookup is case-insensitive.
	// Returns domain.ErrNotFound if no such concept exists.
	GetConcept(ctx context.Context, label string) (*domain.Concept, error)

	// GetCombination retrieves a combination entry by pair key.
	// Returns domain.ErrNotFound if the pair has never been resolved.
	GetCombination(ctx context.Context, key string) (*domain.Combination, error)

	// CommitResolution writes a concept and its combination entry
	// atomically with respect to the combination key. If the key is
	// already present it writes nothing and returns
	// domain.ErrAlreadyExists; the caller re-reads the winning entry.
	// A concept whose label already exists is not duplicated; the
	// combination then points at the existing concept.
	CommitResolution(ctx context.Context, concept *domain.Concept, combination *domain.Combination) error

	// ListConcepts returns all concepts ordered by creation time.
	ListConcepts(ctx context.Context) ([]domain.Concept, error)

	// SeedConcepts inserts base elements with no parents. Labels already
	// present are left untouched, so seeding is idempotent.
	SeedConcepts(ctx context.Context, labels []string) error

	// Close releases resources.
	Close() error
}
