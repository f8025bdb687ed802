package services

import (
	"context"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driven"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driving"
	"github.com/mikepeiman/elemental-craft/internal/logger"
)

// Ensure Elements implements the interface.
var _ driving.ElementService = (*Elements)(nil)

// Elements exposes the discovered concept catalogue and seeding.
type Elements struct {
	store driven.KnowledgeStore
}

// NewElements creates an element service over the given store.
func NewElements(store driven.KnowledgeStore) *Elements {
	return &Elements{store: store}
}

// List returns every known concept ordered by discovery time.
func (e *Elements) List(ctx context.Context) ([]domain.Concept, error) {
	return e.store.ListConcepts(ctx)
}

// Seed installs the starting elements. Seeding is idempotent: labels
// that already exist are left untouched.
func (e *Elements) Seed(ctx context.Context) error {
	labels := domain.SeedLabels()
	if err := e.store.SeedConcepts(ctx, labels); err != nil {
		return err
	}
	logger.Debug("Ensured %d starting elements", len(labels))
	return nil
}
