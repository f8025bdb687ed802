package mcp

import (
	"context"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
)

// mockResolverService is a mock implementation of driving.ResolverService.
type mockResolverService struct {
	concept *domain.Concept
	err     error
	lastA   string
	lastB   string
}

func (m *mockResolverService) Resolve(_ context.Context, labelA, labelB string) (*domain.Concept, error) {
	m.lastA = labelA
	m.lastB = labelB
	return m.concept, m.err
}

// mockElementService is a mock implementation of driving.ElementService.
type mockElementService struct {
	concepts []domain.Concept
	err      error
}

func (m *mockElementService) List(_ context.Context) ([]domain.Concept, error) {
	return m.concepts, m.err
}

func (m *mockElementService) Seed(_ context.Context) error {
	return m.err
}
