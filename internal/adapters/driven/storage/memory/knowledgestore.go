package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driven"
)

// Ensure KnowledgeStore implements the interface.
var _ driven.KnowledgeStore = (*KnowledgeStore)(nil)

// KnowledgeStore is an in-memory implementation of driven.KnowledgeStore.
// Concepts are keyed by lowercased label so lookups are case-insensitive.
type KnowledgeStore struct {
	mu           sync.RWMutex
	concepts     map[string]domain.Concept
	combinations map[string]domain.Combination
}

// NewKnowledgeStore creates a new in-memory knowledge store.
func NewKnowledgeStore() *KnowledgeStore {
	return &KnowledgeStore{
		concepts:     make(map[string]domain.Concept),
		combinations: make(map[string]domain.Combination),
	}
}

// GetConcept retrieves a concept by label, case-insensitively.
func (s *KnowledgeStore) GetConcept(_ context.Context, label string) (*domain.Concept, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	concept, ok := s.concepts[strings.ToLower(label)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &concept, nil
}

// GetCombination retrieves a combination entry by pair key.
func (s *KnowledgeStore) GetCombination(_ context.Context, key string) (*domain.Combination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	combination, ok := s.combinations[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &combination, nil
}

// CommitResolution atomically records a concept and its combination entry.
// Returns domain.ErrAlreadyExists if the combination key is already taken.
// A concept whose label already exists is not duplicated.
func (s *KnowledgeStore) CommitResolution(_ context.Context, concept *domain.Concept, combination *domain.Combination) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.combinations[combination.Key]; ok {
		return domain.ErrAlreadyExists
	}

	labelKey := strings.ToLower(concept.Label)
	if _, ok := s.concepts[labelKey]; !ok {
		s.concepts[labelKey] = *concept
	}
	s.combinations[combination.Key] = *combination
	return nil
}

// ListConcepts returns all concepts ordered by creation time.
func (s *KnowledgeStore) ListConcepts(_ context.Context) ([]domain.Concept, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	concepts := make([]domain.Concept, 0, len(s.concepts))
	for _, concept := range s.concepts {
		concepts = append(concepts, concept)
	}
	sort.Slice(concepts, func(i, j int) bool {
		if !concepts[i].CreatedAt.Equal(concepts[j].CreatedAt) {
			return concepts[i].CreatedAt.Before(concepts[j].CreatedAt)
		}
		return concepts[i].Label < concepts[j].Label
	})
	return concepts, nil
}

// SeedConcepts inserts base elements with no parents. Labels already
// present are left untouched.
func (s *KnowledgeStore) SeedConcepts(_ context.Context, labels []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, label := range labels {
		key := strings.ToLower(label)
		if _, ok := s.concepts[key]; ok {
			continue
		}
		s.concepts[key] = domain.Concept{
			ID:        uuid.New().String(),
			Label:     label,
			CreatedAt: now,
		}
	}
	return nil
}

// Close releases resources. No-op for the in-memory store.
func (s *KnowledgeStore) Close() error {
	return nil
}
