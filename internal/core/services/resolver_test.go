package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikepeiman/elemental-craft/internal/adapters/driven/storage/memory"
	"github.com/mikepeiman/elemental-craft/internal/core/domain"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driven"
	"github.com/mikepeiman/elemental-craft/internal/normaliser"
)

// newTestResolver wires a resolver over the in-memory store and the given
// pool, with direct selection so tests control the winner deterministically.
func newTestResolver(store driven.KnowledgeStore, pool ...driven.LLMService) *Resolver {
	cfg := testEngineSettings()
	cfg.Mode = domain.SelectionDirect
	norm := normaliser.New(normaliser.DefaultConfig())
	return NewResolver(
		store,
		NewGenerator(pool, nil, cfg),
		NewSelector(nil, nil, norm, cfg),
		norm,
	)
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("novel pair generates and commits", func(t *testing.T) {
		store := memory.NewKnowledgeStore()
		llm := newMockLLM("model-a", "steam")
		resolver := newTestResolver(store, llm)

		concept, err := resolver.Resolve(ctx, "Fire", "Water")
		require.NoError(t, err)
		assert.Equal(t, "Steam", concept.Label)
		assert.Equal(t, []string{"Fire", "Water"}, concept.Parents)
		assert.NotEmpty(t, concept.ID)
		assert.False(t, concept.CreatedAt.IsZero())

		combination, err := store.GetCombination(ctx, domain.PairKey("Fire", "Water"))
		require.NoError(t, err)
		assert.Equal(t, "Steam", combination.ResultLabel)
	})

	t.Run("cached pair skips generation", func(t *testing.T) {
		store := memory.NewKnowledgeStore()
		llm := newMockLLM("model-a", "Steam")
		resolver := newTestResolver(store, llm)

		first, err := resolver.Resolve(ctx, "Fire", "Water")
		require.NoError(t, err)

		second, err := resolver.Resolve(ctx, "Fire", "Water")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, llm.callCount())
	})

	t.Run("resolution is commutative", func(t *testing.T) {
		store := memory.NewKnowledgeStore()
		llm := newMockLLM("model-a", "Steam")
		resolver := newTestResolver(store, llm)

		first, err := resolver.Resolve(ctx, "Fire", "Water")
		require.NoError(t, err)

		reversed, err := resolver.Resolve(ctx, "water", "FIRE")
		require.NoError(t, err)
		assert.Equal(t, first.ID, reversed.ID)
		assert.Equal(t, 1, llm.callCount())
	})

	t.Run("self-combination is rejected", func(t *testing.T) {
		store := memory.NewKnowledgeStore()
		llm := newMockLLM("model-a", "Steam")
		resolver := newTestResolver(store, llm)

		_, err := resolver.Resolve(ctx, "Fire", "fire")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSelfCombination)

		var resErr *domain.ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, "validate", resErr.Stage)
		assert.Equal(t, 0, llm.callCount())
	})

	t.Run("empty labels are rejected", func(t *testing.T) {
		resolver := newTestResolver(memory.NewKnowledgeStore(), newMockLLM("model-a", "Steam"))

		_, err := resolver.Resolve(ctx, "  ", "Water")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("all attempts failed commits nothing", func(t *testing.T) {
		store := memory.NewKnowledgeStore()
		provErr := &driven.ProviderError{Provider: "openai", StatusCode: 401, Message: "invalid key"}
		resolver := newTestResolver(store, newMockLLMErr("model-a", provErr))

		_, err := resolver.Resolve(ctx, "Fire", "Water")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNoCandidates)

		var resErr *domain.ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, "select", resErr.Stage)

		// No placeholder entry may appear for the failed pair.
		_, err = store.GetCombination(ctx, domain.PairKey("Fire", "Water"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("failed pair can be retried later", func(t *testing.T) {
		store := memory.NewKnowledgeStore()
		provErr := &driven.ProviderError{Provider: "openai", StatusCode: 401, Message: "invalid key"}
		llm := &mockLLM{
			model: "model-a",
			responses: []mockResponse{
				{err: provErr},
				{output: "Steam"},
			},
		}
		resolver := newTestResolver(store, llm)

		_, err := resolver.Resolve(ctx, "Fire", "Water")
		require.Error(t, err)

		concept, err := resolver.Resolve(ctx, "Fire", "Water")
		require.NoError(t, err)
		assert.Equal(t, "Steam", concept.Label)
	})

	t.Run("existing label is reused not duplicated", func(t *testing.T) {
		store := memory.NewKnowledgeStore()
		require.NoError(t, store.SeedConcepts(ctx, []string{"Fire", "Water", "Steam"}))
		resolver := newTestResolver(store, newMockLLM("model-a", "Steam"))

		existing, err := store.GetConcept(ctx, "Steam")
		require.NoError(t, err)

		concept, err := resolver.Resolve(ctx, "Fire", "Water")
		require.NoError(t, err)
		assert.Equal(t, "Steam", concept.Label)
		assert.Equal(t, existing.ID, concept.ID)

		concepts, err := store.ListConcepts(ctx)
		require.NoError(t, err)
		assert.Len(t, concepts, 3)
	})

	t.Run("commit conflict returns the winning entry", func(t *testing.T) {
		inner := memory.NewKnowledgeStore()
		// Simulate another process winning the commit race.
		winner := &domain.Concept{ID: "other", Label: "Mist"}
		combination := &domain.Combination{Key: domain.PairKey("Fire", "Water"), ResultLabel: "Mist"}

		store := &failingStore{
			KnowledgeStore: inner,
			commitErr:      domain.ErrAlreadyExists,
		}
		resolver := newTestResolver(store, newMockLLM("model-a", "Steam"))

		require.NoError(t, inner.CommitResolution(ctx, winner, combination))

		concept, err := resolver.Resolve(ctx, "Fire", "Water")
		require.NoError(t, err)
		assert.Equal(t, "Mist", concept.Label)
	})

	t.Run("commit failure is surfaced", func(t *testing.T) {
		store := &failingStore{
			KnowledgeStore: memory.NewKnowledgeStore(),
			commitErr:      errors.New("disk full"),
		}
		resolver := newTestResolver(store, newMockLLM("model-a", "Steam"))

		_, err := resolver.Resolve(ctx, "Fire", "Water")
		require.Error(t, err)

		var resErr *domain.ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, "commit", resErr.Stage)
	})
}

func TestResolver_Resolve_ConcurrentSamePair(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKnowledgeStore()
	llm := newMockLLM("model-a", "Steam")
	resolver := newTestResolver(store, llm)

	const goroutines = 16
	results := make([]*domain.Concept, goroutines)
	errs := make([]error, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = resolver.Resolve(ctx, "Fire", "Water")
		}(i)
	}
	wg.Wait()

	for i := 0; i < goroutines; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].ID, results[i].ID)
	}

	// Generation ran at most once across all concurrent resolutions.
	assert.Equal(t, 1, llm.callCount())
}

func TestResolver_Resolve_DistinctPairsInParallel(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKnowledgeStore()

	llm := &mockLLM{
		model:     "model-a",
		responses: []mockResponse{{output: "Steam"}},
	}
	resolver := newTestResolver(store, llm)

	pairs := [][2]string{
		{"Fire", "Water"},
		{"Earth", "Wind"},
		{"Fire", "Earth"},
		{"Water", "Wind"},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(pairs))
	for i, pair := range pairs {
		wg.Add(1)
		go func(i int, a, b string) {
			defer wg.Done()
			_, errs[i] = resolver.Resolve(ctx, a, b)
		}(i, pair[0], pair[1])
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, len(pairs), llm.callCount())
}
