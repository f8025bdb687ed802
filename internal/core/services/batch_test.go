package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikepeiman/elemental-craft/internal/adapters/driven/storage/memory"
	"github.com/mikepeiman/elemental-craft/internal/core/domain"
)

func testBatchSettings() domain.BatchSettings {
	return domain.BatchSettings{Delay: 0, Workers: 1}
}

// blockingResolver implements driving.ResolverService and blocks until
// released, so tests can observe an in-flight run.
type blockingResolver struct {
	release chan struct{}
	inner   *Resolver
}

func (r *blockingResolver) Resolve(ctx context.Context, a, b string) (*domain.Concept, error) {
	select {
	case <-r.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return r.inner.Resolve(ctx, a, b)
}

func TestBatch_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the requested number of pairs", func(t *testing.T) {
		store := memory.NewKnowledgeStore()
		require.NoError(t, store.SeedConcepts(ctx, domain.SeedLabels()))
		resolver := newTestResolver(store, newMockLLM("model-a", "Steam"))
		batch := NewBatch(resolver, store, testBatchSettings())

		summary, err := batch.Run(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, summary.Attempted)
		assert.Equal(t, 5, summary.Resolved+summary.CacheHits)
		assert.Zero(t, summary.Failed)
		assert.False(t, summary.Stopped)
	})

	t.Run("already-resolved pairs count as cache hits", func(t *testing.T) {
		store := memory.NewKnowledgeStore()
		require.NoError(t, store.SeedConcepts(ctx, []string{"Fire", "Water"}))
		// The result reuses an existing label, so the concept count stays
		// at two and fire+water remains the only possible pick.
		resolver := newTestResolver(store, newMockLLM("model-a", "Fire"))
		batch := NewBatch(resolver, store, testBatchSettings())
		summary, err := batch.Run(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, 4, summary.Attempted)
		assert.Equal(t, 1, summary.Resolved)
		assert.Equal(t, 3, summary.CacheHits)
	})

	t.Run("failed resolutions are counted not fatal", func(t *testing.T) {
		store := memory.NewKnowledgeStore()
		require.NoError(t, store.SeedConcepts(ctx, domain.SeedLabels()))
		resolver := newTestResolver(store, newMockLLM("model-a", "this output is always far too long to pass"))
		batch := NewBatch(resolver, store, testBatchSettings())

		summary, err := batch.Run(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, summary.Attempted)
		assert.Equal(t, 3, summary.Failed)
	})

	t.Run("store errors are counted as failures", func(t *testing.T) {
		inner := memory.NewKnowledgeStore()
		store := &failingStore{KnowledgeStore: inner, listErr: errors.New("db closed")}
		resolver := newTestResolver(inner, newMockLLM("model-a", "Steam"))
		batch := NewBatch(resolver, store, testBatchSettings())

		summary, err := batch.Run(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Failed)
	})

	t.Run("fewer than two concepts fails each pick", func(t *testing.T) {
		store := memory.NewKnowledgeStore()
		require.NoError(t, store.SeedConcepts(ctx, []string{"Fire"}))
		resolver := newTestResolver(store, newMockLLM("model-a", "Steam"))
		batch := NewBatch(resolver, store, testBatchSettings())

		summary, err := batch.Run(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Failed)
	})

	t.Run("non-positive count is invalid", func(t *testing.T) {
		store := memory.NewKnowledgeStore()
		resolver := newTestResolver(store, newMockLLM("model-a", "Steam"))
		batch := NewBatch(resolver, store, testBatchSettings())

		_, err := batch.Run(ctx, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("multiple workers complete the run", func(t *testing.T) {
		store := memory.NewKnowledgeStore()
		require.NoError(t, store.SeedConcepts(ctx, domain.SeedLabels()))
		resolver := newTestResolver(store, newMockLLM("model-a", "Steam"))
		batch := NewBatch(resolver, store, domain.BatchSettings{Workers: 4})

		summary, err := batch.Run(ctx, 8)
		require.NoError(t, err)
		assert.Equal(t, 8, summary.Attempted)
		assert.Zero(t, summary.Failed)
	})
}

func TestBatch_Run_OnlyOneActive(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKnowledgeStore()
	require.NoError(t, store.SeedConcepts(ctx, domain.SeedLabels()))

	blocking := &blockingResolver{
		release: make(chan struct{}),
		inner:   newTestResolver(store, newMockLLM("model-a", "Steam")),
	}
	batch := NewBatch(blocking, store, testBatchSettings())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := batch.Run(ctx, 1)
		assert.NoError(t, err)
	}()

	// Wait for the first run to be in flight.
	require.Eventually(t, func() bool {
		_, err := batch.Run(ctx, 1)
		return errors.Is(err, domain.ErrBatchInProgress)
	}, time.Second, 5*time.Millisecond)

	close(blocking.release)
	<-done

	// A finished run releases the slot.
	summary, err := batch.Run(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Attempted)
}

func TestBatch_Stop(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKnowledgeStore()
	require.NoError(t, store.SeedConcepts(ctx, domain.SeedLabels()))

	blocking := &blockingResolver{
		release: make(chan struct{}),
		inner:   newTestResolver(store, newMockLLM("model-a", "Steam")),
	}
	cfg := domain.BatchSettings{Delay: time.Millisecond, Workers: 1}
	batch := NewBatch(blocking, store, cfg)

	type result struct {
		summary domain.BatchSummary
		err     error
	}
	done := make(chan result, 1)
	go func() {
		summary, err := batch.Run(ctx, 1000)
		done <- result{summary, err}
	}()

	time.Sleep(20 * time.Millisecond)
	batch.Stop()
	close(blocking.release)

	res := <-done
	require.NoError(t, res.err)
	assert.True(t, res.summary.Stopped)
	assert.Less(t, res.summary.Attempted, 1000)

	// Stop with no active run is a no-op.
	batch.Stop()
}

func TestBatch_Run_ContextCancellation(t *testing.T) {
	store := memory.NewKnowledgeStore()
	require.NoError(t, store.SeedConcepts(context.Background(), domain.SeedLabels()))
	resolver := newTestResolver(store, newMockLLM("model-a", "Steam"))
	batch := NewBatch(resolver, store, domain.BatchSettings{Delay: time.Millisecond, Workers: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	summary, err := batch.Run(ctx, 100000)
	require.NoError(t, err)
	assert.True(t, summary.Stopped)
	assert.Less(t, summary.Attempted, 100000)
}
