package services

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driven"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driving"
	"github.com/mikepeiman/elemental-craft/internal/logger"
)

// Ensure Batch implements the interface.
var _ driving.BatchDriver = (*Batch)(nil)

// Batch drives randomised exploration of the combination space. Each
// iteration picks two distinct known concepts at random and resolves them,
// growing the knowledge base as novel pairs land.
//
// A run is cooperative: Stop (or context cancellation) is honoured between
// resolutions, never mid-resolution. At most one run is active at a time.
type Batch struct {
	resolver driving.ResolverService
	store    driven.KnowledgeStore
	cfg      domain.BatchSettings

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewBatch creates a batch driver over the resolver and store.
func NewBatch(resolver driving.ResolverService, store driven.KnowledgeStore, cfg domain.BatchSettings) *Batch {
	return &Batch{
		resolver: resolver,
		store:    store,
		cfg:      cfg,
	}
}

// Run resolves up to count random pairs and returns a summary of the run.
// Returns domain.ErrBatchInProgress if a run is already active.
func (b *Batch) Run(ctx context.Context, count int) (domain.BatchSummary, error) {
	if count <= 0 {
		return domain.BatchSummary{}, domain.ErrInvalidInput
	}

	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return domain.BatchSummary{}, domain.ErrBatchInProgress
	}
	b.running = true
	b.stopCh = make(chan struct{})
	stopCh := b.stopCh
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.running = false
		b.mu.Unlock()
	}()

	workers := b.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > count {
		workers = count
	}

	logger.Section("Batch run")
	logger.Info("Resolving %d random pairs with %d worker(s)", count, workers)

	jobs := make(chan struct{})
	results := make(chan batchResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				results <- b.resolveRandom(ctx)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < count; i++ {
			if i > 0 && b.cfg.Delay > 0 {
				select {
				case <-time.After(b.cfg.Delay):
				case <-stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
			select {
			case jobs <- struct{}{}:
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var summary domain.BatchSummary
	for res := range results {
		summary.Attempted++
		switch {
		case res.err != nil:
			summary.Failed++
			logger.Warn("Batch pair failed: %v", res.err)
		case res.cacheHit:
			summary.CacheHits++
		default:
			summary.Resolved++
		}
	}

	select {
	case <-stopCh:
		summary.Stopped = true
	case <-ctx.Done():
		summary.Stopped = true
	default:
	}

	logger.Info("Batch done: %d attempted, %d resolved, %d cache hits, %d failed",
		summary.Attempted, summary.Resolved, summary.CacheHits, summary.Failed)
	return summary, nil
}

// Stop requests a cooperative stop of the active run. Safe to call when
// no run is active.
func (b *Batch) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running && b.stopCh != nil {
		select {
		case <-b.stopCh:
		default:
			close(b.stopCh)
		}
	}
}

type batchResult struct {
	cacheHit bool
	err      error
}

// resolveRandom picks two distinct known concepts and resolves them.
func (b *Batch) resolveRandom(ctx context.Context) batchResult {
	concepts, err := b.store.ListConcepts(ctx)
	if err != nil {
		return batchResult{err: err}
	}
	if len(concepts) < 2 {
		return batchResult{err: domain.ErrInvalidInput}
	}

	i := rand.Intn(len(concepts))
	j := rand.Intn(len(concepts) - 1)
	if j >= i {
		j++
	}
	a, c := concepts[i].Label, concepts[j].Label

	key := domain.PairKey(a, c)
	cached := false
	if _, err := b.store.GetCombination(ctx, key); err == nil {
		cached = true
	} else if !errors.Is(err, domain.ErrNotFound) {
		return batchResult{err: err}
	}

	if _, err := b.resolver.Resolve(ctx, a, c); err != nil {
		return batchResult{err: err}
	}
	return batchResult{cacheHit: cached}
}
