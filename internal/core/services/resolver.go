package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driven"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driving"
	"github.com/mikepeiman/elemental-craft/internal/logger"
	"github.com/mikepeiman/elemental-craft/internal/normaliser"
)

// Ensure Resolver implements the interface.
var _ driving.ResolverService = (*Resolver)(nil)

// Resolver orchestrates combination resolution: cache check, candidate
// generation, winner selection and the atomic commit.
//
// Every unordered pair triggers generation at most once across the
// system's lifetime. Concurrent resolutions of the same pair serialise on
// a per-key mutex; a commit conflict from another process is absorbed by
// re-reading the winning entry. Distinct pairs proceed fully in parallel.
//
// Self-combination is disallowed: resolving a label with itself fails with
// domain.ErrSelfCombination before any generation call.
type Resolver struct {
	store     driven.KnowledgeStore
	generator *Generator
	selector  *Selector
	norm      *normaliser.Normaliser
	locks     *keyedMutex
}

// NewResolver creates a resolver over the given store and engine stages.
func NewResolver(
	store driven.KnowledgeStore,
	generator *Generator,
	selector *Selector,
	norm *normaliser.Normaliser,
) *Resolver {
	return &Resolver{
		store:     store,
		generator: generator,
		selector:  selector,
		norm:      norm,
		locks:     newKeyedMutex(),
	}
}

// Resolve returns the concept the pair (labelA, labelB) combines into,
// generating and committing it if the pair is novel.
func (r *Resolver) Resolve(ctx context.Context, labelA, labelB string) (*domain.Concept, error) {
	labelA = strings.TrimSpace(labelA)
	labelB = strings.TrimSpace(labelB)

	if labelA == "" || labelB == "" {
		return nil, r.fail(labelA, labelB, "validate", domain.ErrInvalidInput)
	}
	if strings.EqualFold(labelA, labelB) {
		return nil, r.fail(labelA, labelB, "validate", domain.ErrSelfCombination)
	}

	key := domain.PairKey(labelA, labelB)

	// Read-through check before taking the key lock: the common case is
	// a pair that has already been resolved.
	if concept, err := r.lookup(ctx, key); err == nil {
		logger.Debug("Cache hit for %s", key)
		return concept, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, r.fail(labelA, labelB, "lookup", err)
	}

	unlock := r.locks.lock(key)
	defer unlock()

	// Another resolution may have committed while we waited for the lock.
	if concept, err := r.lookup(ctx, key); err == nil {
		logger.Debug("Cache hit for %s after lock", key)
		return concept, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, r.fail(labelA, labelB, "lookup", err)
	}

	logger.Section("Resolving " + key)
	attempts := r.generator.Generate(ctx, labelA, labelB)

	selection, err := r.selector.Select(ctx, labelA, labelB, attempts)
	if err != nil {
		return nil, r.fail(labelA, labelB, "select", err)
	}

	// Defence in depth: the selector's winner must already be canonical,
	// but the committed label is re-validated here regardless.
	label, err := r.norm.Normalise(selection.Winner)
	if err != nil {
		return nil, r.fail(labelA, labelB, "select", err)
	}

	// A winner that names an already-known concept is reused rather than
	// duplicated; only the combination entry is new in that case.
	concept, err := r.store.GetConcept(ctx, label)
	switch {
	case err == nil:
		logger.Debug("Result %q already known, reusing concept %s", label, concept.ID)
	case errors.Is(err, domain.ErrNotFound):
		concept = &domain.Concept{
			ID:         uuid.New().String(),
			Label:      label,
			Parents:    []string{labelA, labelB},
			Rationale:  selection.Rationale,
			Alternates: selection.Alternates,
			CreatedAt:  time.Now().UTC(),
		}
	default:
		return nil, r.fail(labelA, labelB, "commit", err)
	}

	combination := &domain.Combination{
		Key:         key,
		ResultLabel: label,
		CreatedAt:   time.Now().UTC(),
	}

	if err := r.store.CommitResolution(ctx, concept, combination); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Lost a commit race with another writer: discard our result
			// and return the winner's.
			logger.Debug("Commit conflict on %s, re-reading winner", key)
			concept, err = r.lookup(ctx, key)
			if err != nil {
				return nil, r.fail(labelA, labelB, "commit", err)
			}
			return concept, nil
		}
		return nil, r.fail(labelA, labelB, "commit", err)
	}

	logger.Info("Resolved %s + %s = %s", labelA, labelB, label)
	return concept, nil
}

// lookup reads the combination for key and resolves its concept.
func (r *Resolver) lookup(ctx context.Context, key string) (*domain.Concept, error) {
	combination, err := r.store.GetCombination(ctx, key)
	if err != nil {
		return nil, err
	}
	concept, err := r.store.GetConcept(ctx, combination.ResultLabel)
	if err != nil {
		return nil, fmt.Errorf("combination %s references missing concept %q: %w",
			key, combination.ResultLabel, err)
	}
	return concept, nil
}

// fail wraps an error with the pair and failed stage.
func (r *Resolver) fail(labelA, labelB, stage string, err error) error {
	return &domain.ResolutionError{LabelA: labelA, LabelB: labelB, Stage: stage, Err: err}
}
