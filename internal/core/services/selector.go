package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driven"
	"github.com/mikepeiman/elemental-craft/internal/logger"
	"github.com/mikepeiman/elemental-craft/internal/normaliser"
)

// Adjudication asks for a label plus a short explanation, so it needs more
// room and less randomness than candidate generation.
const (
	adjudicateMaxTokens   = 120
	adjudicateTemperature = 0.2
)

// fallbackRationale marks a winner chosen deterministically because the
// adjudication call failed.
const fallbackRationale = "fallback: adjudication unavailable"

// Selector picks a single winning label from generation attempts.
//
// In direct mode the first valid candidate is trusted. In adjudicated mode
// all valid candidates are deduplicated into an alternates set and a
// secondary adjudication request picks the winner; if that request fails,
// the first alternate wins deterministically. The selector never returns
// an empty winner: an attempt set with no valid candidate is reported as
// *domain.NoCandidatesError.
type Selector struct {
	adjudicator driven.LLMService
	prompts     driven.PromptStore
	norm        *normaliser.Normaliser
	cfg         domain.EngineSettings
}

// NewSelector creates a selector. The adjudicator is only used in
// adjudicated mode and may be nil, which forces direct selection.
func NewSelector(
	adjudicator driven.LLMService,
	prompts driven.PromptStore,
	norm *normaliser.Normaliser,
	cfg domain.EngineSettings,
) *Selector {
	return &Selector{
		adjudicator: adjudicator,
		prompts:     prompts,
		norm:        norm,
		cfg:         cfg,
	}
}

// Select chooses the winning label for the pair from the given attempts.
func (s *Selector) Select(
	ctx context.Context,
	labelA, labelB string,
	attempts []domain.GenerationAttempt,
) (*domain.Selection, error) {
	candidates, failedModels := s.collectCandidates(attempts)
	if len(candidates) == 0 {
		return nil, &domain.NoCandidatesError{Models: failedModels}
	}

	if s.cfg.Mode != domain.SelectionAdjudicated || s.adjudicator == nil || len(candidates) == 1 {
		return &domain.Selection{
			Winner:     candidates[0],
			Alternates: candidates,
		}, nil
	}

	return s.adjudicate(ctx, labelA, labelB, candidates), nil
}

// collectCandidates normalises successful attempts and deduplicates them
// case-insensitively, preserving insertion order. Attempts whose output
// fails normalisation count as failed, same as provider errors.
func (s *Selector) collectCandidates(attempts []domain.GenerationAttempt) (candidates, failedModels []string) {
	seen := make(map[string]bool)

	for _, attempt := range attempts {
		if !attempt.Success {
			failedModels = append(failedModels, attempt.Model)
			continue
		}

		label, err := s.norm.Normalise(attempt.RawOutput)
		if err != nil {
			logger.Warn("Discarding candidate from %s: %v", attempt.Model, err)
			failedModels = append(failedModels, attempt.Model)
			continue
		}

		key := strings.ToLower(label)
		if !seen[key] {
			seen[key] = true
			candidates = append(candidates, label)
		}
	}
	return candidates, failedModels
}

// adjudicate issues the secondary request that picks among candidates.
// A failed adjudication falls back deterministically to the first
// candidate rather than failing the selection.
func (s *Selector) adjudicate(ctx context.Context, labelA, labelB string, candidates []string) *domain.Selection {
	selection := &domain.Selection{
		Winner:     candidates[0],
		Alternates: candidates,
	}

	prompt := fmt.Sprintf(
		loadPrompt(s.prompts, driven.PromptAdjudicate),
		labelA, labelB, "- "+strings.Join(candidates, "\n- "),
	)
	opts := driven.GenerateOptions{
		System:      loadPrompt(s.prompts, driven.PromptSystem),
		MaxTokens:   adjudicateMaxTokens,
		Temperature: adjudicateTemperature,
	}

	adjCtx := ctx
	if s.cfg.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		adjCtx, cancel = context.WithTimeout(ctx, s.cfg.AttemptTimeout)
		defer cancel()
	}

	out, err := generateWithRetry(adjCtx, s.adjudicator, prompt, opts, s.cfg.MaxRetries)
	if err != nil {
		logger.Warn("Adjudication via %s failed: %v", s.adjudicator.ModelName(), err)
		selection.Rationale = fallbackRationale
		return selection
	}

	result, explanation := extractResult(out)
	winner, err := s.norm.Normalise(result)
	if err != nil {
		logger.Warn("Adjudication output invalid, falling back: %v", err)
		selection.Rationale = fallbackRationale
		return selection
	}

	selection.Winner = winner
	selection.Rationale = explanation
	if !containsFold(candidates, winner) {
		// The adjudicator occasionally answers with a fresh label rather
		// than one of the listed candidates; record it as considered.
		selection.Alternates = append(selection.Alternates, winner)
	}
	return selection
}

// containsFold reports whether list contains s case-insensitively.
func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
