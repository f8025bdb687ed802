package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driven"
	"github.com/mikepeiman/elemental-craft/internal/logger"
)

// Generator issues candidate-generation requests across the model pool.
// Attempts run concurrently, each bounded by the configured per-attempt
// timeout, and the returned slice preserves pool order. A failed attempt
// never aborts the others; all-failed is a valid outcome, not a fault.
type Generator struct {
	pool    []driven.LLMService
	prompts driven.PromptStore
	cfg     domain.EngineSettings
}

// NewGenerator creates a candidate generator over the given model pool.
// The prompts store is optional; nil uses embedded defaults.
func NewGenerator(pool []driven.LLMService, prompts driven.PromptStore, cfg domain.EngineSettings) *Generator {
	return &Generator{
		pool:    pool,
		prompts: prompts,
		cfg:     cfg,
	}
}

// Models returns the model identifiers in the pool, in order.
func (g *Generator) Models() []string {
	models := make([]string, len(g.pool))
	for i, svc := range g.pool {
		models[i] = svc.ModelName()
	}
	return models
}

// Generate asks every model in the pool to combine the pair, concurrently.
// Each attempt records its own success or captured error; output goes
// through best-effort structured extraction so JSON-wrapped answers are
// unwrapped before selection.
func (g *Generator) Generate(ctx context.Context, labelA, labelB string) []domain.GenerationAttempt {
	prompt := fmt.Sprintf(loadPrompt(g.prompts, driven.PromptCombine), labelA, labelB)
	opts := driven.GenerateOptions{
		System:      loadPrompt(g.prompts, driven.PromptSystem),
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	attempts := make([]domain.GenerationAttempt, len(g.pool))
	var wg sync.WaitGroup
	for i, svc := range g.pool {
		wg.Add(1)
		go func(i int, svc driven.LLMService) {
			defer wg.Done()
			attempts[i] = g.attempt(ctx, svc, prompt, opts)
		}(i, svc)
	}
	wg.Wait()

	return attempts
}

// attempt runs one bounded, retried generation request against one model.
func (g *Generator) attempt(
	ctx context.Context,
	svc driven.LLMService,
	prompt string,
	opts driven.GenerateOptions,
) domain.GenerationAttempt {
	attempt := domain.GenerationAttempt{Model: svc.ModelName()}

	attemptCtx := ctx
	if g.cfg.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, g.cfg.AttemptTimeout)
		defer cancel()
	}

	out, err := generateWithRetry(attemptCtx, svc, prompt, opts, g.cfg.MaxRetries)
	if err != nil {
		logger.Warn("Generation via %s failed: %v", svc.ModelName(), err)
		attempt.Err = err.Error()
		return attempt
	}

	result, _ := extractResult(out)
	if result == "" {
		logger.Warn("Generation via %s returned empty content", svc.ModelName())
		attempt.Err = "empty content"
		return attempt
	}

	logger.Debug("Candidate from %s: %q", svc.ModelName(), result)
	attempt.RawOutput = result
	attempt.Success = true
	return attempt
}
