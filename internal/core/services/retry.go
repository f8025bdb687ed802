package services

import (
	"context"
	"errors"
	"time"

	"github.com/mikepeiman/elemental-craft/internal/core/ports/driven"
	"github.com/mikepeiman/elemental-craft/internal/logger"
)

// retryBaseDelay is the backoff before the first retry; it doubles on each
// subsequent retry.
const retryBaseDelay = 250 * time.Millisecond

// generateWithRetry issues one generation request, retrying transient
// provider failures up to maxRetries times with exponential backoff.
// Permanent failures (4xx other than 408/429) and context cancellation
// return immediately. The caller bounds total time via ctx.
func generateWithRetry(
	ctx context.Context,
	svc driven.LLMService,
	prompt string,
	opts driven.GenerateOptions,
	maxRetries int,
) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			logger.Debug("Retrying %s in %v (attempt %d/%d)", svc.ModelName(), delay, attempt, maxRetries)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		out, err := svc.Generate(ctx, prompt, opts)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", lastErr
		}
		if !isTransient(err) {
			return "", lastErr
		}
	}

	return "", lastErr
}

// isTransient reports whether an error is worth retrying. Structured
// provider errors carry their own classification; anything else (transport
// failures, unexpected response shapes) is treated as transient.
func isTransient(err error) bool {
	var provErr *driven.ProviderError
	if errors.As(err, &provErr) {
		return provErr.Transient()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
