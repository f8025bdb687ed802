package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists. The knowledge
	// store returns this when a combination key is committed twice; the
	// resolver absorbs it by re-reading the winning entry.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSelfCombination indicates both input labels name the same concept.
	// Self-combination is disallowed: the pair is permanently invalid and
	// retrying will not help.
	ErrSelfCombination = errors.New("self-combination not allowed")

	// ErrMalformedOutput indicates model output failed label validation
	// after all cleanup heuristics. The attempt is treated as failed; a
	// guessed value is never substituted.
	ErrMalformedOutput = errors.New("malformed model output")

	// ErrNoCandidates indicates every generation attempt failed and no
	// usable candidate exists. Callers may retry the whole resolution.
	ErrNoCandidates = errors.New("no usable candidates")

	// ErrLLMUnavailable indicates no LLM provider is configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrBatchInProgress indicates a batch run is already active.
	ErrBatchInProgress = errors.New("batch generation in progress")
)

// NoCandidatesError reports that all generation attempts for a pair failed.
// It carries the list of models that were asked so callers can log or
// display which upstreams were at fault.
type NoCandidatesError struct {
	// Models lists the model identifiers whose attempts failed.
	Models []string
}

// Error implements the error interface.
func (e *NoCandidatesError) Error() string {
	if len(e.Models) == 0 {
		return ErrNoCandidates.Error()
	}
	return fmt.Sprintf("%s (models: %s)", ErrNoCandidates, strings.Join(e.Models, ", "))
}

// Unwrap allows errors.Is(err, ErrNoCandidates) to match.
func (e *NoCandidatesError) Unwrap() error {
	return ErrNoCandidates
}

// ResolutionError reports a failed resolution of a specific pair, carrying
// the stage that failed. Structural errors (invalid pair, no candidates)
// propagate wrapped in a ResolutionError so callers can distinguish "try
// again later" from "this pair is permanently invalid".
type ResolutionError struct {
	// LabelA and LabelB are the input labels as given by the caller.
	LabelA string
	LabelB string

	// Stage names the resolution stage that failed: "validate",
	// "generate", "select" or "commit".
	Stage string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q + %q: %s: %v", e.LabelA, e.LabelB, e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}
