package domain

import (
	"strings"
	"time"
)

// Concept represents a named game element, either a seed element or the
// result of a prior combination. Concepts are append-only: once created they
// are never mutated and never deleted in normal operation.
type Concept struct {
	// ID is the unique identifier for the concept.
	ID string

	// Label is the canonical display string (title case, 1-3 words).
	// Labels are unique within the knowledge base by case-insensitive
	// comparison.
	Label string

	// Parents holds the ordered pair of labels this concept was derived
	// from. Empty for seed concepts. Immutable once set.
	Parents []string

	// Rationale optionally explains why this concept resulted from its
	// parents. Typically set by the adjudication step.
	Rationale string

	// Alternates holds other candidate labels that were considered but
	// not chosen, in the order they were first seen.
	Alternates []string

	// CreatedAt is when the concept was first resolved.
	CreatedAt time.Time
}

// IsSeed returns true if this concept is a base element with no parents.
func (c *Concept) IsSeed() bool {
	return len(c.Parents) == 0
}

// Combination maps an unordered pair of parent labels to the label of the
// concept it resolved to. The mapping is append-only: a key is written at
// most once and never overwritten with a different result, which keeps the
// game deterministic per pair.
type Combination struct {
	// Key is the normalised unordered pair key. See PairKey.
	Key string

	// ResultLabel references the resulting Concept's label.
	ResultLabel string

	// CreatedAt is when the combination was committed.
	CreatedAt time.Time
}

// pairKeySeparator joins the two halves of a pair key. It cannot appear in
// a valid label, so keys parse unambiguously.
const pairKeySeparator = "+"

// PairKey computes the canonical key for an unordered pair of labels.
// The key is commutative: PairKey(a, b) == PairKey(b, a) for all labels.
// Labels are lowercased and trimmed so "Fire" and "fire" share a key.
func PairKey(labelA, labelB string) string {
	a := strings.ToLower(strings.TrimSpace(labelA))
	b := strings.ToLower(strings.TrimSpace(labelB))
	if b < a {
		a, b = b, a
	}
	return a + pairKeySeparator + b
}

// SeedLabels returns the labels of the base elements every collection
// starts with.
func SeedLabels() []string {
	return []string{"Water", "Fire", "Earth", "Wind", "Spirit"}
}

// GenerationAttempt records the outcome of a single model call during
// candidate generation. Attempts are ephemeral: they live only for the
// duration of one resolution and are never persisted.
type GenerationAttempt struct {
	// Model identifies the model that was asked.
	Model string

	// RawOutput is the unprocessed model output. Empty when the attempt
	// failed.
	RawOutput string

	// Success reports whether the attempt produced usable output.
	Success bool

	// Err holds the captured error message for a failed attempt.
	Err string
}

// Selection is the outcome of choosing a winner among candidate outputs.
type Selection struct {
	// Winner is the normalised winning label.
	Winner string

	// Rationale optionally explains the choice.
	Rationale string

	// Alternates holds all distinct normalised candidates that were
	// considered, including the winner, in insertion order.
	Alternates []string
}

// SelectionMode determines how a winner is chosen from generation attempts.
type SelectionMode string

// Available selection modes.
const (
	// SelectionDirect trusts the first successful attempt.
	SelectionDirect SelectionMode = "direct"

	// SelectionAdjudicated issues a secondary adjudication call to pick
	// the best candidate among all successful attempts.
	SelectionAdjudicated SelectionMode = "adjudicated"
)

// IsValid returns true if the selection mode is recognised.
func (m SelectionMode) IsValid() bool {
	switch m {
	case SelectionDirect, SelectionAdjudicated:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m SelectionMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m SelectionMode) Description() string {
	switch m {
	case SelectionDirect:
		return "direct (first successful model wins)"
	case SelectionAdjudicated:
		return "adjudicated (a second model picks the best candidate)"
	default:
		return unknownDescription
	}
}

// AllSelectionModes returns every selection mode, in menu order.
func AllSelectionModes() []SelectionMode {
	return []SelectionMode{SelectionAdjudicated, SelectionDirect}
}

// BatchSummary reports the outcome of a batch generation run.
type BatchSummary struct {
	// Attempted is the number of pairs the driver picked.
	Attempted int

	// Resolved is the number of newly committed combinations.
	Resolved int

	// CacheHits is the number of pairs already present in the store.
	CacheHits int

	// Failed is the number of resolutions that returned an error.
	Failed int

	// Stopped reports whether the run ended early via Stop or
	// context cancellation.
	Stopped bool
}
