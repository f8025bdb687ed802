// Package domain defines the core business entities for Elemental Craft.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Concept: A named game element, seed or derived
//   - Combination: An unordered pair of labels and its resolved result
//   - GenerationAttempt: One model call's outcome during resolution
//   - Selection: The winner chosen among candidate outputs
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
