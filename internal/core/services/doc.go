// Package services implements the core combination engine: candidate
// generation across a model pool, winner selection, and the resolver that
// ties cache lookup, generation and the atomic commit together.
//
// Services depend only on domain types and driven ports; all I/O goes
// through adapters injected at construction time.
package services
