// Package tui provides the interactive play interface for Elemental.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Resolver resolves element combinations.
	Resolver driving.ResolverService

	// Elements exposes the element collection.
	Elements driving.ElementService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Resolver == nil {
		return ErrMissingResolverService
	}
	if p.Elements == nil {
		return ErrMissingElementService
	}
	return nil
}
