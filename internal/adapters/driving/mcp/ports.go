package mcp

import (
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
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
	// Elements is optional; the collection tool and resource degrade
	// to empty listings without it.
	return nil
}
