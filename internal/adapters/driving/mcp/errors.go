// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants combine elements and browse the collection over
// the same ports the CLI uses.
package mcp

import "errors"

// ErrMissingResolverService is returned when the resolver service is not provided.
var ErrMissingResolverService = errors.New("mcp: resolver service is required")
