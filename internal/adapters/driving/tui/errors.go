package tui

import "errors"

// ErrMissingResolverService is returned when the resolver service is not provided.
var ErrMissingResolverService = errors.New("tui: resolver service is required")

// ErrMissingElementService is returned when the element service is not provided.
var ErrMissingElementService = errors.New("tui: element service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
