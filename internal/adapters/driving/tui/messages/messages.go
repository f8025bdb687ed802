// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/mikepeiman/elemental-craft/internal/core/domain"
)

// CombineRequested is a command to resolve a pair of elements.
type CombineRequested struct {
	ElementA string
	ElementB string
}

// CombineCompleted carries the resolved concept back to the model.
type CombineCompleted struct {
	ElementA string
	ElementB string
	Concept  *domain.Concept
	Err      error
}

// ElementsLoaded carries the element collection from the service.
type ElementsLoaded struct {
	Concepts []domain.Concept
	Err      error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewCraft is the combination input and result view.
	ViewCraft ViewType = iota
	// ViewCollection lists every discovered element.
	ViewCollection
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewCraft:
		return "craft"
	case ViewCollection:
		return "collection"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
