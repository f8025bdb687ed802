// Package collection provides the element collection view for the TUI.
package collection

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/tui/components/list"
	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/tui/messages"
	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/tui/styles"
	"github.com/mikepeiman/elemental-craft/internal/core/domain"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driving"
)

// ErrNoElementService is returned when the view has no element service wired in.
var ErrNoElementService = errors.New("collection: element service not available")

// View lists every discovered element with its origin pair.
type View struct {
	styles      *styles.Styles
	elements    driving.ElementService
	ctx         context.Context
	elementList *list.ElementList
	err         error

	width  int
	height int
}

// NewView creates a new collection view.
func NewView(s *styles.Styles, elements driving.ElementService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:      s,
		elements:    elements,
		ctx:         context.Background(),
		elementList: list.NewElementList(s),
		width:       80,
		height:      24,
	}
}

// WithContext sets the context used for listing.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init triggers the initial collection load.
func (v *View) Init() tea.Cmd {
	return v.Load()
}

// Load fetches the collection asynchronously.
func (v *View) Load() tea.Cmd {
	return func() tea.Msg {
		if v.elements == nil {
			return messages.ErrorOccurred{Err: ErrNoElementService}
		}
		concepts, err := v.elements.List(v.ctx)
		return messages.ElementsLoaded{Concepts: concepts, Err: err}
	}
}

// Update handles messages for the collection view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ElementsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.elementList.SetConcepts(msg.Concepts)
		return v, nil
	}

	var cmd tea.Cmd
	v.elementList, cmd = v.elementList.Update(msg)
	return v, cmd
}

// View renders the collection.
func (v *View) View() string {
	var b strings.Builder

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(v.elementList.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.elementList.SetDimensions(width, height-2)
}

// SelectedConcept returns the selected element, or nil.
func (v *View) SelectedConcept() *domain.Concept {
	return v.elementList.SelectedConcept()
}

// Count returns the number of elements in the list.
func (v *View) Count() int {
	return v.elementList.Count()
}

// Err returns the last error, or nil.
func (v *View) Err() error {
	return v.err
}
