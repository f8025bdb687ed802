// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/tui/styles"
	"github.com/mikepeiman/elemental-craft/internal/core/domain"
)

// ElementList displays the element collection in a navigable list.
type ElementList struct {
	concepts []domain.Concept
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewElementList creates a new element list component.
func NewElementList(s *styles.Styles) *ElementList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ElementList{
		concepts: nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the element list.
func (e *ElementList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (e *ElementList) Update(msg tea.Msg) (*ElementList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			e.MoveUp()
		case "down", "j":
			e.MoveDown()
		}
	}
	return e, nil
}

// View renders the element list.
func (e *ElementList) View() string {
	if len(e.concepts) == 0 {
		return e.styles.Muted.Render("No elements")
	}

	lines := make([]string, 0, len(e.concepts)+2)

	header := e.styles.Subtitle.Render(fmt.Sprintf("Collection (%d)", len(e.concepts)))
	lines = append(lines, header, "")

	visibleCount := e.height - 4
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if e.selected >= visibleCount {
		start = e.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(e.concepts) {
		end = len(e.concepts)
	}

	for i := start; i < end; i++ {
		lines = append(lines, e.renderElement(i, &e.concepts[i]))
	}

	return strings.Join(lines, "\n")
}

// renderElement formats a single element line.
func (e *ElementList) renderElement(index int, concept *domain.Concept) string {
	indicator := "  "
	if index == e.selected {
		indicator = "> "
	}

	origin := "seed"
	if !concept.IsSeed() {
		origin = strings.Join(concept.Parents, " + ")
	}

	maxLabelLen := e.width - len(origin) - 8
	if maxLabelLen < 10 {
		maxLabelLen = 10
	}
	label := concept.Label
	if len(label) > maxLabelLen {
		label = label[:maxLabelLen-3] + "..."
	}

	if index == e.selected {
		return e.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxLabelLen, label, origin))
	}
	return e.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxLabelLen, label)) +
		e.styles.Muted.Render(origin)
}

// SetConcepts updates the element list, clamping the selection.
func (e *ElementList) SetConcepts(concepts []domain.Concept) {
	e.concepts = concepts
	if e.selected >= len(concepts) {
		e.selected = 0
	}
}

// Concepts returns the current collection.
func (e *ElementList) Concepts() []domain.Concept {
	return e.concepts
}

// Selected returns the index of the selected element.
func (e *ElementList) Selected() int {
	return e.selected
}

// SelectedConcept returns the currently selected element, or nil if none.
func (e *ElementList) SelectedConcept() *domain.Concept {
	if len(e.concepts) == 0 || e.selected < 0 || e.selected >= len(e.concepts) {
		return nil
	}
	return &e.concepts[e.selected]
}

// MoveUp moves selection up.
func (e *ElementList) MoveUp() {
	if e.selected > 0 {
		e.selected--
	}
}

// MoveDown moves selection down.
func (e *ElementList) MoveDown() {
	if e.selected < len(e.concepts)-1 {
		e.selected++
	}
}

// SetDimensions sets the component dimensions.
func (e *ElementList) SetDimensions(width, height int) {
	e.width = width
	e.height = height
}

// Count returns the number of elements.
func (e *ElementList) Count() int {
	return len(e.concepts)
}

// IsEmpty returns whether the list is empty.
func (e *ElementList) IsEmpty() bool {
	return len(e.concepts) == 0
}
