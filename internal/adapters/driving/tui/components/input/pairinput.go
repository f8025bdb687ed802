// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/tui/styles"
)

// PairInput wraps a bubbles textinput that accepts an element pair written
// as "Fire + Water".
type PairInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewPairInput creates a new pair input component.
func NewPairInput(s *styles.Styles) *PairInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Fire + Water"
	ti.Focus()
	ti.CharLimit = 128
	ti.Width = 40

	return &PairInput{
		textinput: ti,
		styles:    s,
		width:     40,
	}
}

// Init initialises the pair input.
func (p *PairInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (p *PairInput) Update(msg tea.Msg) (*PairInput, tea.Cmd) {
	var cmd tea.Cmd
	p.textinput, cmd = p.textinput.Update(msg)
	return p, cmd
}

// View renders the pair input.
func (p *PairInput) View() string {
	label := p.styles.Title.Render("Combine: ")
	field := p.styles.InputField.Render(p.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Pair parses the input into its two element labels. The second return is
// false when the input is not a valid "A + B" pair.
func (p *PairInput) Pair() (labelA, labelB string, ok bool) {
	labelA, labelB, found := strings.Cut(p.textinput.Value(), "+")
	labelA = strings.TrimSpace(labelA)
	labelB = strings.TrimSpace(labelB)
	if !found || labelA == "" || labelB == "" {
		return "", "", false
	}
	return labelA, labelB, true
}

// Value returns the raw input value.
func (p *PairInput) Value() string {
	return p.textinput.Value()
}

// SetValue sets the input value.
func (p *PairInput) SetValue(value string) {
	p.textinput.SetValue(value)
	p.textinput.CursorEnd()
}

// Append adds a label to the input, inserting the separator when one half
// is already present.
func (p *PairInput) Append(label string) {
	current := strings.TrimSpace(p.textinput.Value())
	switch {
	case current == "":
		p.SetValue(label)
	case strings.Contains(current, "+"):
		p.SetValue(label)
	default:
		p.SetValue(current + " + " + label)
	}
}

// Focus sets focus on the input.
func (p *PairInput) Focus() tea.Cmd {
	return p.textinput.Focus()
}

// Blur removes focus from the input.
func (p *PairInput) Blur() {
	p.textinput.Blur()
}

// Focused returns whether the input is focused.
func (p *PairInput) Focused() bool {
	return p.textinput.Focused()
}

// SetWidth sets the width of the input.
func (p *PairInput) SetWidth(width int) {
	p.width = width
	inputWidth := width - 12
	if inputWidth < 20 {
		inputWidth = 20
	}
	p.textinput.Width = inputWidth
}

// Reset clears the input.
func (p *PairInput) Reset() {
	p.textinput.Reset()
}
