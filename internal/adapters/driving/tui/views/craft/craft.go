// Package craft provides the combination input and result view for the TUI.
package craft

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/tui/components/input"
	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/tui/messages"
	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/tui/styles"
	"github.com/mikepeiman/elemental-craft/internal/core/domain"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driving"
)

// ErrNoResolverService is returned when the view has no resolver wired in.
var ErrNoResolverService = errors.New("craft: resolver service not available")

// maxDiscoveries bounds the recent discovery list shown under the input.
const maxDiscoveries = 8

// discovery records one resolved pair for the session log.
type discovery struct {
	elementA string
	elementB string
	label    string
	err      error
}

// View is the crafting view: a pair input, the latest result and a short
// log of the session's discoveries.
type View struct {
	styles    *styles.Styles
	resolver  driving.ResolverService
	ctx       context.Context
	pairInput *input.PairInput

	combining   bool
	lastConcept *domain.Concept
	discoveries []discovery
	err         error

	width  int
	height int
}

// NewView creates a new crafting view.
func NewView(s *styles.Styles, resolver driving.ResolverService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:    s,
		resolver:  resolver,
		ctx:       context.Background(),
		pairInput: input.NewPairInput(s),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for resolutions.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the crafting view.
func (v *View) Init() tea.Cmd {
	return v.pairInput.Init()
}

// Update handles messages for the crafting view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if msg.String() == "enter" && !v.combining {
			labelA, labelB, ok := v.pairInput.Pair()
			if !ok {
				v.err = fmt.Errorf("enter a pair like %q", "Fire + Water")
				return v, nil
			}
			v.combining = true
			v.err = nil
			return v, v.performCombine(labelA, labelB)
		}

	case messages.CombineCompleted:
		v.handleCombineCompleted(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.pairInput, cmd = v.pairInput.Update(msg)
	return v, cmd
}

// performCombine resolves the pair asynchronously.
func (v *View) performCombine(labelA, labelB string) tea.Cmd {
	return func() tea.Msg {
		if v.resolver == nil {
			return messages.ErrorOccurred{Err: ErrNoResolverService}
		}
		concept, err := v.resolver.Resolve(v.ctx, labelA, labelB)
		return messages.CombineCompleted{
			ElementA: labelA,
			ElementB: labelB,
			Concept:  concept,
			Err:      err,
		}
	}
}

// handleCombineCompleted records the outcome of a resolution.
func (v *View) handleCombineCompleted(msg messages.CombineCompleted) {
	v.combining = false

	entry := discovery{elementA: msg.ElementA, elementB: msg.ElementB, err: msg.Err}
	if msg.Err != nil {
		v.err = msg.Err
	} else {
		v.err = nil
		v.lastConcept = msg.Concept
		v.pairInput.Reset()
		entry.label = msg.Concept.Label
	}

	v.discoveries = append([]discovery{entry}, v.discoveries...)
	if len(v.discoveries) > maxDiscoveries {
		v.discoveries = v.discoveries[:maxDiscoveries]
	}
}

// View renders the crafting view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Elemental"))
	b.WriteString("\n\n")
	b.WriteString(v.pairInput.View())
	b.WriteString("\n\n")

	switch {
	case v.combining:
		b.WriteString(v.styles.Muted.Render("Combining..."))
		b.WriteString("\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.lastConcept != nil:
		b.WriteString(v.renderResult(v.lastConcept))
	}

	if len(v.discoveries) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render("This session"))
		b.WriteString("\n")
		for _, d := range v.discoveries {
			b.WriteString(v.renderDiscovery(d))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderResult formats the latest resolved concept.
func (v *View) renderResult(concept *domain.Concept) string {
	var b strings.Builder

	line := fmt.Sprintf("%s = %s", strings.Join(concept.Parents, " + "), concept.Label)
	b.WriteString(v.styles.Success.Render(line))
	b.WriteString("\n")
	if concept.Rationale != "" {
		b.WriteString(v.styles.Muted.Render("  " + concept.Rationale))
		b.WriteString("\n")
	}
	return b.String()
}

// renderDiscovery formats one session log entry.
func (v *View) renderDiscovery(d discovery) string {
	pair := fmt.Sprintf("%s + %s", d.elementA, d.elementB)
	if d.err != nil {
		return v.styles.Error.Render(fmt.Sprintf("  %s: %v", pair, d.err))
	}
	return v.styles.Normal.Render(fmt.Sprintf("  %s = %s", pair, d.label))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.pairInput.SetWidth(width)
}

// Combining reports whether a resolution is in flight.
func (v *View) Combining() bool {
	return v.combining
}

// LastConcept returns the most recently resolved concept, or nil.
func (v *View) LastConcept() *domain.Concept {
	return v.lastConcept
}

// Err returns the last error, or nil.
func (v *View) Err() error {
	return v.err
}

// AppendLabel copies a label into the pair input.
func (v *View) AppendLabel(label string) {
	v.pairInput.Append(label)
}

// InputValue returns the raw pair input value.
func (v *View) InputValue() string {
	return v.pairInput.Value()
}
