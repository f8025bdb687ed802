package craft

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/tui/messages"
	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/tui/styles"
	"github.com/mikepeiman/elemental-craft/internal/core/domain"
)

// mockResolver implements driving.ResolverService for testing.
type mockResolver struct {
	concept *domain.Concept
	err     error
	lastA   string
	lastB   string
}

func (m *mockResolver) Resolve(_ context.Context, labelA, labelB string) (*domain.Concept, error) {
	m.lastA = labelA
	m.lastB = labelB
	return m.concept, m.err
}

func steamConcept() *domain.Concept {
	return &domain.Concept{
		ID:        "c-steam",
		Label:     "Steam",
		Parents:   []string{"Fire", "Water"},
		Rationale: "Water boiled by fire becomes steam",
	}
}

func typePair(v *View, pair string) *View {
	for _, r := range pair {
		v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return v
}

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles(), &mockResolver{})

	require.NotNil(t, view)
	assert.False(t, view.Combining())
	assert.Nil(t, view.LastConcept())
	assert.NoError(t, view.Err())
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, &mockResolver{})

	require.NotNil(t, view)
}

func TestView_Init(t *testing.T) {
	view := NewView(nil, &mockResolver{})

	cmd := view.Init()

	assert.NotNil(t, cmd)
}

func TestView_Update_EnterStartsCombine(t *testing.T) {
	resolver := &mockResolver{concept: steamConcept()}
	view := NewView(nil, resolver)
	view = typePair(view, "Fire + Water")

	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.True(t, view.Combining())

	// Running the command performs the resolution.
	msg := cmd()
	completed, ok := msg.(messages.CombineCompleted)
	require.True(t, ok)
	assert.Equal(t, "Fire", completed.ElementA)
	assert.Equal(t, "Water", completed.ElementB)
	require.NotNil(t, completed.Concept)
	assert.Equal(t, "Steam", completed.Concept.Label)
	assert.Equal(t, "Fire", resolver.lastA)
	assert.Equal(t, "Water", resolver.lastB)
}

func TestView_Update_EnterRejectsInvalidPair(t *testing.T) {
	view := NewView(nil, &mockResolver{})
	view = typePair(view, "just one element")

	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, view.Combining())
	assert.Error(t, view.Err())
}

func TestView_Update_EnterIgnoredWhileCombining(t *testing.T) {
	view := NewView(nil, &mockResolver{concept: steamConcept()})
	view = typePair(view, "Fire + Water")
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, view.Combining())

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_Update_CombineCompleted_Success(t *testing.T) {
	view := NewView(nil, &mockResolver{})
	view = typePair(view, "Fire + Water")
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msg := messages.CombineCompleted{
		ElementA: "Fire",
		ElementB: "Water",
		Concept:  steamConcept(),
	}
	view, _ = view.Update(msg)

	assert.False(t, view.Combining())
	require.NotNil(t, view.LastConcept())
	assert.Equal(t, "Steam", view.LastConcept().Label)
	assert.NoError(t, view.Err())
	// A successful resolution clears the input for the next pair.
	assert.Empty(t, view.InputValue())
}

func TestView_Update_CombineCompleted_Error(t *testing.T) {
	view := NewView(nil, &mockResolver{})
	view = typePair(view, "Fire + Water")
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msg := messages.CombineCompleted{
		ElementA: "Fire",
		ElementB: "Water",
		Err:      errors.New("no candidates"),
	}
	view, _ = view.Update(msg)

	assert.False(t, view.Combining())
	assert.Error(t, view.Err())
	// The input is kept so the pair can be retried.
	assert.Equal(t, "Fire + Water", view.InputValue())
}

func TestView_Update_DiscoveryLogIsBounded(t *testing.T) {
	view := NewView(nil, &mockResolver{})

	for i := 0; i < maxDiscoveries+3; i++ {
		view, _ = view.Update(messages.CombineCompleted{
			ElementA: "Fire",
			ElementB: "Water",
			Concept:  steamConcept(),
		})
	}

	assert.Len(t, view.discoveries, maxDiscoveries)
}

func TestView_PerformCombine_NoResolver(t *testing.T) {
	view := NewView(nil, nil)

	cmd := view.performCombine("Fire", "Water")
	msg := cmd()

	errMsg, ok := msg.(messages.ErrorOccurred)
	require.True(t, ok)
	assert.ErrorIs(t, errMsg.Err, ErrNoResolverService)
}

func TestView_AppendLabel(t *testing.T) {
	view := NewView(nil, &mockResolver{})

	view.AppendLabel("Fire")
	assert.Equal(t, "Fire", view.InputValue())

	view.AppendLabel("Water")
	assert.Equal(t, "Fire + Water", view.InputValue())
}

func TestView_View_ShowsResult(t *testing.T) {
	view := NewView(nil, &mockResolver{})
	view, _ = view.Update(messages.CombineCompleted{
		ElementA: "Fire",
		ElementB: "Water",
		Concept:  steamConcept(),
	})

	rendered := view.View()

	assert.Contains(t, rendered, "Fire + Water = Steam")
	assert.Contains(t, rendered, "Water boiled by fire")
	assert.Contains(t, rendered, "This session")
}

func TestView_View_ShowsCombining(t *testing.T) {
	view := NewView(nil, &mockResolver{concept: steamConcept()})
	view = typePair(view, "Fire + Water")
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	rendered := view.View()

	assert.Contains(t, rendered, "Combining...")
}

func TestView_View_ShowsError(t *testing.T) {
	view := NewView(nil, &mockResolver{})
	view, _ = view.Update(messages.CombineCompleted{
		ElementA: "Fire",
		ElementB: "Water",
		Err:      errors.New("no candidates"),
	})

	rendered := view.View()

	assert.Contains(t, rendered, "Error: no candidates")
}

func TestView_WithContext(t *testing.T) {
	view := NewView(nil, &mockResolver{})

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")
	result := view.WithContext(ctx)

	assert.Equal(t, view, result)
}
