package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/tui/components/status"
	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/tui/keymap"
	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/tui/messages"
	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/tui/styles"
	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/tui/views/collection"
	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/tui/views/craft"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the keybindings.
	keymap *keymap.KeyMap

	// craftView is the combination input and result view.
	craftView *craft.View

	// collectionView is the element collection view.
	collectionView *collection.View

	// statusBar shows state and keybinding hints.
	statusBar *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		keymap:         km,
		craftView:      craft.NewView(s, ports.Resolver),
		collectionView: collection.NewView(s, ports.Elements),
		statusBar:      status.NewBar(s, km),
		currentView:    messages.ViewCraft,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.craftView.WithContext(ctx)
	a.collectionView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.craftView.Init(),
		a.collectionView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.statusBar.SetWidth(msg.Width)
		a.craftView.SetDimensions(msg.Width, msg.Height-2)
		a.collectionView.SetDimensions(msg.Width, msg.Height-2)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.CombineCompleted:
		a.craftView, _ = a.craftView.Update(msg)
		if msg.Err == nil {
			// A new element may have been committed, refresh the collection.
			return a, a.collectionView.Load()
		}
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil

	case messages.ElementsLoaded:
		a.collectionView, _ = a.collectionView.Update(msg)
		if msg.Err == nil {
			a.statusBar.SetElementCount(len(msg.Concepts))
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil
	}

	return a.updateCurrentView(msg)
}

// handleKeyMsg routes key presses to global bindings first, then the
// active view.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if keymap.Matches(keyStr, a.keymap.Quit) {
		return a, tea.Quit
	}

	if keymap.Matches(keyStr, a.keymap.Switch) {
		if a.currentView == messages.ViewCraft {
			a.currentView = messages.ViewCollection
			a.statusBar.SetState(status.StateCollection)
		} else {
			a.currentView = messages.ViewCraft
			a.statusBar.SetState(status.StateReady)
		}
		return a, nil
	}

	switch a.currentView {
	case messages.ViewHelp:
		if keymap.Matches(keyStr, a.keymap.Back) {
			a.currentView = messages.ViewCraft
			a.statusBar.SetState(status.StateReady)
		}
		return a, nil

	case messages.ViewCollection:
		if keymap.Matches(keyStr, a.keymap.Help) {
			a.currentView = messages.ViewHelp
			a.statusBar.SetState(status.StateHelp)
			return a, nil
		}
		if keymap.Matches(keyStr, a.keymap.Pick) {
			if concept := a.collectionView.SelectedConcept(); concept != nil {
				a.craftView.AppendLabel(concept.Label)
				a.currentView = messages.ViewCraft
				a.statusBar.SetState(status.StateReady)
			}
			return a, nil
		}

	case messages.ViewCraft:
		if keyStr == "enter" {
			a.statusBar.SetState(status.StateCombining)
		}
	}

	return a.updateCurrentView(msg)
}

// updateCurrentView forwards a message to the active view.
func (a *App) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewCraft:
		a.craftView, cmd = a.craftView.Update(msg)
		if !a.craftView.Combining() {
			a.statusBar.SetState(status.StateReady)
		}
	case messages.ViewCollection:
		a.collectionView, cmd = a.collectionView.Update(msg)
	case messages.ViewHelp:
		// Help is static.
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewCraft:
		body = a.craftView.View()
	case messages.ViewCollection:
		body = a.collectionView.View()
	case messages.ViewHelp:
		body = a.renderHelp()
	}

	return body + "\n" + a.statusBar.View()
}

// renderHelp renders the full keybinding reference.
func (a *App) renderHelp() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Muted.Render("Press esc to go back."))
	return b.String()
}

// CurrentView returns the active view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error, or nil.
func (a *App) Err() error {
	return a.err
}
