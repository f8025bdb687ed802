package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Launch the interactive crafting UI",
	Long: `Launch the interactive terminal interface for Elemental.

Type a pair like "Fire + Water" and press enter to combine. Tab switches
to the collection, where enter copies an element into the input.

Controls:
  Enter    - Combine / Pick
  Tab      - Switch between craft and collection
  ↑/k, ↓/j - Navigate the collection
  ?        - Help (from the collection view)
  Ctrl+C   - Quit`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, _ []string) error {
	if resolverFactory == nil || elementService == nil {
		return errors.New("services not configured")
	}

	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// Make sure the base elements exist before the first listing.
	if err := elementService.Seed(cmd.Context()); err != nil {
		return fmt.Errorf("failed to seed elements: %w", err)
	}

	resolver, closePool, err := resolverFactory()
	if err != nil {
		return err
	}
	defer closePool()

	ports := &tui.Ports{
		Resolver: resolver,
		Elements: elementService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
