package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
)

func TestElementsCmd_Use(t *testing.T) {
	assert.Equal(t, "elements", elementsCmd.Use)
}

func TestElementsCmd_HasSubcommands(t *testing.T) {
	commands := elementsCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "seed")
}

func TestElementsCmd_ListsCollection(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"elements"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Fire (seed)")
	assert.Contains(t, buf.String(), "Steam = Fire + Water")
	assert.Contains(t, buf.String(), "3 element(s), 1 discovered")
}

func TestElementsCmd_EmptyCollection(t *testing.T) {
	cleanup := setupTestServicesWith(
		&mockResolverService{},
		&mockElementService{},
		&mockBatchDriver{},
		&mockSettingsService{},
	)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"elements", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No elements yet")
}

func TestElementsSeedCmd_Executes(t *testing.T) {
	elements := &mockElementService{}
	cleanup := setupTestServicesWith(
		&mockResolverService{},
		elements,
		&mockBatchDriver{},
		&mockSettingsService{},
	)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"elements", "seed"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.True(t, elements.seeded)
	assert.Contains(t, buf.String(), "Base elements ready")
}

func TestElementsCmd_ErrorsWithoutServices(t *testing.T) {
	oldService := elementService
	elementService = nil
	defer func() { elementService = oldService }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"elements"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestCountDiscovered(t *testing.T) {
	concepts := []domain.Concept{
		{Label: "Fire"},
		{Label: "Steam", Parents: []string{"Fire", "Water"}},
		{Label: "Mud", Parents: []string{"Earth", "Water"}},
	}

	assert.Equal(t, 2, countDiscovered(concepts))
	assert.Equal(t, 0, countDiscovered(nil))
}
