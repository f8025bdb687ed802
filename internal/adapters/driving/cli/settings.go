package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the model pool, selection mode and other options.

Use subcommands to configure specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsModeCmd = &cobra.Command{
	Use:   "mode",
	Short: "Set the selection mode",
	Long: `Set how a winner is chosen among model candidates.

Available modes:
  adjudicated - a second model picks the best candidate (recommended)
  direct      - the first successful model wins (cheapest)`,
	RunE: runSettingsMode,
}

var settingsPoolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Configure the model pool",
	Long:  `Replace the pool of models asked for combination candidates.`,
	RunE:  runSettingsPool,
}

var settingsAdjudicatorCmd = &cobra.Command{
	Use:   "adjudicator",
	Short: "Configure the adjudicator model",
	Long:  `Configure the model that picks among candidates in adjudicated mode.`,
	RunE:  runSettingsAdjudicator,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsModeCmd)
	settingsCmd.AddCommand(settingsPoolCmd)
	settingsCmd.AddCommand(settingsAdjudicatorCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Engine]")
	cmd.Printf("  Mode: %s\n", settings.Engine.Mode.Description())
	cmd.Printf("  Temperature: %.1f\n", settings.Engine.Temperature)
	cmd.Printf("  Max tokens: %d\n", settings.Engine.MaxTokens)
	cmd.Printf("  Attempt timeout: %s\n", settings.Engine.AttemptTimeout)
	cmd.Printf("  Max retries: %d\n", settings.Engine.MaxRetries)
	cmd.Printf("  Requests per second: %.1f\n", settings.Engine.RequestsPerSecond)
	cmd.Println()

	cmd.Println("[Pool]")
	for i, entry := range settings.Engine.Pool {
		printProviderEntry(cmd, fmt.Sprintf("  %d.", i+1), entry)
	}
	cmd.Println()

	cmd.Println("[Adjudicator]")
	printProviderEntry(cmd, " ", settings.Engine.Adjudicator)
	cmd.Println()

	cmd.Println("[Batch]")
	cmd.Printf("  Workers: %d\n", settings.Batch.Workers)
	cmd.Printf("  Delay: %s\n", settings.Batch.Delay)
	cmd.Println()

	configured := 0
	for _, entry := range settings.Engine.Pool {
		if entry.IsConfigured() {
			configured++
		}
	}
	if configured == 0 {
		cmd.Println("Warning: no pool model is configured.")
		cmd.Println("Run 'elemental settings wizard' or export OPENROUTER_API_KEY.")
	} else {
		cmd.Printf("%d of %d pool model(s) configured.\n", configured, len(settings.Engine.Pool))
	}

	return nil
}

func printProviderEntry(cmd *cobra.Command, prefix string, entry domain.ProviderSettings) {
	cmd.Printf("%s %s (%s)\n", prefix, entry.Model, entry.Provider.Description())
	pad := strings.Repeat(" ", len(prefix))
	if entry.BaseURL != "" {
		cmd.Printf("%s Base URL: %s\n", pad, entry.BaseURL)
	}
	if entry.Provider.RequiresAPIKey() {
		if entry.APIKey != "" {
			cmd.Printf("%s API Key: %s\n", pad, maskAPIKey(entry.APIKey))
		} else {
			cmd.Printf("%s API Key: (not set)\n", pad)
		}
	}
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Elemental Settings Wizard")
	cmd.Println("=========================")
	cmd.Println()

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	// Step 1: Selection mode
	cmd.Println("Step 1: Selection Mode")
	cmd.Println("----------------------")
	modes := domain.AllSelectionModes()
	for i, mode := range modes {
		cmd.Printf("  %d. %s\n", i+1, mode.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	settings.Engine.Mode = modes[parseChoice(input, len(modes), 1)-1]
	cmd.Printf("Selection mode: %s\n\n", settings.Engine.Mode.Description())

	// Step 2: Model pool
	cmd.Println("Step 2: Model Pool")
	cmd.Println("------------------")
	cmd.Println("These models are asked for combination candidates, in order.")
	cmd.Println()

	pool, err := configurePool(cmd, reader, settings.Engine.Pool)
	if err != nil {
		return err
	}
	settings.Engine.Pool = pool

	// Step 3: Adjudicator
	if settings.Engine.Mode == domain.SelectionAdjudicated {
		cmd.Println("Step 3: Adjudicator")
		cmd.Println("-------------------")
		cmd.Println("This model picks the best candidate from the pool's outputs.")
		cmd.Println()

		entry, err := configureProviderEntry(cmd, reader, settings.Engine.Adjudicator)
		if err != nil {
			return err
		}
		settings.Engine.Adjudicator = entry
	} else {
		cmd.Println("Step 3: Adjudicator (skipped)")
		cmd.Println("-----------------------------")
		cmd.Println("Not required for direct selection.")
		cmd.Println()
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	cmd.Println("All settings saved.")
	return nil
}

func runSettingsMode(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Selection Mode")
	cmd.Println("---------------------")
	modes := domain.AllSelectionModes()
	for i, mode := range modes {
		cmd.Printf("  %d. %s\n", i+1, mode.Description())
	}
	cmd.Print("\nEnter choice: ")
	input := readLine(reader)
	idx := parseChoice(input, len(modes), 0)
	if idx == 0 {
		return errors.New("invalid selection")
	}

	settings.Engine.Mode = modes[idx-1]
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Selection mode set to: %s\n", settings.Engine.Mode.Description())

	if settings.Engine.Mode == domain.SelectionAdjudicated && !settings.Engine.Adjudicator.IsConfigured() {
		cmd.Println("\nNote: adjudicated mode needs an adjudicator model.")
		cmd.Println("Run 'elemental settings adjudicator' to configure.")
	}

	return nil
}

func runSettingsPool(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	pool, err := configurePool(cmd, reader, settings.Engine.Pool)
	if err != nil {
		return err
	}

	settings.Engine.Pool = pool
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Pool configured with %d model(s).\n", len(pool))
	return nil
}

func runSettingsAdjudicator(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	entry, err := configureProviderEntry(cmd, reader, settings.Engine.Adjudicator)
	if err != nil {
		return err
	}

	settings.Engine.Adjudicator = entry
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Adjudicator configured: %s (%s)\n", entry.Model, entry.Provider.Description())
	return nil
}

// configurePool interactively rebuilds the model pool. The current pool
// seeds the defaults entry by entry.
func configurePool(
	cmd *cobra.Command,
	reader *bufio.Reader,
	current []domain.ProviderSettings,
) ([]domain.ProviderSettings, error) {
	var pool []domain.ProviderSettings
	for {
		var defaults domain.ProviderSettings
		if len(pool) < len(current) {
			defaults = current[len(pool)]
		} else if len(current) > 0 {
			defaults = current[len(current)-1]
		}

		entry, err := configureProviderEntry(cmd, reader, defaults)
		if err != nil {
			return nil, err
		}
		pool = append(pool, entry)

		cmd.Print("Add another model to the pool? [y/N]: ")
		answer := strings.ToLower(readLine(reader))
		if answer != "y" && answer != "yes" {
			break
		}
		cmd.Println()
	}
	return pool, nil
}

// configureProviderEntry prompts for one provider entry and validates it
// with a ping before returning.
func configureProviderEntry(
	cmd *cobra.Command,
	reader *bufio.Reader,
	defaults domain.ProviderSettings,
) (domain.ProviderSettings, error) {
	var entry domain.ProviderSettings

	cmd.Println("Select Provider")
	providers := domain.AllAIProviders()
	defaultIdx := 1
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
		if p == defaults.Provider {
			defaultIdx = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", defaultIdx)
	input := readLine(reader)
	entry.Provider = providers[parseChoice(input, len(providers), defaultIdx)-1]

	defaultModel := defaults.Model
	if defaults.Provider != entry.Provider {
		defaultModel = ""
	}
	if defaultModel != "" {
		cmd.Printf("Enter model name [%s]: ", defaultModel)
	} else {
		cmd.Print("Enter model name: ")
	}
	entry.Model = readLine(reader)
	if entry.Model == "" {
		entry.Model = defaultModel
	}
	if entry.Model == "" {
		return entry, errors.New("model name is required")
	}

	cmd.Print("Enter base URL (empty for provider default): ")
	entry.BaseURL = readLine(reader)
	if entry.BaseURL == "" && defaults.Provider == entry.Provider {
		entry.BaseURL = defaults.BaseURL
	}

	if entry.Provider.RequiresAPIKey() {
		if defaults.APIKey != "" {
			cmd.Print("Enter API key (empty keeps current): ")
		} else {
			cmd.Print("Enter API key: ")
		}
		entry.APIKey = readPassword()
		cmd.Println()
		if entry.APIKey == "" {
			entry.APIKey = defaults.APIKey
		}
		if entry.APIKey == "" {
			return entry, errors.New("API key is required for this provider")
		}
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateProvider(entry); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return entry, fmt.Errorf("provider validation failed: %w", err)
	}
	cmd.Println("OK")
	cmd.Println()

	return entry, nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
