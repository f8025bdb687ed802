// Command elemental is an infinite crafting game for the terminal.
// It wires the storage, configuration and LLM adapters to the core
// services and hands them to the CLI.
package main

import (
	"fmt"
	"os"

	"github.com/mikepeiman/elemental-craft/internal/adapters/driven/ai"
	"github.com/mikepeiman/elemental-craft/internal/adapters/driven/config/file"
	"github.com/mikepeiman/elemental-craft/internal/adapters/driven/storage/sqlite"
	"github.com/mikepeiman/elemental-craft/internal/adapters/driving/cli"
	"github.com/mikepeiman/elemental-craft/internal/core/domain"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driving"
	"github.com/mikepeiman/elemental-craft/internal/core/services"
	"github.com/mikepeiman/elemental-craft/internal/logger"
	"github.com/mikepeiman/elemental-craft/internal/normaliser"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("failed to open config store: %w", err)
	}

	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("failed to open prompt store: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer store.Close() //nolint:errcheck

	knowledge := store.KnowledgeStore()
	norm := normaliser.New(normaliser.DefaultConfig())

	settingsService := services.NewSettings(configStore, ai.NewConfigValidator())
	elementService := services.NewElements(knowledge)

	// The model pool is built per command so settings-only invocations
	// never require provider credentials.
	newResolver := func() (driving.ResolverService, func(), error) {
		settings, err := settingsService.Get()
		if err != nil {
			return nil, nil, err
		}

		pool, err := ai.CreatePool(settings.Engine)
		if err != nil {
			return nil, nil, err
		}

		stopWatch, err := promptStore.Watch()
		if err != nil {
			logger.Warn("Prompt hot reload unavailable: %v", err)
			stopWatch = func() {}
		}

		generator := services.NewGenerator(pool.Models, promptStore, settings.Engine)
		selector := services.NewSelector(pool.Adjudicator, promptStore, norm, settings.Engine)
		resolver := services.NewResolver(knowledge, generator, selector, norm)

		closeFn := func() {
			stopWatch()
			pool.Close()
		}
		return resolver, closeFn, nil
	}

	newBatch := func(cfg domain.BatchSettings) (driving.BatchDriver, func(), error) {
		resolver, closeFn, err := newResolver()
		if err != nil {
			return nil, nil, err
		}
		return services.NewBatch(resolver, knowledge, cfg), closeFn, nil
	}

	cli.Configure(&cli.Config{
		Settings:    settingsService,
		Elements:    elementService,
		NewResolver: newResolver,
		NewBatch:    newBatch,
	})

	return cli.Execute()
}
