// Package cli implements the command-line interface. Commands talk to the
// core through the driving ports; wiring happens in the main package and is
// injected via Configure before Execute runs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driving"
	"github.com/mikepeiman/elemental-craft/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// ResolverFactory builds a resolver backed by a live model pool. The
// returned close function releases the pool. Commands that never generate
// anything do not call it, so settings and listing work without any
// provider credentials.
type ResolverFactory func() (driving.ResolverService, func(), error)

// BatchFactory builds a batch driver over a fresh resolver using the given
// batch configuration.
type BatchFactory func(cfg domain.BatchSettings) (driving.BatchDriver, func(), error)

// Config holds the services and factories the commands use.
type Config struct {
	Settings    driving.SettingsService
	Elements    driving.ElementService
	NewResolver ResolverFactory
	NewBatch    BatchFactory
}

var (
	verbose bool

	settingsService driving.SettingsService
	elementService  driving.ElementService
	resolverFactory ResolverFactory
	batchFactory    BatchFactory
)

// Configure injects the services the commands depend on.
func Configure(cfg *Config) {
	if cfg == nil {
		return
	}
	settingsService = cfg.Settings
	elementService = cfg.Elements
	resolverFactory = cfg.NewResolver
	batchFactory = cfg.NewBatch
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "elemental",
	Short: "An infinite crafting game driven by language models",
	Long: `Elemental is an infinite crafting game for the terminal.

Combine two elements and a pool of language models invents the result.
Every discovered combination is committed to a local knowledge base, so
the same pair always yields the same element.

Start with 'elemental play' for the interactive UI, or combine directly:

  elemental combine Fire Water`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
