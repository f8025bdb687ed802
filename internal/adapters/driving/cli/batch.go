package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	batchWorkers int
	batchDelayMS int
)

var batchCmd = &cobra.Command{
	Use:   "batch [count]",
	Short: "Resolve random element pairs in bulk",
	Long: `Resolve up to the given number of random pairs from the collection.

Pairs already in the knowledge base count as cache hits and cost nothing.
Press Ctrl+C to stop early; the in-flight resolution completes first.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "concurrent resolutions (0 = use settings)")
	batchCmd.Flags().IntVar(&batchDelayMS, "delay-ms", 0, "pause between pair picks in milliseconds")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if batchFactory == nil || settingsService == nil {
		return errors.New("batch driver not configured")
	}

	count, err := strconv.Atoi(args[0])
	if err != nil || count < 1 {
		return fmt.Errorf("count must be a positive integer, got %q", args[0])
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	cfg := settings.Batch
	if cmd.Flags().Changed("workers") {
		cfg.Workers = batchWorkers
	}
	if cmd.Flags().Changed("delay-ms") {
		cfg.Delay = time.Duration(batchDelayMS) * time.Millisecond
	}

	driver, closePool, err := batchFactory(cfg)
	if err != nil {
		return err
	}
	defer closePool()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cmd.Printf("Resolving %d random pair(s)...\n", count)

	summary, err := driver.Run(ctx, count)
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}

	cmd.Println()
	cmd.Printf("Attempted:  %d\n", summary.Attempted)
	cmd.Printf("Resolved:   %d\n", summary.Resolved)
	cmd.Printf("Cache hits: %d\n", summary.CacheHits)
	cmd.Printf("Failed:     %d\n", summary.Failed)
	if summary.Stopped {
		cmd.Println("Run stopped early.")
	}
	return nil
}
