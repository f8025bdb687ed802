package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
)

var elementsJSON bool

var elementsCmd = &cobra.Command{
	Use:   "elements",
	Short: "List discovered elements",
	Long: `List every element in the collection, oldest first.

Seed elements are marked; derived elements show the pair they came from.`,
	RunE: runElementsList,
}

var elementsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered elements",
	RunE:  runElementsList,
}

var elementsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Ensure the base elements exist",
	Long:  `Create any missing base elements. Safe to run repeatedly.`,
	RunE:  runElementsSeed,
}

func init() {
	elementsCmd.PersistentFlags().BoolVar(&elementsJSON, "json", false, "output elements as JSON")
	elementsCmd.AddCommand(elementsListCmd)
	elementsCmd.AddCommand(elementsSeedCmd)
	rootCmd.AddCommand(elementsCmd)
}

func runElementsList(cmd *cobra.Command, _ []string) error {
	if elementService == nil {
		return errors.New("element service not configured")
	}

	concepts, err := elementService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list elements: %w", err)
	}

	if elementsJSON {
		data, err := json.MarshalIndent(concepts, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal elements: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(concepts) == 0 {
		cmd.Println("No elements yet. Run 'elemental elements seed' to create the base set.")
		return nil
	}

	cmd.Println("Elements:")
	cmd.Println()
	for i := range concepts {
		c := &concepts[i]
		if c.IsSeed() {
			cmd.Printf("  %s (seed)\n", c.Label)
		} else {
			cmd.Printf("  %s = %s\n", c.Label, strings.Join(c.Parents, " + "))
		}
	}
	cmd.Println()
	cmd.Printf("%d element(s), %d discovered\n", len(concepts), countDiscovered(concepts))
	return nil
}

func runElementsSeed(cmd *cobra.Command, _ []string) error {
	if elementService == nil {
		return errors.New("element service not configured")
	}

	if err := elementService.Seed(cmd.Context()); err != nil {
		return fmt.Errorf("failed to seed elements: %w", err)
	}

	cmd.Printf("Base elements ready: %s\n", strings.Join(domain.SeedLabels(), ", "))
	return nil
}

func countDiscovered(concepts []domain.Concept) int {
	n := 0
	for i := range concepts {
		if !concepts[i].IsSeed() {
			n++
		}
	}
	return n
}
