package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
)

var combineJSON bool

var combineCmd = &cobra.Command{
	Use:   "combine [element-a] [element-b]",
	Short: "Combine two elements",
	Long: `Combine two elements into a new one.

A pair that has been combined before returns its recorded result without
calling any model. A novel pair is sent to the model pool, a winner is
chosen and the result is committed to the knowledge base.`,
	Args: cobra.ExactArgs(2),
	RunE: runCombine,
}

func init() {
	combineCmd.Flags().BoolVar(&combineJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(combineCmd)
}

func runCombine(cmd *cobra.Command, args []string) error {
	if resolverFactory == nil {
		return errors.New("resolver not configured")
	}

	resolver, closePool, err := resolverFactory()
	if err != nil {
		return err
	}
	defer closePool()

	concept, err := resolver.Resolve(cmd.Context(), args[0], args[1])
	if err != nil {
		var resErr *domain.ResolutionError
		if errors.As(err, &resErr) {
			return fmt.Errorf("combine failed (%s): %w", resErr.Stage, resErr.Err)
		}
		return fmt.Errorf("combine failed: %w", err)
	}

	if combineJSON {
		return outputConceptJSON(cmd, concept)
	}

	cmd.Printf("%s + %s = %s\n", strings.TrimSpace(args[0]), strings.TrimSpace(args[1]), concept.Label)
	if concept.Rationale != "" {
		cmd.Printf("  %s\n", concept.Rationale)
	}
	if alts := otherCandidates(concept); len(alts) > 0 {
		cmd.Printf("  Also considered: %s\n", strings.Join(alts, ", "))
	}
	return nil
}

func outputConceptJSON(cmd *cobra.Command, concept *domain.Concept) error {
	data, err := json.MarshalIndent(concept, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal concept: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// otherCandidates returns the alternates minus the winning label.
func otherCandidates(concept *domain.Concept) []string {
	others := make([]string, 0, len(concept.Alternates))
	for _, alt := range concept.Alternates {
		if !strings.EqualFold(alt, concept.Label) {
			others = append(others, alt)
		}
	}
	return others
}
