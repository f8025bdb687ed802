package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
)

// CombineInput is the input schema for the combine tool.
type CombineInput struct {
	ElementA string `json:"element_a" jsonschema:"the first element to combine"`
	ElementB string `json:"element_b" jsonschema:"the second element to combine"`
}

// CombineOutput is the output schema for the combine tool.
type CombineOutput struct {
	Label      string   `json:"label"`
	Parents    []string `json:"parents,omitempty"`
	Rationale  string   `json:"rationale,omitempty"`
	Alternates []string `json:"alternates,omitempty"`
}

// ListElementsInput is the input schema for the list_elements tool.
type ListElementsInput struct {
	SeedsOnly bool `json:"seeds_only,omitempty" jsonschema:"only return the base elements"`
}

// ListElementsOutput is the output schema for the list_elements tool.
type ListElementsOutput struct {
	Elements []ElementOutput `json:"elements"`
	Count    int             `json:"count"`
}

// ElementOutput represents a single element in the collection.
type ElementOutput struct {
	Label   string   `json:"label"`
	Parents []string `json:"parents,omitempty"`
	Seed    bool     `json:"seed"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "combine",
		Description: "Combine two elements into a new one. Known pairs return their recorded result; novel pairs are resolved by the model pool and committed.",
	}, s.handleCombine)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_elements",
		Description: "List every element in the collection, oldest first",
	}, s.handleListElements)
}

// handleCombine handles the combine tool invocation.
func (s *Server) handleCombine(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CombineInput,
) (*mcp.CallToolResult, CombineOutput, error) {
	concept, err := s.ports.Resolver.Resolve(ctx, input.ElementA, input.ElementB)
	if err != nil {
		return nil, CombineOutput{}, err
	}

	output := CombineOutput{
		Label:      concept.Label,
		Parents:    concept.Parents,
		Rationale:  concept.Rationale,
		Alternates: concept.Alternates,
	}
	return nil, output, nil
}

// handleListElements handles the list_elements tool invocation.
func (s *Server) handleListElements(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListElementsInput,
) (*mcp.CallToolResult, ListElementsOutput, error) {
	if s.ports.Elements == nil {
		return nil, ListElementsOutput{Elements: []ElementOutput{}}, nil
	}

	concepts, err := s.ports.Elements.List(ctx)
	if err != nil {
		return nil, ListElementsOutput{}, err
	}

	output := ListElementsOutput{Elements: make([]ElementOutput, 0, len(concepts))}
	for i := range concepts {
		if input.SeedsOnly && !concepts[i].IsSeed() {
			continue
		}
		output.Elements = append(output.Elements, toElementOutput(&concepts[i]))
	}
	output.Count = len(output.Elements)

	return nil, output, nil
}

func toElementOutput(concept *domain.Concept) ElementOutput {
	return ElementOutput{
		Label:   concept.Label,
		Parents: concept.Parents,
		Seed:    concept.IsSeed(),
	}
}
