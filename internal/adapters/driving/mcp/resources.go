package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for Elemental resources.
const uriScheme = "elemental://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the element collection.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "elements",
		Name:        "elements",
		Description: "Every element in the collection, oldest first",
		MIMEType:    "application/json",
	}, s.handleElementsResource)
}

// handleElementsResource returns the full element collection as JSON.
func (s *Server) handleElementsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Elements == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	concepts, err := s.ports.Elements.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing elements: %w", err)
	}

	infos := make([]ElementOutput, len(concepts))
	for i := range concepts {
		infos[i] = toElementOutput(&concepts[i])
	}

	data, err := json.Marshal(infos)
	if err != nil {
		return nil, fmt.Errorf("marshalling elements: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
