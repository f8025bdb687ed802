package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
)

func newReadRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	}
}

func TestServer_handleElementsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the collection as JSON", func(t *testing.T) {
		ports := &Ports{
			Resolver: &mockResolverService{},
			Elements: &mockElementService{concepts: []domain.Concept{
				{Label: "Fire"},
				{Label: "Steam", Parents: []string{"Fire", "Water"}},
			}},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleElementsResource(ctx, newReadRequest(uriScheme+"elements"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"Fire"`)
		assert.Contains(t, result.Contents[0].Text, `"Steam"`)
	})

	t.Run("nil element service returns empty array", func(t *testing.T) {
		server, err := NewServer(&Ports{Resolver: &mockResolverService{}})
		require.NoError(t, err)

		result, err := server.handleElementsResource(ctx, newReadRequest(uriScheme+"elements"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("propagates listing errors", func(t *testing.T) {
		ports := &Ports{
			Resolver: &mockResolverService{},
			Elements: &mockElementService{err: errors.New("store closed")},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleElementsResource(ctx, newReadRequest(uriScheme+"elements"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "store closed")
	})
}
