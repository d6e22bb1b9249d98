//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	mcpEndpoint = "/mcp"
)

// MCPClient holds one session against the streamable HTTP endpoint.
type MCPClient struct {
	session *mcp.ClientSession
}

// NewMCPClient connects to the MCP endpoint under baseURL.
func NewMCPClient(ctx context.Context, baseURL string) (*MCPClient, error) {
	client := mcp.NewClient(&mcp.Implementation{Name: "yearchart-e2e", Version: "v0.0.1"}, nil)
	transport := &mcp.StreamableClientTransport{
		Endpoint:   baseURL + mcpEndpoint,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", baseURL+mcpEndpoint, err)
	}
	return &MCPClient{session: session}, nil
}

// Close ends the session.
func (c *MCPClient) Close() error {
	return c.session.Close()
}

// CallTool is a convenience method for calling an MCP tool. Protocol failures
// come back as the error, tool failures as a result with IsError set.
func (c *MCPClient) CallTool(t *testing.T, toolName string, args map[string]any) (*mcp.CallToolResult, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	return c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
}
