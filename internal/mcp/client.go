// Package mcp connects to Model Context Protocol servers and exposes
// their tools to the agent.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yodaai/yoda/internal/config"
)

// Client metadata sent to servers during the MCP handshake.
const (
	clientName    = "yoda"
	clientVersion = "dev"
)

// transportBuilder is overridden in tests to stub the transport factory.
var transportBuilder = BuildTransport

// Client wraps an SDK client and its session for one configured server.
// Connection is lazy: the first call that needs the server dials it.
type Client struct {
	server     config.MCPServerConfig
	impl       *mcpsdk.Client
	session    *mcpsdk.ClientSession
	once       sync.Once
	connectErr error
}

// NewClient creates a client for the given server registration. No
// connection is made until the client is first used.
func NewClient(server config.MCPServerConfig) *Client {
	impl := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    clientName,
		Version: clientVersion,
	}, nil)
	return &Client{server: server, impl: impl}
}

// Name returns the configured server name.
func (c *Client) Name() string {
	return c.server.Name
}

// ensureConnected dials the server exactly once; later calls reuse the
// session or report the original connect error.
func (c *Client) ensureConnected(ctx context.Context) error {
	c.once.Do(func() {
		transport, err := transportBuilder(ctx, c.server)
		if err != nil {
			c.connectErr = fmt.Errorf("building transport for %q: %w", c.server.Name, err)
			return
		}
		session, err := c.impl.Connect(ctx, transport, nil)
		if err != nil {
			c.connectErr = fmt.Errorf("connecting to %q: %w", c.server.Name, err)
			return
		}
		c.session = session
	})
	return c.connectErr
}

// Tools lists the tools the server offers.
func (c *Client) Tools(ctx context.Context) ([]*mcpsdk.Tool, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	var toolList []*mcpsdk.Tool
	for tool, err := range c.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("listing tools from %q: %w", c.server.Name, err)
		}
		toolList = append(toolList, tool)
	}
	return toolList, nil
}

// CallTool invokes a named tool and flattens the result content to
// text. The bool reports whether the server flagged the result as an
// error.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, bool, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return "", false, err
	}

	result, err := c.session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return "", false, fmt.Errorf("calling tool %q on %q: %w", name, c.server.Name, err)
	}
	return flattenContent(result.Content), result.IsError, nil
}

// Ping verifies the server answers by connecting and listing its tools.
// It returns the tool count on success.
func (c *Client) Ping(ctx context.Context) (int, error) {
	toolList, err := c.Tools(ctx)
	if err != nil {
		return 0, err
	}
	return len(toolList), nil
}

// Close shuts down the session, if one was established.
func (c *Client) Close() error {
	if c == nil || c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	return err
}

// flattenContent joins text blocks with newlines. Non-text blocks are
// noted rather than dropped so the model knows something was returned.
func flattenContent(content []mcpsdk.Content) string {
	var parts []string
	for _, block := range content {
		switch block := block.(type) {
		case *mcpsdk.TextContent:
			parts = append(parts, block.Text)
		default:
			parts = append(parts, "[non-text content]")
		}
	}
	return strings.Join(parts, "\n")
}
